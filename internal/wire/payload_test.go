package wire_test

import "google.golang.org/protobuf/encoding/protowire"

// msg builds a protobuf payload field by field in wire order.
type msg []byte

func (m msg) varint(num protowire.Number, v uint64) msg {
	b := protowire.AppendTag(m, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func (m msg) str(num protowire.Number, s string) msg {
	b := protowire.AppendTag(m, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func (m msg) sub(num protowire.Number, inner msg) msg {
	b := protowire.AppendTag(m, num, protowire.BytesType)
	return protowire.AppendBytes(b, inner)
}

func translation(text, lang string) msg {
	return msg{}.str(1, text).str(2, lang)
}

func entity(id string) msg {
	return msg{}.str(1, id)
}

// bulletinMsg returns a bulletin with every required field set.
func bulletinMsg(id string) msg {
	return msg{}.
		str(1, id).
		varint(2, 33). // SERVICE_DISRUPTION
		varint(3, 500).
		varint(4, 0).
		varint(5, 1000).
		varint(6, 3). // DISRUPTION_ROUTE
		varint(7, 1)  // INFO
}
