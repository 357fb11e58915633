// Package bus connects the ingester to the message bus.
//
// It hides the broker behind Consumer, and Run drives the consume loop:
// receive one message, hand it to a Handler, acknowledge it on success, and
// redeliver it with backoff on failure. Messages are handled strictly one at
// a time in delivery order.
package bus

import "context"

// Header names set by transitdata producers.
const (
	HeaderSchema        = "protobuf-schema"
	HeaderSchemaVersion = "schema-version"
)

// Message is one bus message, detached from the broker's own type.
type Message struct {
	// ID identifies the message for logs and acknowledgement.
	ID            string
	Schema        string
	SchemaVersion string
	Payload       []byte

	// ack is whatever the Consumer needs to acknowledge this message.
	ack any
}

// NewMessage builds a Message. ack is opaque to everything but the Consumer
// that produced it; test doubles may pass nil.
func NewMessage(id, schema string, payload []byte, ack any) Message {
	return Message{ID: id, Schema: schema, Payload: payload, ack: ack}
}

// Consumer is a single subscription.
type Consumer interface {
	// Receive blocks until the next message is available or ctx is done.
	Receive(ctx context.Context) (Message, error)
	// Ack acknowledges msg. It may return before the broker confirms;
	// a later failure is reported by the broker client, not here.
	Ack(ctx context.Context, msg Message) error
	Close() error
}

// Handler processes one message. A nil error means the message may be
// acknowledged.
type Handler interface {
	Handle(ctx context.Context, msg Message) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, msg Message) error

func (f HandlerFunc) Handle(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}
