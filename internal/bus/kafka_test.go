package bus

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"

	"github.com/pkordes/transitlog-sink/internal/domain"
)

func TestHeader(t *testing.T) {
	m := kafka.Message{Headers: []kafka.Header{
		{Key: HeaderSchemaVersion, Value: []byte("1")},
		{Key: HeaderSchema, Value: []byte("TransitdataServiceAlert")},
	}}

	assert.Equal(t, "TransitdataServiceAlert", header(m, HeaderSchema))
	assert.Equal(t, "1", header(m, HeaderSchemaVersion))
	assert.Equal(t, "", header(m, "missing"))
}

func TestKafkaConsumer_AckRejectsForeignMessage(t *testing.T) {
	c := &KafkaConsumer{log: slog.New(slog.NewTextHandler(io.Discard, nil))}

	err := c.Ack(context.Background(), NewMessage("x", "s", nil, nil))

	assert.ErrorIs(t, err, domain.ErrAckFailed)
}

func TestDeadLetterMessage(t *testing.T) {
	msg := NewMessage("transitdata.trip-cancellations/2/41", "InternalMessagesTripCancellation", []byte{0xff}, nil)
	msg.SchemaVersion = "1"

	got := deadLetterMessage(msg, errors.New("decode failed: truncated"))

	assert.Equal(t, []byte{0xff}, got.Value, "payload is parked unchanged")
	assert.Equal(t, "transitdata.trip-cancellations/2/41", string(got.Key))
	assert.Equal(t, "InternalMessagesTripCancellation", header(got, HeaderSchema))
	assert.Equal(t, "1", header(got, HeaderSchemaVersion))
	assert.Equal(t, "transitdata.trip-cancellations/2/41", header(got, HeaderDeadLetterSource))
	assert.Equal(t, "decode failed: truncated", header(got, HeaderDeadLetterError))
}
