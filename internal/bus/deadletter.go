package bus

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// Headers added to a dead-lettered message next to the original ones.
const (
	HeaderDeadLetterError  = "dead-letter-error"
	HeaderDeadLetterSource = "dead-letter-source"
)

// KafkaDeadLetter publishes unprocessable messages to a Kafka topic.
// Writes are synchronous: the original message is acknowledged only after
// the dead-letter copy is stored.
type KafkaDeadLetter struct {
	writer *kafka.Writer
	log    *slog.Logger
}

var _ DeadLetter = (*KafkaDeadLetter)(nil)

// NewKafkaDeadLetter creates a writer for topic on brokers.
func NewKafkaDeadLetter(brokers []string, topic string, log *slog.Logger) *KafkaDeadLetter {
	return &KafkaDeadLetter{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireAll,
			WriteTimeout: 10 * time.Second,
		},
		log: log.With("component", "kafka_dead_letter", "topic", topic),
	}
}

// Publish writes msg unchanged, keyed by its source ID, with the schema
// headers and the failure reason attached.
func (d *KafkaDeadLetter) Publish(ctx context.Context, msg Message, cause error) error {
	if err := d.writer.WriteMessages(ctx, deadLetterMessage(msg, cause)); err != nil {
		return fmt.Errorf("bus.KafkaDeadLetter.Publish: %w", err)
	}
	d.log.Info("message published to dead letter", "message_id", msg.ID)
	return nil
}

// Close flushes and closes the writer.
func (d *KafkaDeadLetter) Close() error {
	if err := d.writer.Close(); err != nil {
		return fmt.Errorf("bus.KafkaDeadLetter.Close: %w", err)
	}
	return nil
}

func deadLetterMessage(msg Message, cause error) kafka.Message {
	headers := []kafka.Header{
		{Key: HeaderSchema, Value: []byte(msg.Schema)},
		{Key: HeaderDeadLetterSource, Value: []byte(msg.ID)},
		{Key: HeaderDeadLetterError, Value: []byte(cause.Error())},
	}
	if msg.SchemaVersion != "" {
		headers = append(headers, kafka.Header{Key: HeaderSchemaVersion, Value: []byte(msg.SchemaVersion)})
	}
	return kafka.Message{
		Key:     []byte(msg.ID),
		Value:   msg.Payload,
		Headers: headers,
		Time:    time.Now(),
	}
}
