package bus

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/pkordes/transitlog-sink/internal/domain"
)

// KafkaConfig configures one Kafka subscription.
type KafkaConfig struct {
	Brokers []string
	Topic   string
	GroupID string
	// CommitInterval must be positive: it makes offset commits asynchronous,
	// so Ack only queues the offset and never waits on the broker.
	CommitInterval time.Duration
}

// KafkaConsumer is a Consumer backed by a kafka-go consumer-group reader.
// Acknowledging a message commits its offset.
type KafkaConsumer struct {
	reader *kafka.Reader
	log    *slog.Logger
}

// NewKafkaConsumer creates the reader. No connection is made until the first
// Receive.
func NewKafkaConsumer(cfg KafkaConfig, log *slog.Logger) *KafkaConsumer {
	log = log.With("component", "kafka_consumer", "topic", cfg.Topic)
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.Topic,
		GroupID:        cfg.GroupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: cfg.CommitInterval,
		Dialer: &kafka.Dialer{
			ClientID:  "transitlog-sink-" + uuid.NewString(),
			Timeout:   10 * time.Second,
			DualStack: true,
		},
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			log.Error(fmt.Sprintf(msg, args...))
		}),
	})
	return &KafkaConsumer{reader: reader, log: log}
}

// Receive fetches the next message without committing it.
func (c *KafkaConsumer) Receive(ctx context.Context) (Message, error) {
	m, err := c.reader.FetchMessage(ctx)
	if err != nil {
		return Message{}, fmt.Errorf("bus.KafkaConsumer.Receive: %w", err)
	}

	msg := NewMessage(
		fmt.Sprintf("%s/%d/%d", m.Topic, m.Partition, m.Offset),
		header(m, HeaderSchema),
		m.Value,
		m,
	)
	msg.SchemaVersion = header(m, HeaderSchemaVersion)
	return msg, nil
}

// Ack queues the message offset for the next periodic commit.
func (c *KafkaConsumer) Ack(ctx context.Context, msg Message) error {
	m, ok := msg.ack.(kafka.Message)
	if !ok {
		return fmt.Errorf("bus.KafkaConsumer.Ack: %w: message %s was not received from kafka", domain.ErrAckFailed, msg.ID)
	}
	if err := c.reader.CommitMessages(ctx, m); err != nil {
		return fmt.Errorf("bus.KafkaConsumer.Ack: %w: %w", domain.ErrAckFailed, err)
	}
	return nil
}

// Close flushes pending commits and leaves the consumer group.
func (c *KafkaConsumer) Close() error {
	if err := c.reader.Close(); err != nil {
		return fmt.Errorf("bus.KafkaConsumer.Close: %w", err)
	}
	return nil
}

func header(m kafka.Message, key string) string {
	for _, h := range m.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
