package producer

import (
	"context"

	"github.com/segmentio/kafka-go"
)

type kafkaWriter struct {
	writer *kafka.Writer
}

// NewKafkaWriter builds a MessageWriter backed by a kafka-go writer.
// Writes are batched with a small linger so bursts of HTTP traffic do
// not produce one round trip per event.
func NewKafkaWriter(brokers []string, topic string) MessageWriter {
	return &kafkaWriter{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			Async:        false,
		},
	}
}

func (w *kafkaWriter) WriteMessages(ctx context.Context, key, value []byte) error {
	return w.writer.WriteMessages(ctx, kafka.Message{
		Key:   key,
		Value: value,
	})
}

func (w *kafkaWriter) Close() error {
	return w.writer.Close()
}
