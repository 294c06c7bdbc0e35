package producer

import (
	"context"
	"encoding/json"
	"fmt"

	"blog-backend/internal/telemetry/domain"
)

// MessageWriter abstracts the Kafka writer so producers can be tested
// without a broker.
type MessageWriter interface {
	WriteMessages(ctx context.Context, key, value []byte) error
	Close() error
}

// Producer publishes telemetry events to a Kafka topic. Events are
// keyed by user ID so per-user ordering is preserved across partitions.
type Producer struct {
	writer MessageWriter
}

func New(writer MessageWriter) *Producer {
	return &Producer{writer: writer}
}

// Emit marshals the event as JSON and publishes it.
func (p *Producer) Emit(ctx context.Context, event *domain.Event) error {
	if event == nil {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal telemetry event: %w", err)
	}

	if err := p.writer.WriteMessages(ctx, []byte(event.UserID), payload); err != nil {
		return fmt.Errorf("write telemetry event: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
