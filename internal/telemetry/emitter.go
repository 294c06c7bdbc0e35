// Package telemetry defines the event emitter used by the HTTP server and the
// async fire-and-forget dispatch around it.
package telemetry

import (
	"context"

	"blog-backend/internal/telemetry/domain"
)

// EventEmitter emits telemetry events (e.g. to Kafka or OTel logs).
// Best-effort; callers log and ignore errors.
type EventEmitter interface {
	Emit(ctx context.Context, event *domain.Event) error
}
