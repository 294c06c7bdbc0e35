package domain

import (
	"encoding/json"
	"time"
)

// Event is a telemetry event emitted by the server (HTTP requests, auth
// outcomes). Serialized as JSON onto the Kafka topic and consumed by the
// worker.
type Event struct {
	UserID    string          `json:"userId,omitempty"`
	EventType string          `json:"eventType"`
	Source    string          `json:"source"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}
