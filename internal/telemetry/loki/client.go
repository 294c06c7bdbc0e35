package loki

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"blog-backend/internal/telemetry/domain"
)

// Client ships telemetry events to a Loki push endpoint. It is used by
// the worker to turn the Kafka event stream into queryable log lines.
type Client struct {
	pushURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		pushURL: baseURL + "/loki/api/v1/push",
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type pushRequest struct {
	Streams []stream `json:"streams"`
}

type stream struct {
	Stream map[string]string `json:"stream"`
	Values [][2]string       `json:"values"`
}

// Push sends a single event as one log line, labeled by event type so
// Loki queries can filter without parsing the line.
func (c *Client) Push(ctx context.Context, event *domain.Event) error {
	if event == nil {
		return nil
	}

	line, err := json.Marshal(eventFields(event))
	if err != nil {
		return fmt.Errorf("marshal loki line: %w", err)
	}

	ts := event.CreatedAt
	if ts.IsZero() {
		ts = time.Now()
	}

	body, err := json.Marshal(pushRequest{
		Streams: []stream{{
			Stream: map[string]string{
				"job":        "blog",
				"event_type": event.EventType,
			},
			Values: [][2]string{{strconv.FormatInt(ts.UnixNano(), 10), string(line)}},
		}},
	})
	if err != nil {
		return fmt.Errorf("marshal loki push: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.pushURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build loki request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("push to loki: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("loki push returned status %d", resp.StatusCode)
	}
	return nil
}

// PushJSON decodes a JSON-encoded event (as produced to Kafka) and
// pushes it. Convenience for the worker, which handles raw message
// bytes.
func (c *Client) PushJSON(ctx context.Context, data []byte) error {
	var event domain.Event
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("decode event: %w", err)
	}
	return c.Push(ctx, &event)
}

func eventFields(event *domain.Event) map[string]any {
	fields := map[string]any{
		"userId":    event.UserID,
		"eventType": event.EventType,
		"source":    event.Source,
	}
	if len(event.Metadata) > 0 {
		fields["metadata"] = json.RawMessage(event.Metadata)
	}
	return fields
}
