package producer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"blog-backend/internal/telemetry/domain"
)

type mockWriter struct {
	keys     [][]byte
	values   [][]byte
	writeErr error
	closed   bool
}

func (m *mockWriter) WriteMessages(ctx context.Context, key, value []byte) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.keys = append(m.keys, key)
	m.values = append(m.values, value)
	return nil
}

func (m *mockWriter) Close() error {
	m.closed = true
	return nil
}

func TestProducer_Emit(t *testing.T) {
	writer := &mockWriter{}
	p := New(writer)

	event := &domain.Event{
		UserID:    "user-1",
		EventType: "http_request",
		Source:    "server",
	}
	if err := p.Emit(context.Background(), event); err != nil {
		t.Fatalf("Emit: %v", err)
	}

	if len(writer.values) != 1 {
		t.Fatalf("expected 1 message, got %d", len(writer.values))
	}
	if string(writer.keys[0]) != "user-1" {
		t.Errorf("key = %q, want %q", writer.keys[0], "user-1")
	}

	var decoded domain.Event
	if err := json.Unmarshal(writer.values[0], &decoded); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if decoded.EventType != "http_request" {
		t.Errorf("eventType = %q, want %q", decoded.EventType, "http_request")
	}
	if decoded.Source != "server" {
		t.Errorf("source = %q, want %q", decoded.Source, "server")
	}
}

func TestProducer_EmitNilEvent(t *testing.T) {
	writer := &mockWriter{}
	p := New(writer)

	if err := p.Emit(context.Background(), nil); err != nil {
		t.Fatalf("Emit(nil): %v", err)
	}
	if len(writer.values) != 0 {
		t.Errorf("expected no messages, got %d", len(writer.values))
	}
}

func TestProducer_EmitWriteError(t *testing.T) {
	writer := &mockWriter{writeErr: errors.New("broker unavailable")}
	p := New(writer)

	err := p.Emit(context.Background(), &domain.Event{EventType: "test"})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestProducer_Close(t *testing.T) {
	writer := &mockWriter{}
	p := New(writer)

	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !writer.closed {
		t.Error("expected underlying writer to be closed")
	}
}
