package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestContextFieldsArePropagated(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logg := New(Options{ServiceName: "test", Level: zerolog.InfoLevel, Output: &buf})

	ctx := logg.WithRequestID(context.Background(), "req-123")
	ctx = logg.WithCycleID(ctx, "cycle-9")
	logg.Info(ctx, "hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if entry["request_id"] != "req-123" {
		t.Fatalf("expected request_id, got %v", entry["request_id"])
	}
	if entry["cycle_id"] != "cycle-9" {
		t.Fatalf("expected cycle_id, got %v", entry["cycle_id"])
	}
	if entry["service"] != "test" {
		t.Fatalf("expected service name, got %v", entry["service"])
	}
}

func TestParseLevelFallsBackToInfo(t *testing.T) {
	t.Parallel()

	if lvl := ParseLevel("bogus"); lvl != zerolog.InfoLevel {
		t.Fatalf("expected info fallback, got %v", lvl)
	}
	if lvl := ParseLevel("debug"); lvl != zerolog.DebugLevel {
		t.Fatalf("expected debug, got %v", lvl)
	}
}
