package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
)

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithOutput("info", "json", &buf)

	l.Info("avatar stored", "user_id", 7)
	l.Debug("should be filtered")
	_ = l.Sync()

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	if len(lines) != 1 {
		t.Fatalf("Expected 1 log line, got %d: %s", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal(lines[0], &entry); err != nil {
		t.Fatalf("Expected JSON line, got %v", err)
	}
	if entry["message"] != "avatar stored" {
		t.Errorf("Expected message 'avatar stored', got %v", entry["message"])
	}
	if entry["user_id"] != float64(7) {
		t.Errorf("Expected user_id 7, got %v", entry["user_id"])
	}
}

func TestFromContextFallback(t *testing.T) {
	fallback := Nop()
	if got := FromContext(context.Background(), fallback); got != fallback {
		t.Errorf("Expected fallback logger")
	}

	scoped := Nop().With("request_id", "abc")
	ctx := WithContext(context.Background(), scoped)
	if got := FromContext(ctx, fallback); got != scoped {
		t.Errorf("Expected scoped logger from context")
	}
}

func TestNamedKeepsFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithOutput("info", "json", &buf).With("request_id", "abc").Named("avatars")

	l.Info("fetched")
	_ = l.Sync()

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("Expected JSON line, got %v", err)
	}
	if entry["request_id"] != "abc" {
		t.Errorf("Expected request_id abc, got %v", entry["request_id"])
	}
	if entry["logger"] != "avatars" {
		t.Errorf("Expected logger avatars, got %v", entry["logger"])
	}
}
