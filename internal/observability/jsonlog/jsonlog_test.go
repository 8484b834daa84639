package jsonlog

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"
)

func TestInfo(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)
	l.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	l.Info("http_request", map[string]any{"status": 201, "level": "spoofed"})

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if got["msg"] != "http_request" {
		t.Errorf("msg = %v", got["msg"])
	}
	if got["level"] != "INFO" {
		t.Errorf("level = %v, want INFO", got["level"])
	}
	if got["ts"] != "2024-01-02T03:04:05Z" {
		t.Errorf("ts = %v", got["ts"])
	}
	if got["status"] != float64(201) {
		t.Errorf("status = %v", got["status"])
	}
}

func TestErrorUnencodableField(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)

	l.Error("boom", map[string]any{"ch": make(chan int)})

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if got["level"] != "ERROR" || got["error"] == nil {
		t.Errorf("unexpected fallback line %v", got)
	}
}
