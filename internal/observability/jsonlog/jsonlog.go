// Package jsonlog writes one JSON object per log line.
package jsonlog

import (
	"encoding/json"
	"io"
	"log"
	"time"
)

// Logger emits JSON lines through a standard library logger
type Logger struct {
	base *log.Logger
	now  func() time.Time
}

// New creates a logger writing to w
func New(w io.Writer) *Logger {
	return &Logger{
		base: log.New(w, "", 0), // no prefix; we emit JSON ourselves
		now:  time.Now,
	}
}

// Info logs at INFO level
func (l *Logger) Info(msg string, fields map[string]any) {
	l.emit("INFO", msg, fields)
}

// Error logs at ERROR level
func (l *Logger) Error(msg string, fields map[string]any) {
	l.emit("ERROR", msg, fields)
}

func (l *Logger) emit(level, msg string, fields map[string]any) {
	m := make(map[string]any, 3+len(fields))
	for k, v := range fields {
		m[k] = v
	}
	// reserved keys win over fields
	m["ts"] = l.now().UTC().Format(time.RFC3339Nano)
	m["level"] = level
	m["msg"] = msg

	b, err := json.Marshal(m)
	if err != nil {
		b, _ = json.Marshal(map[string]any{
			"ts":    m["ts"],
			"level": "ERROR",
			"msg":   "jsonlog: unencodable fields",
			"error": err.Error(),
		})
	}
	l.base.Print(string(b))
}
