package handler

import (
	"context"
	"log"
	"net/http"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"todos/internal/observability/jsonlog"

	"github.com/google/uuid"
)

// Middleware wraps an http.Handler
type Middleware func(http.Handler) http.Handler

// Chain applies middleware so that the first one listed runs first
func Chain(h http.Handler, middleware ...Middleware) http.Handler {
	for i := len(middleware) - 1; i >= 0; i-- {
		h = middleware[i](h)
	}
	return h
}

type ctxKey string

const (
	requestIDKey ctxKey = "request_id"
	// RequestIDHeader carries the request id in both directions
	RequestIDHeader = "X-Request-Id"
)

// RequestIDFromContext returns request id if present
func RequestIDFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(requestIDKey).(string); ok {
		return s
	}
	return ""
}

// RequestID propagates X-Request-Id or assigns a new one
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get(RequestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}

		ctx := context.WithValue(r.Context(), requestIDKey, rid)
		w.Header().Set(RequestIDHeader, rid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Recover turns a handler panic into a 500 response
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.Printf("rid=%s panic serving %s %s: %v\n%s",
					RequestIDFromContext(r.Context()), r.Method, r.URL.Path, rec, debug.Stack())
				writeError(w, "Internal server error", "", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// RequestLogger writes one access log line per request, as text through
// the standard logger or as JSON. It can be switched on and off at runtime.
type RequestLogger struct {
	enabled atomic.Bool
	json    *jsonlog.Logger
	text    *log.Logger
}

// NewRequestLogger creates a text access logger; a non-nil jl switches to JSON
func NewRequestLogger(text *log.Logger, jl *jsonlog.Logger) *RequestLogger {
	if text == nil {
		text = log.Default()
	}
	l := &RequestLogger{json: jl, text: text}
	l.enabled.Store(true)
	return l
}

// SetEnabled toggles access logging
func (l *RequestLogger) SetEnabled(enabled bool) {
	l.enabled.Store(enabled)
}

// Middleware returns the logging middleware
func (l *RequestLogger) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		if !l.enabled.Load() {
			return
		}
		rid := RequestIDFromContext(r.Context())
		dur := time.Since(start)

		if l.json != nil {
			l.json.Info("http_request", map[string]any{
				"rid":    rid,
				"method": r.Method,
				"path":   r.URL.Path,
				"status": sw.status,
				"dur_ms": dur.Milliseconds(),
			})
			return
		}
		l.text.Printf("rid=%s method=%s path=%s status=%d dur=%s", rid, r.Method, r.URL.Path, sw.status, dur)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the underlying writer
func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// Flush keeps SSE streaming working through the wrapper
func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// CORS answers cross-origin requests from an allow-list of origins.
// The list can be replaced while serving.
type CORS struct {
	mu      sync.RWMutex
	origins map[string]struct{}
	any     bool
}

// NewCORS creates a CORS policy; "*" allows every origin
func NewCORS(origins []string) *CORS {
	c := &CORS{}
	c.SetAllowedOrigins(origins)
	return c
}

// SetAllowedOrigins replaces the allow-list
func (c *CORS) SetAllowedOrigins(origins []string) {
	set := make(map[string]struct{}, len(origins))
	anyOrigin := false
	for _, o := range origins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "*" {
			anyOrigin = true
		}
		if o != "" {
			set[o] = struct{}{}
		}
	}

	c.mu.Lock()
	c.origins = set
	c.any = anyOrigin
	c.mu.Unlock()
}

// Allowed reports whether origin may call the API
func (c *CORS) Allowed(origin string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.any {
		return true
	}
	_, ok := c.origins[origin]
	return ok
}

// Middleware returns the CORS middleware
func (c *CORS) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Add("Vary", "Origin")
		allowed := c.Allowed(origin)
		if allowed {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Expose-Headers", RequestIDHeader)
		}

		// Preflight
		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			if allowed {
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+RequestIDHeader)
				w.Header().Set("Access-Control-Max-Age", "600")
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
