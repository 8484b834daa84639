package handler

import (
	"context"
	"log"
	"net/http"
	"time"
)

// Pinger is satisfied by the todo service and repositories
type Pinger interface {
	Ping(ctx context.Context) error
}

// Healthz always answers ok while the process is up
func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Readyz reports whether the storage backend is reachable
func Readyz(p Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		defer cancel()

		if err := p.Ping(ctx); err != nil {
			log.Printf("Readiness check failed: %v", err)
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	}
}
