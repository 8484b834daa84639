package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"todos/internal/config"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestConfigReloader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.yaml")

	t.Run("applies valid config", func(t *testing.T) {
		writeFile(t, path, "cors:\n  allowed_origins: [\"http://localhost:8080\"]\n")

		var got *config.Config
		ConfigReloader(path, func(c *config.Config) { got = c })()

		if got == nil {
			t.Fatal("apply was not called")
		}
		if len(got.CORS.AllowedOrigins) != 1 || got.CORS.AllowedOrigins[0] != "http://localhost:8080" {
			t.Errorf("AllowedOrigins = %v", got.CORS.AllowedOrigins)
		}
	})

	t.Run("keeps previous settings on parse error", func(t *testing.T) {
		writeFile(t, path, "cors: [unclosed\n")

		called := false
		ConfigReloader(path, func(*config.Config) { called = true })()
		if called {
			t.Error("apply called for unparsable config")
		}
	})

	t.Run("keeps previous settings on invalid config", func(t *testing.T) {
		t.Setenv(config.EnvBackend, "")
		writeFile(t, path, "storage:\n  backend: cassandra\n")

		called := false
		ConfigReloader(path, func(*config.Config) { called = true })()
		if called {
			t.Error("apply called for invalid config")
		}
	})
}

func TestWatchConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.yaml")
	writeFile(t, path, "log:\n  requests: true\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	applied := make(chan *config.Config, 4)
	w := New(path, ConfigReloader(path, func(c *config.Config) { applied <- c })).
		WithDebounce(20 * time.Millisecond)

	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx) }()

	// Give the watcher time to register the directory
	time.Sleep(100 * time.Millisecond)
	writeFile(t, path, "log:\n  requests: false\n")

	select {
	case cfg := <-applied:
		if cfg.Log.LogRequests() {
			t.Error("LogRequests() = true after reload, want false")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("config change was not applied")
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Watch returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "nope", "todos.yaml"), func() {})
	if err := w.Watch(context.Background()); err == nil {
		t.Error("expected error watching a missing directory")
	}
}
