package main

import (
	"os"
	"path/filepath"
	"testing"

	"todos/internal/config"
)

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name              string
		addr, backend, db string
		wantAddr          string
		wantBackend       config.Backend
		wantPath, wantURL string
	}{
		{"no flags", "", "", "", ":3000", config.BackendMemory, "./todos.db", ""},
		{"sqlite path", ":8080", "sqlite", "/tmp/t.db", ":8080", config.BackendSQLite, "/tmp/t.db", ""},
		{"postgres url", "", "postgres", "postgres://u@h/db", ":3000", config.BackendPostgres, "./todos.db", "postgres://u@h/db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			applyFlags(cfg, tt.addr, tt.backend, tt.db)

			if cfg.Server.Addr != tt.wantAddr {
				t.Errorf("Addr = %q, want %q", cfg.Server.Addr, tt.wantAddr)
			}
			if cfg.Storage.Backend != tt.wantBackend {
				t.Errorf("Backend = %q, want %q", cfg.Storage.Backend, tt.wantBackend)
			}
			if cfg.Storage.Path != tt.wantPath {
				t.Errorf("Path = %q, want %q", cfg.Storage.Path, tt.wantPath)
			}
			if cfg.Storage.URL != tt.wantURL {
				t.Errorf("URL = %q, want %q", cfg.Storage.URL, tt.wantURL)
			}
		})
	}
}

func TestLoadConfigExplicitPath(t *testing.T) {
	t.Setenv(config.EnvBackend, "")
	t.Setenv(config.EnvDatabaseURL, "postgres://env@h/db")

	path := filepath.Join(t.TempDir(), "todos.yaml")
	if err := os.WriteFile(path, []byte("server:\n  addr: \":9000\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, loaded, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if loaded != path {
		t.Errorf("loaded from %q", loaded)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
	if cfg.Storage.URL != "postgres://env@h/db" {
		t.Errorf("URL = %q, env override not applied", cfg.Storage.URL)
	}

	if _, _, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
