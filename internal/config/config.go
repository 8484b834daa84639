// Package config provides configuration management for the todos service.
//
// Config file locations (priority order):
//  1. $TODOS_CONFIG
//  2. ./todos.yaml
//  3. ~/.config/todos/config.yaml
//  4. /etc/todos/config.yaml
//
// Environment variables TODOS_BACKEND and DB_URL override the file;
// command-line flags override both (applied in cmd/server).
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// EnvBackend overrides storage.backend
	EnvBackend = "TODOS_BACKEND"
	// EnvDatabaseURL overrides storage.url
	EnvDatabaseURL = "DB_URL"
)

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		cfg := DefaultConfig()
		cfg.ApplyEnv()
		return cfg, "", nil
	}

	cfg, path, err := LoadFromPath(path)
	if err != nil {
		return nil, path, err
	}
	cfg.ApplyEnv()
	return cfg, path, nil
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":3000"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = Duration(10 * time.Second)
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = Duration(30 * time.Second)
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = Duration(60 * time.Second)
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = Duration(10 * time.Second)
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = BackendMemory
	}
	if c.Storage.Path == "" {
		c.Storage.Path = "./todos.db"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// ApplyEnv overrides storage settings from the environment
func (c *Config) ApplyEnv() {
	if b := os.Getenv(EnvBackend); b != "" {
		c.Storage.Backend = Backend(b)
	}
	if url := os.Getenv(EnvDatabaseURL); url != "" {
		c.Storage.URL = url
	}
}

// Validate checks for settings that cannot work
func (c *Config) Validate() error {
	if _, ok := ParseBackend(string(c.Storage.Backend)); !ok {
		return fmt.Errorf("unknown storage backend %q (want memory, sqlite or postgres)", c.Storage.Backend)
	}
	if c.Storage.Backend == BackendPostgres && c.Storage.URL == "" {
		return errors.New("storage.url (or DB_URL) is required for the postgres backend")
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("unknown log format %q (want text or json)", c.Log.Format)
	}
	return nil
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	summary := fmt.Sprintf("Addr: %s, Backend: %s", c.Server.Addr, c.Storage.Backend)
	switch c.Storage.Backend {
	case BackendSQLite:
		summary += fmt.Sprintf(" (%s)", c.Storage.Path)
	case BackendPostgres:
		summary += fmt.Sprintf(" (migrate: %t)", c.Storage.ShouldMigrate())
	}
	summary += fmt.Sprintf("\nCORS origins: %d, Log: %s", len(c.CORS.AllowedOrigins), c.Log.Format)
	return summary
}
