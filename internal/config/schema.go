package config

import (
	"time"
)

// Backend names a storage backend
type Backend string

const (
	BackendMemory   Backend = "memory"
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
)

// ParseBackend returns the backend for s, or false if unknown
func ParseBackend(s string) (Backend, bool) {
	switch b := Backend(s); b {
	case BackendMemory, BackendSQLite, BackendPostgres:
		return b, true
	default:
		return "", false
	}
}

// Config is the root configuration structure
type Config struct {
	Version int           `yaml:"version"`
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	CORS    CORSConfig    `yaml:"cors"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Addr            string   `yaml:"addr"`
	ReadTimeout     Duration `yaml:"read_timeout"`
	WriteTimeout    Duration `yaml:"write_timeout"`
	IdleTimeout     Duration `yaml:"idle_timeout"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
}

// StorageConfig selects and configures the task repository
type StorageConfig struct {
	Backend Backend `yaml:"backend"`
	Path    string  `yaml:"path,omitempty"` // sqlite file
	URL     string  `yaml:"url,omitempty"`  // postgres connection string
	Migrate *bool   `yaml:"migrate,omitempty"`
}

// ShouldMigrate reports whether the schema should be created on startup
func (s StorageConfig) ShouldMigrate() bool {
	return s.Migrate == nil || *s.Migrate
}

// CORSConfig lists the browser origins allowed to call the API
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// LogConfig configures request logging
type LogConfig struct {
	Format   string `yaml:"format"` // text or json
	Requests *bool  `yaml:"requests,omitempty"`
}

// LogRequests reports whether the access log is enabled
func (l LogConfig) LogRequests() bool {
	return l.Requests == nil || *l.Requests
}

// Duration wraps time.Duration for YAML marshaling as a string
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
