// Package backend selects a TaskRepository implementation from configuration.
package backend

import (
	"context"
	"fmt"

	"todos/internal/config"
	"todos/internal/repository"
	"todos/internal/repository/memory"
	"todos/internal/repository/relational"
)

// Open builds the repository named by cfg.Backend
func Open(ctx context.Context, cfg config.StorageConfig) (repository.TaskRepository, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return memory.New(), nil
	case config.BackendSQLite:
		return relational.OpenSQLite(ctx, cfg.Path)
	case config.BackendPostgres:
		if cfg.URL == "" {
			return nil, fmt.Errorf("postgres backend requires a database URL")
		}
		return relational.OpenPostgres(ctx, cfg.URL, cfg.ShouldMigrate())
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
