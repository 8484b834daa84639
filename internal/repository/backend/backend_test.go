package backend

import (
	"context"
	"path/filepath"
	"testing"

	"todos/internal/config"
	"todos/internal/domain"
	"todos/internal/repository/memory"
	"todos/internal/repository/relational"
)

func TestOpenMemory(t *testing.T) {
	repo, err := Open(context.Background(), config.StorageConfig{Backend: config.BackendMemory})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer repo.Close()

	if _, ok := repo.(*memory.Repository); !ok {
		t.Errorf("expected *memory.Repository, got %T", repo)
	}
}

func TestOpenSQLiteIsDurable(t *testing.T) {
	ctx := context.Background()
	cfg := config.StorageConfig{
		Backend: config.BackendSQLite,
		Path:    filepath.Join(t.TempDir(), "todos.db"),
	}

	repo, err := Open(ctx, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := repo.(*relational.Repository); !ok {
		t.Fatalf("expected *relational.Repository, got %T", repo)
	}

	created, err := repo.Create(ctx, domain.CreateTask{Text: "persisted"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(ctx, cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	found, err := reopened.Find(ctx, created.ID)
	if err != nil {
		t.Fatalf("find after reopen: %v", err)
	}
	if found != created {
		t.Errorf("expected %+v, got %+v", created, found)
	}
}

func TestOpenErrors(t *testing.T) {
	ctx := context.Background()

	if _, err := Open(ctx, config.StorageConfig{Backend: config.BackendPostgres}); err == nil {
		t.Error("expected error for postgres without URL")
	}
	if _, err := Open(ctx, config.StorageConfig{Backend: "mysql"}); err == nil {
		t.Error("expected error for unknown backend")
	}
}
