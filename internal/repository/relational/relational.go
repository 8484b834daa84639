package relational

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"todos/internal/domain"
	"todos/internal/repository"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Repository implements repository.TaskRepository on top of database/sql.
// Concurrency is left to the database; no in-process lock is held across I/O.
type Repository struct {
	db      *sql.DB
	dialect Dialect
	owned   bool

	createQuery string
	findQuery   string
	listQuery   string
	updateQuery string
	deleteQuery string
}

var _ repository.TaskRepository = (*Repository)(nil)

// New creates a repository over an existing connection pool.
// The caller keeps ownership of db; Close will not close it.
func New(db *sql.DB, dialect Dialect) *Repository {
	return &Repository{
		db:      db,
		dialect: dialect,

		createQuery: dialect.Rebind(`
			INSERT INTO todos (text, completed)
			VALUES (?, FALSE)
			RETURNING ` + taskColumns),
		findQuery: dialect.Rebind(`
			SELECT ` + taskColumns + `
			FROM todos
			WHERE id = ?`),
		listQuery: `
			SELECT ` + taskColumns + `
			FROM todos
			ORDER BY id DESC`,
		updateQuery: dialect.Rebind(`
			UPDATE todos
			SET text = COALESCE(CAST(? AS TEXT), text),
				completed = COALESCE(CAST(? AS BOOLEAN), completed)
			WHERE id = ?
			RETURNING ` + taskColumns),
		deleteQuery: dialect.Rebind(`
			DELETE FROM todos WHERE id = ?`),
	}
}

// OpenSQLite opens (or creates) a SQLite database at path and migrates it.
// Use ":memory:" for a throwaway database.
func OpenSQLite(ctx context.Context, path string) (*Repository, error) {
	dsn := path
	if path != ":memory:" {
		dsn = "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open(SQLite.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite serializes writers; a single connection also keeps ":memory:"
	// pointing at one database.
	db.SetMaxOpenConns(1)

	repo := New(db, SQLite)
	repo.owned = true

	if err := repo.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return repo, nil
}

// OpenPostgres connects to PostgreSQL through the pgx stdlib driver.
// The schema is only created when migrate is true.
func OpenPostgres(ctx context.Context, url string, migrate bool) (*Repository, error) {
	db, err := sql.Open(Postgres.Driver, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	repo := New(db, Postgres)
	repo.owned = true

	if migrate {
		if err := repo.Migrate(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}
	return repo, nil
}

// Migrate creates the todos table if it doesn't exist
func (r *Repository) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, r.dialect.schema)
	return err
}

// Dialect returns the SQL dialect in use
func (r *Repository) Dialect() Dialect {
	return r.dialect
}

// Create inserts a new task; the database assigns the ID
func (r *Repository) Create(ctx context.Context, input domain.CreateTask) (domain.Task, error) {
	task, err := scanTask(r.db.QueryRowContext(ctx, r.createQuery, input.Text))
	if err != nil {
		return domain.Task{}, repository.Unexpected("create", err)
	}
	return task, nil
}

// Find retrieves a single task by ID
func (r *Repository) Find(ctx context.Context, id int64) (domain.Task, error) {
	task, err := scanTask(r.db.QueryRowContext(ctx, r.findQuery, id))
	if err != nil {
		return domain.Task{}, mapError("find", id, err)
	}
	return task, nil
}

// List returns all tasks, newest first
func (r *Repository) List(ctx context.Context) ([]domain.Task, error) {
	rows, err := r.db.QueryContext(ctx, r.listQuery)
	if err != nil {
		return nil, repository.Unexpected("list", err)
	}
	defer rows.Close()

	tasks := make([]domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, repository.Unexpected("list", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, repository.Unexpected("list", err)
	}

	return tasks, nil
}

// Update applies the present fields in one statement. Omitted fields fall
// back to the stored values through COALESCE, so there is no window between
// reading the old row and writing the new one.
func (r *Repository) Update(ctx context.Context, id int64, input domain.UpdateTask) (domain.Task, error) {
	task, err := scanTask(r.db.QueryRowContext(ctx, r.updateQuery,
		stringPtrToNull(input.Text),
		boolPtrToNull(input.Completed),
		id,
	))
	if err != nil {
		return domain.Task{}, mapError("update", id, err)
	}
	return task, nil
}

// Delete removes a task. Drivers report success for a DELETE that matches
// nothing, so the affected row count decides NotFound.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.deleteQuery, id)
	if err != nil {
		return mapError("delete", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return repository.Unexpected("delete", err)
	}
	if n == 0 {
		return repository.NotFound(id)
	}
	return nil
}

// Ping checks database connectivity
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close closes the pool if this repository opened it
func (r *Repository) Close() error {
	if !r.owned {
		return nil
	}
	return r.db.Close()
}
