package repository

import (
	"context"

	"todos/internal/domain"
)

// TaskRepository defines the interface for task persistence.
// Implementations must be safe for concurrent use and return tasks by value.
type TaskRepository interface {
	// Create stores a new task and returns it with its assigned ID
	Create(ctx context.Context, input domain.CreateTask) (domain.Task, error)

	// Find returns the task with the given ID.
	// Returns a NotFoundError if the task doesn't exist.
	Find(ctx context.Context, id int64) (domain.Task, error)

	// List returns all tasks. Order is backend-defined.
	List(ctx context.Context) ([]domain.Task, error)

	// Update applies the fields present in input and returns the merged task.
	// Returns a NotFoundError if the task doesn't exist; never creates one.
	Update(ctx context.Context, id int64, input domain.UpdateTask) (domain.Task, error)

	// Delete removes the task.
	// Returns a NotFoundError if the task doesn't exist.
	Delete(ctx context.Context, id int64) error

	// Ping checks that the backing store is reachable
	Ping(ctx context.Context) error

	// Close releases resources
	Close() error
}
