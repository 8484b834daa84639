package memory

import (
	"context"
	"sync"

	"todos/internal/domain"
	"todos/internal/repository"
)

// Repository implements repository.TaskRepository with an in-process map.
// A *Repository may be shared freely; every holder sees the same store.
type Repository struct {
	mu     sync.RWMutex
	tasks  map[int64]domain.Task
	order  []int64 // insertion order of live ids
	lastID int64
}

var _ repository.TaskRepository = (*Repository)(nil)

// New creates an empty in-memory repository
func New() *Repository {
	return &Repository{
		tasks: make(map[int64]domain.Task),
	}
}

// Create stores a new task. IDs start at 1 and are never reused.
func (r *Repository) Create(ctx context.Context, input domain.CreateTask) (domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastID++
	task := domain.NewTask(r.lastID, input.Text)
	r.tasks[task.ID] = task
	r.order = append(r.order, task.ID)

	return task, nil
}

// Find returns the task with the given ID
func (r *Repository) Find(ctx context.Context, id int64) (domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[id]
	if !ok {
		return domain.Task{}, repository.NotFound(id)
	}
	return task, nil
}

// List returns all tasks in insertion order
func (r *Repository) List(ctx context.Context) ([]domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := make([]domain.Task, 0, len(r.order))
	for _, id := range r.order {
		tasks = append(tasks, r.tasks[id])
	}
	return tasks, nil
}

// Update merges input into the stored task while holding the write lock
func (r *Repository) Update(ctx context.Context, id int64, input domain.UpdateTask) (domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok {
		return domain.Task{}, repository.NotFound(id)
	}

	task = input.Apply(task)
	r.tasks[id] = task
	return task, nil
}

// Delete removes the task with the given ID
func (r *Repository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return repository.NotFound(id)
	}
	delete(r.tasks, id)

	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Len returns the number of stored tasks
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tasks)
}

// Ping always succeeds
func (r *Repository) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op; the data is discarded with the process
func (r *Repository) Close() error {
	return nil
}
