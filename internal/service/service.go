package service

import (
	"context"
	"fmt"
	"io"

	"todos/internal/codec"
	"todos/internal/domain"
	"todos/internal/repository"
)

// TodoService validates input and delegates persistence to a repository
type TodoService struct {
	repo     repository.TaskRepository
	eventBus *EventBus
}

// NewTodoService creates a new todo service
func NewTodoService(repo repository.TaskRepository, eventBus *EventBus) *TodoService {
	if eventBus == nil {
		eventBus = NewEventBus()
	}
	return &TodoService{
		repo:     repo,
		eventBus: eventBus,
	}
}

// Create validates input and stores a new task
func (s *TodoService) Create(ctx context.Context, input domain.CreateTask) (domain.Task, error) {
	if err := input.Validate(); err != nil {
		return domain.Task{}, err
	}

	task, err := s.repo.Create(ctx, input)
	if err != nil {
		return domain.Task{}, err
	}

	s.eventBus.Publish(Event{Type: EventTodoCreated, Payload: task})
	return task, nil
}

// Find retrieves a single task by ID
func (s *TodoService) Find(ctx context.Context, id int64) (domain.Task, error) {
	return s.repo.Find(ctx, id)
}

// List returns all tasks in the repository's order
func (s *TodoService) List(ctx context.Context) ([]domain.Task, error) {
	return s.repo.List(ctx)
}

// Update validates the present fields and applies them
func (s *TodoService) Update(ctx context.Context, id int64, input domain.UpdateTask) (domain.Task, error) {
	if err := input.Validate(); err != nil {
		return domain.Task{}, err
	}

	task, err := s.repo.Update(ctx, id, input)
	if err != nil {
		return domain.Task{}, err
	}

	s.eventBus.Publish(Event{Type: EventTodoUpdated, Payload: task})
	return task, nil
}

// Delete removes a task
func (s *TodoService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.eventBus.Publish(Event{
		Type:    EventTodoDeleted,
		Payload: map[string]int64{"id": id},
	})
	return nil
}

// Ping checks the repository
func (s *TodoService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// ImportResult summarizes an import operation
type ImportResult struct {
	Created int           `json:"created"`
	Tasks   []domain.Task `json:"tasks"`
}

// ImportError reports which item of an import failed validation
type ImportError struct {
	Index int
	Err   error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("item %d: %v", e.Index, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// Import validates every item, then creates them in order. Nothing is
// created if any item is invalid. A storage failure part way through
// leaves the earlier items in place.
func (s *TodoService) Import(ctx context.Context, inputs []domain.CreateTask) (*ImportResult, error) {
	for i, input := range inputs {
		if err := input.Validate(); err != nil {
			return nil, &ImportError{Index: i, Err: err}
		}
	}

	result := &ImportResult{Tasks: make([]domain.Task, 0, len(inputs))}
	for _, input := range inputs {
		task, err := s.repo.Create(ctx, input)
		if err != nil {
			return result, err
		}
		result.Tasks = append(result.Tasks, task)
		result.Created++
	}

	s.eventBus.Publish(Event{
		Type:    EventTodosImported,
		Payload: map[string]int{"created": result.Created},
	})
	return result, nil
}

// ImportFrom parses r with the codec for format and imports the result
func (s *TodoService) ImportFrom(ctx context.Context, format string, r io.Reader) (*ImportResult, error) {
	c, err := codec.ForFormat(format)
	if err != nil {
		return nil, err
	}

	inputs, err := c.Parse(r)
	if err != nil {
		return nil, err
	}
	return s.Import(ctx, inputs)
}

// Export writes all tasks to w in the given format
func (s *TodoService) Export(ctx context.Context, format string, w io.Writer) error {
	c, err := codec.ForFormat(format)
	if err != nil {
		return err
	}

	tasks, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	return c.Export(tasks, w)
}
