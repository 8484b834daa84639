package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"todos/internal/domain"
	"todos/internal/repository"
	"todos/internal/repository/memory"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

// spyRepo records whether the repository was reached
type spyRepo struct {
	repository.TaskRepository
	calls int
}

func (s *spyRepo) Create(ctx context.Context, input domain.CreateTask) (domain.Task, error) {
	s.calls++
	return s.TaskRepository.Create(ctx, input)
}

func (s *spyRepo) Update(ctx context.Context, id int64, input domain.UpdateTask) (domain.Task, error) {
	s.calls++
	return s.TaskRepository.Update(ctx, id, input)
}

func newTestService(t *testing.T) (*TodoService, *spyRepo, chan Event) {
	t.Helper()
	repo := &spyRepo{TaskRepository: memory.New()}
	bus := NewEventBus()
	events := make(chan Event, 16)
	bus.Subscribe(events)
	return NewTodoService(repo, bus), repo, events
}

func expectEvent(t *testing.T, events chan Event, want EventType) Event {
	t.Helper()
	select {
	case ev := <-events:
		if ev.Type != want {
			t.Fatalf("expected event %s, got %s", want, ev.Type)
		}
		return ev
	default:
		t.Fatalf("expected event %s, got none", want)
	}
	return Event{}
}

func expectNoEvent(t *testing.T, events chan Event) {
	t.Helper()
	select {
	case ev := <-events:
		t.Fatalf("expected no event, got %s", ev.Type)
	default:
	}
}

func TestTodoServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid input is stored and published", func(t *testing.T) {
		svc, repo, events := newTestService(t)

		task, err := svc.Create(ctx, domain.CreateTask{Text: "todo text"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if task != domain.NewTask(1, "todo text") {
			t.Errorf("unexpected task %+v", task)
		}
		if repo.calls != 1 {
			t.Errorf("expected 1 repository call, got %d", repo.calls)
		}

		ev := expectEvent(t, events, EventTodoCreated)
		if ev.Payload.(domain.Task) != task {
			t.Errorf("unexpected payload %+v", ev.Payload)
		}
	})

	t.Run("invalid input never reaches the repository", func(t *testing.T) {
		svc, repo, events := newTestService(t)

		for _, text := range []string{"", strings.Repeat("x", 101)} {
			_, err := svc.Create(ctx, domain.CreateTask{Text: text})
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("expected ValidationError for %d chars, got %v", len(text), err)
			}
		}
		if repo.calls != 0 {
			t.Errorf("expected no repository calls, got %d", repo.calls)
		}
		expectNoEvent(t, events)
	})
}

func TestTodoServiceUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("partial update", func(t *testing.T) {
		svc, _, events := newTestService(t)
		created, _ := svc.Create(ctx, domain.CreateTask{Text: "a"})
		expectEvent(t, events, EventTodoCreated)

		task, err := svc.Update(ctx, created.ID, domain.UpdateTask{Completed: boolPtr(true)})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if want := (domain.Task{ID: created.ID, Text: "a", Completed: true}); task != want {
			t.Errorf("expected %+v, got %+v", want, task)
		}
		expectEvent(t, events, EventTodoUpdated)
	})

	t.Run("invalid text is rejected before the repository", func(t *testing.T) {
		svc, repo, _ := newTestService(t)
		created, _ := svc.Create(ctx, domain.CreateTask{Text: "a"})
		repo.calls = 0

		_, err := svc.Update(ctx, created.ID, domain.UpdateTask{Text: strPtr("")})
		var verr *domain.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if repo.calls != 0 {
			t.Errorf("expected no repository calls, got %d", repo.calls)
		}
	})

	t.Run("absent id is not found", func(t *testing.T) {
		svc, _, events := newTestService(t)

		_, err := svc.Update(ctx, 999, domain.UpdateTask{Text: strPtr("x")})
		if !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected NotFound, got %v", err)
		}
		expectNoEvent(t, events)
	})
}

func TestTodoServiceDelete(t *testing.T) {
	ctx := context.Background()
	svc, _, events := newTestService(t)

	created, _ := svc.Create(ctx, domain.CreateTask{Text: "a"})
	expectEvent(t, events, EventTodoCreated)

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	expectEvent(t, events, EventTodoDeleted)

	if _, err := svc.Find(ctx, created.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected NotFound after delete, got %v", err)
	}
	if err := svc.Delete(ctx, created.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected NotFound on second delete, got %v", err)
	}
	expectNoEvent(t, events)
}

func TestTodoServiceImport(t *testing.T) {
	ctx := context.Background()

	t.Run("all valid", func(t *testing.T) {
		svc, _, events := newTestService(t)

		result, err := svc.Import(ctx, []domain.CreateTask{{Text: "one"}, {Text: "two"}})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Created != 2 || len(result.Tasks) != 2 {
			t.Errorf("unexpected result %+v", result)
		}
		expectEvent(t, events, EventTodosImported)

		tasks, _ := svc.List(ctx)
		if len(tasks) != 2 {
			t.Errorf("expected 2 tasks, got %d", len(tasks))
		}
	})

	t.Run("one invalid item rejects the batch", func(t *testing.T) {
		svc, repo, events := newTestService(t)

		_, err := svc.Import(ctx, []domain.CreateTask{{Text: "ok"}, {Text: ""}})
		var ierr *ImportError
		if !errors.As(err, &ierr) {
			t.Fatalf("expected ImportError, got %v", err)
		}
		if ierr.Index != 1 {
			t.Errorf("expected index 1, got %d", ierr.Index)
		}
		var verr *domain.ValidationError
		if !errors.As(err, &verr) {
			t.Error("expected wrapped ValidationError")
		}
		if repo.calls != 0 {
			t.Errorf("expected no repository calls, got %d", repo.calls)
		}
		expectNoEvent(t, events)
	})
}

func TestTodoServiceExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src, _, _ := newTestService(t)
	dst, _, _ := newTestService(t)

	for _, text := range []string{"alpha", "beta"} {
		if _, err := src.Create(ctx, domain.CreateTask{Text: text}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	for _, format := range []string{"json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := src.Export(ctx, format, &buf); err != nil {
				t.Fatalf("export: %v", err)
			}

			result, err := dst.ImportFrom(ctx, format, &buf)
			if err != nil {
				t.Fatalf("import: %v", err)
			}
			if result.Created != 2 {
				t.Errorf("expected 2 created, got %d", result.Created)
			}
		})
	}

	if err := src.Export(ctx, "csv", &bytes.Buffer{}); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestEventBusDropsForSlowSubscriber(t *testing.T) {
	bus := NewEventBus()
	slow := make(chan Event) // unbuffered, never read
	fast := make(chan Event, 1)
	bus.Subscribe(slow)
	bus.Subscribe(fast)

	bus.Publish(Event{Type: EventTodoCreated})

	select {
	case ev := <-fast:
		if ev.Type != EventTodoCreated {
			t.Errorf("unexpected event %s", ev.Type)
		}
	default:
		t.Error("fast subscriber did not receive the event")
	}
}
