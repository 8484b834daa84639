// Package repotest provides a conformance suite for repository.TaskRepository
// implementations. Every backend runs the same suite so callers can swap them
// without observing a difference.
package repotest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"todos/internal/domain"
	"todos/internal/repository"
)

// Factory returns an empty repository. It should register its own cleanup.
type Factory func(t *testing.T) repository.TaskRepository

// Run executes the conformance suite against repositories built by newRepo
func Run(t *testing.T, newRepo Factory) {
	t.Helper()

	tests := []struct {
		name string
		fn   func(t *testing.T, repo repository.TaskRepository)
	}{
		{"crud scenario", testCRUDScenario},
		{"create then find", testCreateThenFind},
		{"list contains all created", testListContainsAll},
		{"partial update preserves omitted fields", testPartialUpdate},
		{"absent id", testAbsentID},
		{"delete removes", testDeleteRemoves},
		{"returned tasks are copies", testReturnedCopies},
		{"concurrent creates get unique ids", testConcurrentCreates},
		{"concurrent updates are not lost", testConcurrentUpdates},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, newRepo(t))
		})
	}
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func mustCreate(t *testing.T, repo repository.TaskRepository, text string) domain.Task {
	t.Helper()
	task, err := repo.Create(context.Background(), domain.CreateTask{Text: text})
	if err != nil {
		t.Fatalf("create %q: %v", text, err)
	}
	return task
}

func assertNotFound(t *testing.T, err error, id int64) {
	t.Helper()
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
	var nf *repository.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected *NotFoundError, got %T", err)
	}
	if nf.ID != id {
		t.Errorf("expected NotFound id %d, got %d", id, nf.ID)
	}
}

func testCRUDScenario(t *testing.T, repo repository.TaskRepository) {
	ctx := context.Background()

	created := mustCreate(t, repo, "todo text")
	expected := domain.NewTask(created.ID, "todo text")
	if created != expected {
		t.Fatalf("create: expected %+v, got %+v", expected, created)
	}

	found, err := repo.Find(ctx, created.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found != expected {
		t.Fatalf("find: expected %+v, got %+v", expected, found)
	}

	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 || all[0] != expected {
		t.Fatalf("list: expected [%+v], got %+v", expected, all)
	}

	updated, err := repo.Update(ctx, created.ID, domain.UpdateTask{
		Text:      strPtr("update todo text"),
		Completed: boolPtr(true),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	want := domain.Task{ID: created.ID, Text: "update todo text", Completed: true}
	if updated != want {
		t.Fatalf("update: expected %+v, got %+v", want, updated)
	}

	if err := repo.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	_, err = repo.Find(ctx, created.ID)
	assertNotFound(t, err, created.ID)
}

func testCreateThenFind(t *testing.T, repo repository.TaskRepository) {
	ctx := context.Background()
	texts := []string{"a", "buy milk", "日本語のタスク", "with \"quotes\" and 'apostrophes'"}

	for _, text := range texts {
		created := mustCreate(t, repo, text)
		if created.Text != text || created.Completed {
			t.Errorf("create %q returned %+v", text, created)
		}

		found, err := repo.Find(ctx, created.ID)
		if err != nil {
			t.Fatalf("find %d: %v", created.ID, err)
		}
		if found != created {
			t.Errorf("expected %+v, got %+v", created, found)
		}
	}
}

func testListContainsAll(t *testing.T, repo repository.TaskRepository) {
	const n = 10
	created := make(map[int64]domain.Task, n)
	for i := 0; i < n; i++ {
		task := mustCreate(t, repo, fmt.Sprintf("task %d", i))
		created[task.ID] = task
	}
	if len(created) != n {
		t.Fatalf("expected %d distinct ids, got %d", n, len(created))
	}

	all, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != n {
		t.Fatalf("expected %d tasks, got %d", n, len(all))
	}

	seen := make(map[int64]bool, n)
	for _, task := range all {
		if seen[task.ID] {
			t.Errorf("task %d listed twice", task.ID)
		}
		seen[task.ID] = true
		if want, ok := created[task.ID]; !ok || want != task {
			t.Errorf("unexpected task in list: %+v", task)
		}
	}
}

func testPartialUpdate(t *testing.T, repo repository.TaskRepository) {
	ctx := context.Background()
	task := mustCreate(t, repo, "a")

	got, err := repo.Update(ctx, task.ID, domain.UpdateTask{Completed: boolPtr(true)})
	if err != nil {
		t.Fatalf("update completed: %v", err)
	}
	if want := (domain.Task{ID: task.ID, Text: "a", Completed: true}); got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}

	got, err = repo.Update(ctx, task.ID, domain.UpdateTask{Text: strPtr("b")})
	if err != nil {
		t.Fatalf("update text: %v", err)
	}
	if want := (domain.Task{ID: task.ID, Text: "b", Completed: true}); got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}

	got, err = repo.Update(ctx, task.ID, domain.UpdateTask{})
	if err != nil {
		t.Fatalf("empty update: %v", err)
	}
	if want := (domain.Task{ID: task.ID, Text: "b", Completed: true}); got != want {
		t.Fatalf("empty update changed task: expected %+v, got %+v", want, got)
	}

	found, err := repo.Find(ctx, task.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found != got {
		t.Errorf("stored %+v differs from returned %+v", found, got)
	}
}

func testAbsentID(t *testing.T, repo repository.TaskRepository) {
	ctx := context.Background()
	const absent = 999

	_, err := repo.Find(ctx, absent)
	assertNotFound(t, err, absent)

	_, err = repo.Update(ctx, absent, domain.UpdateTask{Text: strPtr("x"), Completed: boolPtr(true)})
	assertNotFound(t, err, absent)

	err = repo.Delete(ctx, absent)
	assertNotFound(t, err, absent)

	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("update on absent id must not create a task, got %+v", all)
	}
}

func testDeleteRemoves(t *testing.T, repo repository.TaskRepository) {
	ctx := context.Background()
	keep := mustCreate(t, repo, "keep")
	drop := mustCreate(t, repo, "drop")

	if err := repo.Delete(ctx, drop.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	_, err := repo.Find(ctx, drop.ID)
	assertNotFound(t, err, drop.ID)

	err = repo.Delete(ctx, drop.ID)
	assertNotFound(t, err, drop.ID)

	if _, err := repo.Find(ctx, keep.ID); err != nil {
		t.Errorf("unrelated task affected by delete: %v", err)
	}
}

func testReturnedCopies(t *testing.T, repo repository.TaskRepository) {
	ctx := context.Background()
	task := mustCreate(t, repo, "original")

	task.Text = "mutated"
	task.Completed = true

	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	all[0].Text = "mutated via list"

	found, err := repo.Find(ctx, task.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.Text != "original" || found.Completed {
		t.Errorf("stored task changed through a returned value: %+v", found)
	}
}

func testConcurrentCreates(t *testing.T, repo repository.TaskRepository) {
	const n = 50
	ctx := context.Background()

	var wg sync.WaitGroup
	ids := make(chan int64, n)
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			task, err := repo.Create(ctx, domain.CreateTask{Text: fmt.Sprintf("concurrent %d", i)})
			if err != nil {
				errs <- err
				return
			}
			ids <- task.ID
		}(i)
	}
	wg.Wait()
	close(ids)
	close(errs)

	for err := range errs {
		t.Fatalf("concurrent create: %v", err)
	}

	seen := make(map[int64]bool, n)
	for id := range ids {
		if seen[id] {
			t.Errorf("id %d assigned twice", id)
		}
		seen[id] = true
	}

	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != n {
		t.Errorf("expected %d tasks, got %d", n, len(all))
	}
}

func testConcurrentUpdates(t *testing.T, repo repository.TaskRepository) {
	const writers = 20
	ctx := context.Background()
	task := mustCreate(t, repo, "start")

	var wg sync.WaitGroup
	errs := make(chan error, 2*writers)
	for i := 0; i < writers; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_, err := repo.Update(ctx, task.ID, domain.UpdateTask{Text: strPtr(fmt.Sprintf("text %d", i))})
			errs <- err
		}(i)
		go func() {
			defer wg.Done()
			_, err := repo.Update(ctx, task.ID, domain.UpdateTask{Completed: boolPtr(true)})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent update: %v", err)
		}
	}

	found, err := repo.Find(ctx, task.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !found.Completed {
		t.Error("completed update was lost")
	}
	if found.Text == "start" {
		t.Error("text update was lost")
	}
}
