// Package storagetest holds the behaviour every storage.Store backend must share.
package storagetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"todolist/internal/models"
	"todolist/internal/storage"
)

// Factory returns a fresh, empty store. The factory registers its own cleanup.
type Factory func(t *testing.T) storage.Store

var base = time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

// Run executes the contract suite against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s storage.Store)
	}{
		{"CreateAssignsIDs", testCreateAssignsIDs},
		{"ListOrderedByCreation", testListOrderedByCreation},
		{"GetMissing", testGetMissing},
		{"DuplicateName", testDuplicateName},
		{"DeleteCascades", testDeleteCascades},
		{"RollbackDiscardsChanges", testRollbackDiscardsChanges},
		{"ListOverdue", testListOverdue},
		{"UpdateStatus", testUpdateStatus},
		{"DeleteTask", testDeleteTask},
		{"TaskRoundTrip", testTaskRoundTrip},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, newStore(t))
		})
	}
}

func within(t *testing.T, s storage.Store, fn func(tx storage.Tx) error) {
	t.Helper()
	if err := s.WithinTx(context.Background(), fn); err != nil {
		t.Fatalf("WithinTx: %v", err)
	}
}

func mustProject(t *testing.T, s storage.Store, name string, at time.Time) models.Project {
	t.Helper()
	var p models.Project
	within(t, s, func(tx storage.Tx) error {
		var err error
		p, err = tx.Projects().Create(context.Background(), name, "desc "+name, at)
		return err
	})
	return p
}

func mustTask(t *testing.T, s storage.Store, task models.Task) models.Task {
	t.Helper()
	if task.Status == "" {
		task.Status = models.StatusTodo
	}
	if task.Description == "" {
		task.Description = "description"
	}
	var out models.Task
	within(t, s, func(tx storage.Tx) error {
		var err error
		out, err = tx.Tasks().Create(context.Background(), task)
		return err
	})
	return out
}

func listTasks(t *testing.T, s storage.Store, projectID int64) []models.Task {
	t.Helper()
	var tasks []models.Task
	within(t, s, func(tx storage.Tx) error {
		var err error
		tasks, err = tx.Tasks().ListByProject(context.Background(), projectID)
		return err
	})
	return tasks
}

func testCreateAssignsIDs(t *testing.T, s storage.Store) {
	p1 := mustProject(t, s, "alpha", base)
	p2 := mustProject(t, s, "beta", base.Add(time.Minute))

	if p1.ID == 0 || p2.ID == 0 || p1.ID == p2.ID {
		t.Fatalf("expected distinct non-zero ids, got %d and %d", p1.ID, p2.ID)
	}
	if p1.Name != "alpha" || p1.Description != "desc alpha" {
		t.Fatalf("unexpected project %+v", p1)
	}
	if !p1.CreatedAt.Equal(base) {
		t.Fatalf("created_at = %v, want %v", p1.CreatedAt, base)
	}

	task := mustTask(t, s, models.Task{ProjectID: p1.ID, Title: "first", CreatedAt: base})
	if task.ID == 0 {
		t.Fatalf("task id not assigned")
	}
}

func testListOrderedByCreation(t *testing.T, s storage.Store) {
	mustProject(t, s, "late", base.Add(2*time.Hour))
	mustProject(t, s, "early", base)
	mustProject(t, s, "middle", base.Add(time.Hour))

	var projects []models.Project
	within(t, s, func(tx storage.Tx) error {
		var err error
		projects, err = tx.Projects().List(context.Background())
		return err
	})

	want := []string{"early", "middle", "late"}
	if len(projects) != len(want) {
		t.Fatalf("got %d projects, want %d", len(projects), len(want))
	}
	for i, name := range want {
		if projects[i].Name != name {
			t.Fatalf("projects[%d] = %q, want %q", i, projects[i].Name, name)
		}
	}

	p := projects[0]
	mustTask(t, s, models.Task{ProjectID: p.ID, Title: "b", CreatedAt: base.Add(time.Minute)})
	mustTask(t, s, models.Task{ProjectID: p.ID, Title: "a", CreatedAt: base})
	tasks := listTasks(t, s, p.ID)
	if len(tasks) != 2 || tasks[0].Title != "a" || tasks[1].Title != "b" {
		t.Fatalf("tasks not ordered by created_at: %+v", tasks)
	}
}

func testGetMissing(t *testing.T, s storage.Store) {
	err := s.WithinTx(context.Background(), func(tx storage.Tx) error {
		if _, err := tx.Projects().Get(context.Background(), 42); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("project Get: got %v, want ErrNotFound", err)
		}
		if _, err := tx.Projects().GetByName(context.Background(), "nope"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("project GetByName: got %v, want ErrNotFound", err)
		}
		if _, err := tx.Projects().Delete(context.Background(), 42); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("project Delete: got %v, want ErrNotFound", err)
		}
		if _, err := tx.Tasks().Get(context.Background(), 42); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("task Get: got %v, want ErrNotFound", err)
		}
		if _, err := tx.Tasks().Delete(context.Background(), 42); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("task Delete: got %v, want ErrNotFound", err)
		}
		if _, err := tx.Tasks().UpdateStatus(context.Background(), 42, models.StatusDone, nil); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("task UpdateStatus: got %v, want ErrNotFound", err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithinTx: %v", err)
	}
}

func testDuplicateName(t *testing.T, s storage.Store) {
	mustProject(t, s, "same", base)

	err := s.WithinTx(context.Background(), func(tx storage.Tx) error {
		_, err := tx.Projects().Create(context.Background(), "same", "other", base)
		return err
	})
	if !errors.Is(err, storage.ErrDuplicate) {
		t.Fatalf("got %v, want ErrDuplicate", err)
	}
}

func testDeleteCascades(t *testing.T, s storage.Store) {
	doomed := mustProject(t, s, "doomed", base)
	kept := mustProject(t, s, "kept", base)
	mustTask(t, s, models.Task{ProjectID: doomed.ID, Title: "t1", CreatedAt: base})
	mustTask(t, s, models.Task{ProjectID: doomed.ID, Title: "t2", CreatedAt: base})
	survivor := mustTask(t, s, models.Task{ProjectID: kept.ID, Title: "t3", CreatedAt: base})

	var removed models.Project
	within(t, s, func(tx storage.Tx) error {
		var err error
		removed, err = tx.Projects().Delete(context.Background(), doomed.ID)
		return err
	})
	if removed.ID != doomed.ID || removed.Name != "doomed" {
		t.Fatalf("Delete returned %+v", removed)
	}

	if tasks := listTasks(t, s, doomed.ID); len(tasks) != 0 {
		t.Fatalf("expected tasks of deleted project to be gone, got %d", len(tasks))
	}
	var all []models.Task
	within(t, s, func(tx storage.Tx) error {
		var err error
		all, err = tx.Tasks().List(context.Background())
		return err
	})
	if len(all) != 1 || all[0].ID != survivor.ID {
		t.Fatalf("other project's tasks must survive, got %+v", all)
	}
}

func testRollbackDiscardsChanges(t *testing.T, s storage.Store) {
	p := mustProject(t, s, "keep", base)
	mustTask(t, s, models.Task{ProjectID: p.ID, Title: "child", CreatedAt: base})

	boom := errors.New("boom")
	err := s.WithinTx(context.Background(), func(tx storage.Tx) error {
		if _, err := tx.Projects().Delete(context.Background(), p.ID); err != nil {
			return err
		}
		if _, err := tx.Projects().Create(context.Background(), "ghost", "never", base); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("got %v, want boom", err)
	}

	within(t, s, func(tx storage.Tx) error {
		if _, err := tx.Projects().Get(context.Background(), p.ID); err != nil {
			t.Errorf("project should survive rollback: %v", err)
		}
		if _, err := tx.Projects().GetByName(context.Background(), "ghost"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("rolled back project visible: %v", err)
		}
		n, err := tx.Tasks().CountByProject(context.Background(), p.ID)
		if err != nil {
			return err
		}
		if n != 1 {
			t.Errorf("task count after rollback = %d, want 1", n)
		}
		return nil
	})
}

func testListOverdue(t *testing.T, s storage.Store) {
	now := base.Add(24 * time.Hour)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)
	p := mustProject(t, s, "overdue", base)

	overdue := mustTask(t, s, models.Task{ProjectID: p.ID, Title: "overdue", Deadline: &past, CreatedAt: base})
	doing := mustTask(t, s, models.Task{ProjectID: p.ID, Title: "doing", Status: models.StatusDoing, Deadline: &past, CreatedAt: base.Add(time.Second)})
	mustTask(t, s, models.Task{ProjectID: p.ID, Title: "done", Status: models.StatusDone, Deadline: &past, CreatedAt: base})
	mustTask(t, s, models.Task{ProjectID: p.ID, Title: "future", Deadline: &future, CreatedAt: base})
	mustTask(t, s, models.Task{ProjectID: p.ID, Title: "none", CreatedAt: base})
	exact := now
	mustTask(t, s, models.Task{ProjectID: p.ID, Title: "exact", Deadline: &exact, CreatedAt: base})

	var got []models.Task
	within(t, s, func(tx storage.Tx) error {
		var err error
		got, err = tx.Tasks().ListOverdue(context.Background(), now)
		return err
	})

	if len(got) != 2 || got[0].ID != overdue.ID || got[1].ID != doing.ID {
		t.Fatalf("ListOverdue = %+v, want tasks %d and %d", got, overdue.ID, doing.ID)
	}
}

func testUpdateStatus(t *testing.T, s storage.Store) {
	p := mustProject(t, s, "status", base)
	task := mustTask(t, s, models.Task{ProjectID: p.ID, Title: "t", CreatedAt: base})
	closedAt := base.Add(time.Hour)

	var updated models.Task
	within(t, s, func(tx storage.Tx) error {
		var err error
		updated, err = tx.Tasks().UpdateStatus(context.Background(), task.ID, models.StatusDone, &closedAt)
		return err
	})
	if updated.Status != models.StatusDone {
		t.Fatalf("status = %q, want done", updated.Status)
	}
	if updated.ClosedAt == nil || !updated.ClosedAt.Equal(closedAt) {
		t.Fatalf("closed_at = %v, want %v", updated.ClosedAt, closedAt)
	}
}

func testDeleteTask(t *testing.T, s storage.Store) {
	p := mustProject(t, s, "tasks", base)
	task := mustTask(t, s, models.Task{ProjectID: p.ID, Title: "gone", CreatedAt: base})

	var removed models.Task
	within(t, s, func(tx storage.Tx) error {
		var err error
		removed, err = tx.Tasks().Delete(context.Background(), task.ID)
		return err
	})
	if removed.ID != task.ID || removed.Title != "gone" {
		t.Fatalf("Delete returned %+v", removed)
	}
	if tasks := listTasks(t, s, p.ID); len(tasks) != 0 {
		t.Fatalf("task still listed after delete")
	}
}

func testTaskRoundTrip(t *testing.T, s storage.Store) {
	p := mustProject(t, s, "roundtrip", base)
	deadline := base.Add(72*time.Hour + 1500*time.Millisecond)
	created := mustTask(t, s, models.Task{
		ProjectID:   p.ID,
		Title:       "Zażółć",
		Description: "unicode description",
		Deadline:    &deadline,
		CreatedAt:   base,
	})

	var fetched models.Task
	within(t, s, func(tx storage.Tx) error {
		var err error
		fetched, err = tx.Tasks().Get(context.Background(), created.ID)
		return err
	})

	if fetched.ID != created.ID || fetched.ProjectID != p.ID || fetched.Title != "Zażółć" ||
		fetched.Description != "unicode description" || fetched.Status != models.StatusTodo {
		t.Fatalf("round trip mismatch: %+v vs %+v", fetched, created)
	}
	if fetched.Deadline == nil || !fetched.Deadline.Equal(deadline) {
		t.Fatalf("deadline = %v, want %v", fetched.Deadline, deadline)
	}
	if fetched.ClosedAt != nil {
		t.Fatalf("closed_at must be unset, got %v", fetched.ClosedAt)
	}
	if !fetched.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("created_at changed: %v vs %v", fetched.CreatedAt, created.CreatedAt)
	}
}
