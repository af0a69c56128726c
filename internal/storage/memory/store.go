// Package memory implements storage.Store on top of in-process maps.
//
// Every unit of work runs against a private copy of the data which replaces
// the shared state only when the unit of work succeeds, so a failed
// WithinTx leaves nothing half-applied.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"todolist/internal/models"
	"todolist/internal/storage"
)

var errClosed = errors.New("memory store closed")

type state struct {
	projects      map[int64]models.Project
	tasks         map[int64]models.Task
	nextProjectID int64
	nextTaskID    int64
}

func (s *state) clone() *state {
	c := &state{
		projects:      make(map[int64]models.Project, len(s.projects)),
		tasks:         make(map[int64]models.Task, len(s.tasks)),
		nextProjectID: s.nextProjectID,
		nextTaskID:    s.nextTaskID,
	}
	for id, p := range s.projects {
		c.projects[id] = p
	}
	for id, t := range s.tasks {
		c.tasks[id] = copyTask(t)
	}
	return c
}

// Store keeps projects and tasks in memory.
type Store struct {
	mu     sync.Mutex
	data   *state
	closed bool
}

// New returns an empty store. Identifiers start at 1.
func New() *Store {
	return &Store{data: &state{
		projects: map[int64]models.Project{},
		tasks:    map[int64]models.Task{},
	}}
}

// WithinTx serialises units of work and commits fn's changes atomically.
func (s *Store) WithinTx(ctx context.Context, fn func(storage.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	work := s.data.clone()
	if err := fn(&tx{data: work}); err != nil {
		return err
	}
	s.data = work
	return nil
}

// Ping reports whether the store is still open.
func (s *Store) Ping(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed
	}
	return nil
}

// Close marks the store unusable.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

type tx struct {
	data *state
}

func (t *tx) Projects() storage.ProjectRepository { return projectRepo{data: t.data} }
func (t *tx) Tasks() storage.TaskRepository       { return taskRepo{data: t.data} }

type projectRepo struct {
	data *state
}

func (r projectRepo) List(context.Context) ([]models.Project, error) {
	out := make([]models.Project, 0, len(r.data.projects))
	for _, p := range r.data.projects {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r projectRepo) Get(_ context.Context, id int64) (models.Project, error) {
	p, ok := r.data.projects[id]
	if !ok {
		return models.Project{}, storage.ErrNotFound
	}
	return p, nil
}

func (r projectRepo) GetByName(_ context.Context, name string) (models.Project, error) {
	for _, p := range r.data.projects {
		if p.Name == name {
			return p, nil
		}
	}
	return models.Project{}, storage.ErrNotFound
}

func (r projectRepo) Count(context.Context) (int, error) {
	return len(r.data.projects), nil
}

func (r projectRepo) Create(ctx context.Context, name, description string, createdAt time.Time) (models.Project, error) {
	if _, err := r.GetByName(ctx, name); err == nil {
		return models.Project{}, storage.ErrDuplicate
	}

	r.data.nextProjectID++
	p := models.Project{
		ID:          r.data.nextProjectID,
		Name:        name,
		Description: description,
		CreatedAt:   createdAt.UTC(),
	}
	r.data.projects[p.ID] = p
	return p, nil
}

func (r projectRepo) Delete(_ context.Context, id int64) (models.Project, error) {
	p, ok := r.data.projects[id]
	if !ok {
		return models.Project{}, storage.ErrNotFound
	}
	for taskID, t := range r.data.tasks {
		if t.ProjectID == id {
			delete(r.data.tasks, taskID)
		}
	}
	delete(r.data.projects, id)
	return p, nil
}

type taskRepo struct {
	data *state
}

func (r taskRepo) collect(keep func(models.Task) bool) []models.Task {
	out := make([]models.Task, 0)
	for _, t := range r.data.tasks {
		if keep(t) {
			out = append(out, copyTask(t))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r taskRepo) List(context.Context) ([]models.Task, error) {
	return r.collect(func(models.Task) bool { return true }), nil
}

func (r taskRepo) Get(_ context.Context, id int64) (models.Task, error) {
	t, ok := r.data.tasks[id]
	if !ok {
		return models.Task{}, storage.ErrNotFound
	}
	return copyTask(t), nil
}

func (r taskRepo) ListByProject(_ context.Context, projectID int64) ([]models.Task, error) {
	return r.collect(func(t models.Task) bool { return t.ProjectID == projectID }), nil
}

func (r taskRepo) CountByProject(_ context.Context, projectID int64) (int, error) {
	n := 0
	for _, t := range r.data.tasks {
		if t.ProjectID == projectID {
			n++
		}
	}
	return n, nil
}

func (r taskRepo) ListOverdue(_ context.Context, now time.Time) ([]models.Task, error) {
	return r.collect(func(t models.Task) bool { return t.IsOverdue(now) }), nil
}

func (r taskRepo) Create(_ context.Context, t models.Task) (models.Task, error) {
	if _, ok := r.data.projects[t.ProjectID]; !ok {
		return models.Task{}, storage.ErrNotFound
	}

	r.data.nextTaskID++
	t.ID = r.data.nextTaskID
	t.CreatedAt = t.CreatedAt.UTC()
	t.Deadline = utcPtr(t.Deadline)
	t.ClosedAt = utcPtr(t.ClosedAt)
	r.data.tasks[t.ID] = t
	return copyTask(t), nil
}

func (r taskRepo) UpdateStatus(_ context.Context, id int64, status string, closedAt *time.Time) (models.Task, error) {
	t, ok := r.data.tasks[id]
	if !ok {
		return models.Task{}, storage.ErrNotFound
	}
	t.Status = status
	t.ClosedAt = utcPtr(closedAt)
	r.data.tasks[id] = t
	return copyTask(t), nil
}

func (r taskRepo) Delete(_ context.Context, id int64) (models.Task, error) {
	t, ok := r.data.tasks[id]
	if !ok {
		return models.Task{}, storage.ErrNotFound
	}
	delete(r.data.tasks, id)
	return copyTask(t), nil
}

func copyTask(t models.Task) models.Task {
	t.Deadline = utcPtr(t.Deadline)
	t.ClosedAt = utcPtr(t.ClosedAt)
	return t
}

func utcPtr(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	u := v.UTC()
	return &u
}
