// Package storage defines the persistence contract shared by every backend.
package storage

import (
	"context"
	"errors"
	"time"

	"todolist/internal/models"
)

var (
	// ErrNotFound is returned when a record with the requested id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when an insert violates a uniqueness constraint.
	ErrDuplicate = errors.New("duplicate")
)

// Store owns the backing database and hands out units of work.
type Store interface {
	// WithinTx runs fn inside a single transaction. The transaction is
	// committed when fn returns nil and rolled back otherwise.
	WithinTx(ctx context.Context, fn func(Tx) error) error
	Ping(ctx context.Context) error
	Close() error
}

// Tx exposes the repositories bound to one unit of work.
type Tx interface {
	Projects() ProjectRepository
	Tasks() TaskRepository
}

// ProjectRepository persists projects. Lists are ordered by created_at, then id.
type ProjectRepository interface {
	List(ctx context.Context) ([]models.Project, error)
	Get(ctx context.Context, id int64) (models.Project, error)
	GetByName(ctx context.Context, name string) (models.Project, error)
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, name, description string, createdAt time.Time) (models.Project, error)
	// Delete removes the project together with all of its tasks.
	Delete(ctx context.Context, id int64) (models.Project, error)
}

// TaskRepository persists tasks. Lists are ordered by created_at, then id.
type TaskRepository interface {
	List(ctx context.Context) ([]models.Task, error)
	Get(ctx context.Context, id int64) (models.Task, error)
	ListByProject(ctx context.Context, projectID int64) ([]models.Task, error)
	CountByProject(ctx context.Context, projectID int64) (int, error)
	// ListOverdue returns open tasks whose deadline is set and earlier than now.
	ListOverdue(ctx context.Context, now time.Time) ([]models.Task, error)
	Create(ctx context.Context, t models.Task) (models.Task, error)
	UpdateStatus(ctx context.Context, id int64, status string, closedAt *time.Time) (models.Task, error)
	Delete(ctx context.Context, id int64) (models.Task, error)
}
