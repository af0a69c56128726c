package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"todolist/internal/models"
	"todolist/internal/storage"
)

// TaskService manages tasks inside projects.
type TaskService struct {
	store  storage.Store
	limits Limits
	logger *slog.Logger
	now    func() time.Time
}

// NewTaskService builds a TaskService over store.
func NewTaskService(store storage.Store, limits Limits, opts ...Option) *TaskService {
	o := buildOptions(opts)
	return &TaskService{
		store:  store,
		limits: limits.normalized(),
		logger: o.logger,
		now:    o.now,
	}
}

// AddTask creates a task in state todo. An unknown project is reported before
// any problem with the title or description.
func (s *TaskService) AddTask(ctx context.Context, projectID int64, title, description string, deadline *time.Time) (models.Task, error) {
	var task models.Task
	err := s.store.WithinTx(ctx, func(tx storage.Tx) error {
		if _, err := tx.Projects().Get(ctx, projectID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return ErrProjectNotFound
			}
			return err
		}

		if err := validateLength("task title", title, MaxTaskTitleLength); err != nil {
			return err
		}
		if err := validateLength("task description", description, MaxTaskDescriptionLength); err != nil {
			return err
		}

		count, err := tx.Tasks().CountByProject(ctx, projectID)
		if err != nil {
			return err
		}
		if count >= s.limits.MaxTasksPerProject {
			return newError(KindCapacity, "maximum number of tasks per project (%d) reached", s.limits.MaxTasksPerProject)
		}

		task, err = tx.Tasks().Create(ctx, models.Task{
			ProjectID:   projectID,
			Title:       title,
			Description: description,
			Status:      models.StatusTodo,
			Deadline:    deadline,
			CreatedAt:   s.now(),
		})
		if errors.Is(err, storage.ErrNotFound) {
			return ErrProjectNotFound
		}
		return err
	})
	if err != nil {
		return models.Task{}, err
	}

	s.logger.Info("created task", slog.Int64("task_id", task.ID), slog.Int64("project_id", projectID))
	return task, nil
}

// ListTasks returns the tasks of a project. An unknown project yields an
// empty list.
func (s *TaskService) ListTasks(ctx context.Context, projectID int64) ([]models.Task, error) {
	var tasks []models.Task
	err := s.store.WithinTx(ctx, func(tx storage.Tx) error {
		var err error
		tasks, err = tx.Tasks().ListByProject(ctx, projectID)
		return err
	})
	return tasks, err
}

// GetTask returns a task by id.
func (s *TaskService) GetTask(ctx context.Context, id int64) (models.Task, error) {
	var task models.Task
	err := s.store.WithinTx(ctx, func(tx storage.Tx) error {
		var err error
		task, err = tx.Tasks().Get(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			return ErrTaskNotFound
		}
		return err
	})
	return task, err
}

// ChangeTaskStatus moves a task to status. Entering done from another
// status stamps closed_at; every other transition keeps closed_at as is.
func (s *TaskService) ChangeTaskStatus(ctx context.Context, id int64, status string) (models.Task, error) {
	if _, ok := models.ValidTaskStatuses[status]; !ok {
		return models.Task{}, errInvalidStatus(status)
	}

	var (
		task      models.Task
		oldStatus string
	)
	err := s.store.WithinTx(ctx, func(tx storage.Tx) error {
		current, err := tx.Tasks().Get(ctx, id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return ErrTaskNotFound
			}
			return err
		}
		oldStatus = current.Status

		closedAt := current.ClosedAt
		if status == models.StatusDone && current.Status != models.StatusDone {
			now := s.now()
			closedAt = &now
		}

		task, err = tx.Tasks().UpdateStatus(ctx, id, status, closedAt)
		if errors.Is(err, storage.ErrNotFound) {
			return ErrTaskNotFound
		}
		return err
	})
	if err != nil {
		return models.Task{}, err
	}

	s.logger.Info("changed task status",
		slog.Int64("task_id", id),
		slog.String("from", oldStatus),
		slog.String("to", status),
	)
	return task, nil
}

// DeleteTask removes a task.
func (s *TaskService) DeleteTask(ctx context.Context, id int64) (models.Task, error) {
	var task models.Task
	err := s.store.WithinTx(ctx, func(tx storage.Tx) error {
		var err error
		task, err = tx.Tasks().Delete(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			return ErrTaskNotFound
		}
		return err
	})
	if err != nil {
		return models.Task{}, err
	}

	s.logger.Info("deleted task", slog.Int64("task_id", id))
	return task, nil
}

// CloseOverdueTasks marks every task overdue at now as done, stamping
// closed_at with now. All closures share one unit of work.
func (s *TaskService) CloseOverdueTasks(ctx context.Context, now time.Time) (int, error) {
	closed := 0
	err := s.store.WithinTx(ctx, func(tx storage.Tx) error {
		closed = 0
		overdue, err := tx.Tasks().ListOverdue(ctx, now)
		if err != nil {
			return err
		}
		for _, t := range overdue {
			closedAt := now
			if _, err := tx.Tasks().UpdateStatus(ctx, t.ID, models.StatusDone, &closedAt); err != nil {
				return err
			}
			closed++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return closed, nil
}
