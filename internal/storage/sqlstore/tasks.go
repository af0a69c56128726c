package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"todolist/internal/models"
	"todolist/internal/storage"
)

const taskColumns = `id, project_id, title, description, status, deadline, closed_at, created_at`

type taskRepo struct {
	q       queryer
	dialect Dialect
}

// List returns every task ordered by creation date.
func (r *taskRepo) List(ctx context.Context) ([]models.Task, error) {
	return r.query(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY created_at ASC, id ASC`)
}

// Get retrieves a task by id.
func (r *taskRepo) Get(ctx context.Context, id int64) (models.Task, error) {
	row := r.q.QueryRowContext(ctx, r.dialect.Rebind(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`), id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// ListByProject returns tasks for the given project ordered by creation date.
func (r *taskRepo) ListByProject(ctx context.Context, projectID int64) ([]models.Task, error) {
	return r.query(ctx, `SELECT `+taskColumns+` FROM tasks WHERE project_id = ? ORDER BY created_at ASC, id ASC`, projectID)
}

// CountByProject returns the number of tasks stored for a project.
func (r *taskRepo) CountByProject(ctx context.Context, projectID int64) (int, error) {
	var n int
	err := r.q.QueryRowContext(ctx, r.dialect.Rebind(`SELECT COUNT(*) FROM tasks WHERE project_id = ?`), projectID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return n, nil
}

// ListOverdue returns open tasks whose deadline passed before now.
func (r *taskRepo) ListOverdue(ctx context.Context, now time.Time) ([]models.Task, error) {
	return r.query(ctx, `SELECT `+taskColumns+` FROM tasks
        WHERE deadline IS NOT NULL AND deadline < ? AND status <> ?
        ORDER BY created_at ASC, id ASC`, now.UTC(), models.StatusDone)
}

// Create inserts a new task and returns it with the assigned id.
func (r *taskRepo) Create(ctx context.Context, t models.Task) (models.Task, error) {
	var id int64
	err := r.q.QueryRowContext(ctx,
		r.dialect.Rebind(`INSERT INTO tasks(project_id, title, description, status, deadline, closed_at, created_at)
        VALUES(?, ?, ?, ?, ?, ?, ?) RETURNING id`),
		t.ProjectID, t.Title, t.Description, t.Status, nullTime(t.Deadline), nullTime(t.ClosedAt), t.CreatedAt.UTC(),
	).Scan(&id)
	if err != nil {
		return models.Task{}, fmt.Errorf("insert task: %w", err)
	}
	return r.Get(ctx, id)
}

// UpdateStatus stores a new status together with the matching close timestamp.
func (r *taskRepo) UpdateStatus(ctx context.Context, id int64, status string, closedAt *time.Time) (models.Task, error) {
	res, err := r.q.ExecContext(ctx,
		r.dialect.Rebind(`UPDATE tasks SET status = ?, closed_at = ? WHERE id = ?`),
		status, nullTime(closedAt), id,
	)
	if err != nil {
		return models.Task{}, fmt.Errorf("update task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.Task{}, err
	}
	if affected == 0 {
		return models.Task{}, storage.ErrNotFound
	}
	return r.Get(ctx, id)
}

// Delete removes a task by id.
func (r *taskRepo) Delete(ctx context.Context, id int64) (models.Task, error) {
	t, err := r.Get(ctx, id)
	if err != nil {
		return models.Task{}, err
	}

	res, err := r.q.ExecContext(ctx, r.dialect.Rebind(`DELETE FROM tasks WHERE id = ?`), id)
	if err != nil {
		return models.Task{}, fmt.Errorf("delete task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.Task{}, err
	}
	if affected == 0 {
		return models.Task{}, storage.ErrNotFound
	}
	return t, nil
}

func (r *taskRepo) query(ctx context.Context, query string, args ...any) ([]models.Task, error) {
	rows, err := r.q.QueryContext(ctx, r.dialect.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func scanTask(row rowScanner) (models.Task, error) {
	var (
		t                  models.Task
		deadline, closedAt sql.NullTime
	)
	err := row.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.Status, &deadline, &closedAt, &t.CreatedAt)
	if err != nil {
		return models.Task{}, err
	}
	t.CreatedAt = t.CreatedAt.UTC()
	t.Deadline = timePtr(deadline)
	t.ClosedAt = timePtr(closedAt)
	return t, nil
}

func nullTime(v *time.Time) sql.NullTime {
	if v == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: v.UTC(), Valid: true}
}

func timePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time.UTC()
	return &t
}
