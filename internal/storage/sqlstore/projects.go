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

const projectColumns = `id, name, description, created_at`

type projectRepo struct {
	q       queryer
	dialect Dialect
}

// List retrieves all projects ordered by creation date.
func (r *projectRepo) List(ctx context.Context) ([]models.Project, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// Get fetches a single project by id.
func (r *projectRepo) Get(ctx context.Context, id int64) (models.Project, error) {
	row := r.q.QueryRowContext(ctx, r.dialect.Rebind(`SELECT `+projectColumns+` FROM projects WHERE id = ?`), id)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Project{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Project{}, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

// GetByName fetches a project by its unique name.
func (r *projectRepo) GetByName(ctx context.Context, name string) (models.Project, error) {
	row := r.q.QueryRowContext(ctx, r.dialect.Rebind(`SELECT `+projectColumns+` FROM projects WHERE name = ?`), name)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Project{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Project{}, fmt.Errorf("get project by name: %w", err)
	}
	return p, nil
}

// Count returns the number of stored projects.
func (r *projectRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count projects: %w", err)
	}
	return n, nil
}

// Create persists a new project and returns it with the assigned id.
func (r *projectRepo) Create(ctx context.Context, name, description string, createdAt time.Time) (models.Project, error) {
	var id int64
	err := r.q.QueryRowContext(ctx,
		r.dialect.Rebind(`INSERT INTO projects(name, description, created_at) VALUES(?, ?, ?) RETURNING id`),
		name, description, createdAt.UTC(),
	).Scan(&id)
	if err != nil {
		if r.dialect.uniqueViolation(err) {
			return models.Project{}, storage.ErrDuplicate
		}
		return models.Project{}, fmt.Errorf("insert project: %w", err)
	}
	return r.Get(ctx, id)
}

// Delete removes a project along with its tasks.
func (r *projectRepo) Delete(ctx context.Context, id int64) (models.Project, error) {
	p, err := r.Get(ctx, id)
	if err != nil {
		return models.Project{}, err
	}

	if _, err := r.q.ExecContext(ctx, r.dialect.Rebind(`DELETE FROM tasks WHERE project_id = ?`), id); err != nil {
		return models.Project{}, fmt.Errorf("delete project tasks: %w", err)
	}

	res, err := r.q.ExecContext(ctx, r.dialect.Rebind(`DELETE FROM projects WHERE id = ?`), id)
	if err != nil {
		return models.Project{}, fmt.Errorf("delete project: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.Project{}, err
	}
	if affected == 0 {
		return models.Project{}, storage.ErrNotFound
	}
	return p, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (models.Project, error) {
	var p models.Project
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt); err != nil {
		return models.Project{}, err
	}
	p.CreatedAt = p.CreatedAt.UTC()
	return p, nil
}
