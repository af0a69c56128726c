package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"todolist/internal/models"
	"todolist/internal/storage"
)

// ProjectService manages projects.
type ProjectService struct {
	store  storage.Store
	limits Limits
	logger *slog.Logger
	now    func() time.Time
}

// NewProjectService builds a ProjectService over store.
func NewProjectService(store storage.Store, limits Limits, opts ...Option) *ProjectService {
	o := buildOptions(opts)
	return &ProjectService{
		store:  store,
		limits: limits.normalized(),
		logger: o.logger,
		now:    o.now,
	}
}

// CreateProject validates and stores a new project.
//
// Checks run in a fixed order: name and description length, then the
// project limit, then name uniqueness.
func (s *ProjectService) CreateProject(ctx context.Context, name, description string) (models.Project, error) {
	if err := validateLength("project name", name, MaxProjectNameLength); err != nil {
		return models.Project{}, err
	}
	if err := validateLength("project description", description, MaxProjectDescriptionLength); err != nil {
		return models.Project{}, err
	}

	var project models.Project
	err := s.store.WithinTx(ctx, func(tx storage.Tx) error {
		projects := tx.Projects()

		count, err := projects.Count(ctx)
		if err != nil {
			return err
		}
		if count >= s.limits.MaxProjects {
			return newError(KindCapacity, "maximum number of projects (%d) reached", s.limits.MaxProjects)
		}

		_, err = projects.GetByName(ctx, name)
		switch {
		case err == nil:
			return ErrDuplicateName
		case !errors.Is(err, storage.ErrNotFound):
			return err
		}

		project, err = projects.Create(ctx, name, description, s.now())
		if errors.Is(err, storage.ErrDuplicate) {
			return ErrDuplicateName
		}
		return err
	})
	if err != nil {
		return models.Project{}, err
	}

	s.logger.Info("created project", slog.Int64("project_id", project.ID), slog.String("name", project.Name))
	return project, nil
}

// ListProjects returns all projects ordered by creation time.
func (s *ProjectService) ListProjects(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	err := s.store.WithinTx(ctx, func(tx storage.Tx) error {
		var err error
		projects, err = tx.Projects().List(ctx)
		return err
	})
	return projects, err
}

// GetProject returns a project by id.
func (s *ProjectService) GetProject(ctx context.Context, id int64) (models.Project, error) {
	var project models.Project
	err := s.store.WithinTx(ctx, func(tx storage.Tx) error {
		var err error
		project, err = tx.Projects().Get(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			return ErrProjectNotFound
		}
		return err
	})
	return project, err
}

// DeleteProject removes a project and all of its tasks in one unit of work.
func (s *ProjectService) DeleteProject(ctx context.Context, id int64) (models.Project, error) {
	var project models.Project
	err := s.store.WithinTx(ctx, func(tx storage.Tx) error {
		var err error
		project, err = tx.Projects().Delete(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			return ErrProjectNotFound
		}
		return err
	})
	if err != nil {
		return models.Project{}, err
	}

	s.logger.Info("deleted project", slog.Int64("project_id", project.ID), slog.String("name", project.Name))
	return project, nil
}
