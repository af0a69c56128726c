package app

import (
	"log/slog"

	"todolist/internal/config"
	"todolist/internal/services"
	"todolist/internal/storage"
)

// Services bundles the business services sharing one store.
type Services struct {
	Projects *services.ProjectService
	Tasks    *services.TaskService
}

// NewServices wires the services to store with the configured limits.
func NewServices(store storage.Store, cfg config.LimitsConfig, logger *slog.Logger) Services {
	limits := services.Limits{
		MaxProjects:        cfg.MaxProjects,
		MaxTasksPerProject: cfg.MaxTasksPerProject,
	}
	return Services{
		Projects: services.NewProjectService(store, limits, services.WithLogger(logger)),
		Tasks:    services.NewTaskService(store, limits, services.WithLogger(logger)),
	}
}
