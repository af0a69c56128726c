package app

import (
	"context"
	"fmt"
	"log/slog"

	"todolist/internal/config"
	"todolist/internal/storage"
	"todolist/internal/storage/memory"
	"todolist/internal/storage/postgres"
	"todolist/internal/storage/sqlite"
)

// OpenStore opens the backend selected by cfg.Driver.
func OpenStore(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (storage.Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite, "":
		store, err := sqlite.Open(cfg.URL, logger)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.DriverPostgres:
		store, err := postgres.Open(ctx, cfg.URL, logger)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.DriverMemory:
		logger.Warn("using in-memory store; data is lost on exit")
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
