package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"todolist/internal/app"
	"todolist/internal/config"
	"todolist/internal/storage"
)

// environment is everything a subcommand needs to talk to the services.
type environment struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    storage.Store
	services app.Services
}

// setup loads configuration, applies flag overrides and opens the store.
func setup(ctx context.Context, opts *rootOptions, logOut io.Writer) (*environment, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if opts.driver != "" {
		cfg.Database.Driver = opts.driver
	}
	if opts.dbURL != "" {
		cfg.Database.URL = opts.dbURL
	}

	logger := app.NewLogger(logOut, cfg.Env)

	store, err := app.OpenStore(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("unable to open database", slog.String("driver", cfg.Database.Driver), slog.String("error", err.Error()))
		return nil, err
	}

	return &environment{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		services: app.NewServices(store, cfg.Limits, logger),
	}, nil
}

func (e *environment) close() {
	if err := e.store.Close(); err != nil {
		e.logger.Error("failed to close store", slog.String("error", err.Error()))
	}
}
