package app

import (
	"io"
	"log/slog"

	"todolist/internal/config"
)

// NewLogger builds the application logger for env. Local and dev
// environments get human readable output at debug level, production gets
// JSON at info level.
func NewLogger(w io.Writer, env string) *slog.Logger {
	switch env {
	case config.EnvLocal, config.EnvDev:
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
}
