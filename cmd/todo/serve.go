package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"todolist/internal/config"
	"todolist/internal/server"
	"todolist/internal/sweeper"
)

func serveCmd(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API and the overdue sweeper",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			env, err := setup(ctx, opts, os.Stdout)
			if err != nil {
				return err
			}
			defer env.close()

			if addr != "" {
				env.cfg.HTTP.Addr = addr
			}
			return serve(ctx, env)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (overrides TODO_ADDR)")
	return cmd
}

func serve(ctx context.Context, env *environment) error {
	logger := env.logger
	logger.Info("ToDoList API", slog.String("version", Version), slog.String("driver", env.cfg.Database.Driver))

	if env.cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := server.New(env.services.Projects, env.services.Tasks, env.store, logger)
	httpServer := &http.Server{
		Addr:    env.cfg.HTTP.Addr,
		Handler: srv.Engine(),
	}

	var wg sync.WaitGroup
	sweepCtx, cancelSweep := context.WithCancel(ctx)
	defer cancelSweep()

	sw := sweeper.New(env.services.Tasks, env.cfg.Sweeper.Interval(), logger.With(slog.String("component", "sweeper")))
	logger.Info("overdue sweeper scheduled", slog.Duration("interval", sw.Interval()))
	wg.Add(1)
	go func() {
		defer wg.Done()
		sw.Run(sweepCtx)
	}()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err, ok := <-serveErr:
		if ok {
			logger.Error("server stopped unexpectedly", slog.String("error", err.Error()))
			runErr = err
		}
	}

	cancelSweep()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), env.cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server", slog.String("error", err.Error()))
	}
	wg.Wait()

	logger.Info("server stopped")
	return runErr
}
