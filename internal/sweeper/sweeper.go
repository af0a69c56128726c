// Package sweeper periodically closes overdue tasks.
package sweeper

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// DefaultInterval is the time between two sweeps.
const DefaultInterval = 15 * time.Minute

// Closer closes the tasks that are overdue at now and reports how many it closed.
type Closer interface {
	CloseOverdueTasks(ctx context.Context, now time.Time) (int, error)
}

// Sweeper runs Closer on a fixed interval. A failed sweep is logged and
// never stops the loop.
type Sweeper struct {
	closer   Closer
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// New returns a sweeper. A non-positive interval falls back to DefaultInterval.
func New(closer Closer, interval time.Duration, logger *slog.Logger) *Sweeper {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{
		closer:   closer,
		interval: interval,
		logger:   logger,
		now:      time.Now,
	}
}

// Interval returns the configured period.
func (s *Sweeper) Interval() time.Duration {
	return s.interval
}

// Run sweeps once immediately and then on every tick until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	s.logger.Info("sweeper started")

	_, _ = s.RunOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sweeper stopping", slog.String("reason", ctx.Err().Error()))
			return
		case <-ticker.C:
			_, _ = s.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single sweep and logs its outcome. Panics raised by
// the closer are recovered and returned as errors.
func (s *Sweeper) RunOnce(ctx context.Context) (closed int, err error) {
	defer func() {
		if r := recover(); r != nil {
			closed = 0
			err = fmt.Errorf("sweep panicked: %v", r)
			s.logger.Error("overdue sweep failed", slog.String("error", err.Error()))
		}
	}()

	now := s.now()
	closed, err = s.closer.CloseOverdueTasks(ctx, now)
	if err != nil {
		s.logger.Error("overdue sweep failed", slog.String("error", err.Error()))
		return 0, err
	}

	if closed > 0 {
		s.logger.Info("closed overdue tasks", slog.Int("count", closed), slog.Time("at", now))
	} else {
		s.logger.Info("no overdue tasks found", slog.Time("at", now))
	}
	return closed, nil
}
