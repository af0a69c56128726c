// Package services enforces the project and task business rules on top of
// a storage.Store. Every mutating operation runs in exactly one unit of work.
package services

import (
	"log/slog"
	"time"
)

const (
	DefaultMaxProjects        = 10
	DefaultMaxTasksPerProject = 100
)

// Limits caps how many projects and tasks may exist.
type Limits struct {
	MaxProjects        int
	MaxTasksPerProject int
}

// DefaultLimits returns the limits used when none are configured.
func DefaultLimits() Limits {
	return Limits{
		MaxProjects:        DefaultMaxProjects,
		MaxTasksPerProject: DefaultMaxTasksPerProject,
	}
}

func (l Limits) normalized() Limits {
	if l.MaxProjects <= 0 {
		l.MaxProjects = DefaultMaxProjects
	}
	if l.MaxTasksPerProject <= 0 {
		l.MaxTasksPerProject = DefaultMaxTasksPerProject
	}
	return l
}

// Option customises a service.
type Option func(*options)

type options struct {
	logger *slog.Logger
	now    func() time.Time
}

// WithLogger sets the logger used for operation logs.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
