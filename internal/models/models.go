package models

import (
	"errors"
	"time"
)

// Project groups a bounded set of tasks.
type Project struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Task is a single unit of work inside a project.
type Task struct {
	ID          int64      `json:"id"`
	ProjectID   int64      `json:"project_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Deadline    *time.Time `json:"deadline"`
	ClosedAt    *time.Time `json:"closed_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

const (
	StatusTodo  = "todo"
	StatusDoing = "doing"
	StatusDone  = "done"
)

// TaskStatuses lists the supported statuses in display order.
var TaskStatuses = []string{StatusTodo, StatusDoing, StatusDone}

// ValidTaskStatuses enumerates the statuses a task may hold.
var ValidTaskStatuses = map[string]struct{}{
	StatusTodo:  {},
	StatusDoing: {},
	StatusDone:  {},
}

// IsOverdue reports whether the task has a deadline before now and is still open.
func (t Task) IsOverdue(now time.Time) bool {
	return t.Deadline != nil && t.Deadline.Before(now) && t.Status != StatusDone
}

// ErrInvalidDeadline is returned by ParseDeadline for unsupported input.
var ErrInvalidDeadline = errors.New("deadline must be YYYY-MM-DD, YYYY-MM-DDTHH:MM:SS or RFC 3339")

// ParseDeadline reads a user supplied deadline. An empty string means no
// deadline. Timestamps without an offset are taken as UTC and a bare date
// means the last second of that day in UTC.
func ParseDeadline(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	if t, err := time.Parse("2006-01-02T15:04:05", raw); err == nil {
		return &t, nil
	}
	d, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, ErrInvalidDeadline
	}
	end := d.Add(24*time.Hour - time.Second)
	return &end, nil
}
