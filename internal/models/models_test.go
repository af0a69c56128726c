package models

import (
	"errors"
	"testing"
	"time"
)

func TestParseDeadline(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    *time.Time
		wantErr bool
	}{
		{name: "empty", raw: "", want: nil},
		{name: "date", raw: "2026-10-31", want: ptr(time.Date(2026, 10, 31, 23, 59, 59, 0, time.UTC))},
		{name: "no offset", raw: "2025-12-31T23:59:59", want: ptr(time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC))},
		{name: "rfc3339 utc", raw: "2026-10-31T08:30:00Z", want: ptr(time.Date(2026, 10, 31, 8, 30, 0, 0, time.UTC))},
		{name: "rfc3339 offset", raw: "2026-10-31T10:30:00+02:00", want: ptr(time.Date(2026, 10, 31, 8, 30, 0, 0, time.UTC))},
		{name: "day first", raw: "31/10/2026", wantErr: true},
		{name: "words", raw: "tomorrow", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDeadline(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDeadline) {
					t.Fatalf("err = %v, want ErrInvalidDeadline", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDeadline(%q): %v", tt.raw, err)
			}
			switch {
			case tt.want == nil && got != nil:
				t.Fatalf("got %v, want nil", got)
			case tt.want != nil && (got == nil || !got.Equal(*tt.want)):
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	before := now.Add(-time.Second)

	tests := []struct {
		name string
		task Task
		want bool
	}{
		{"no deadline", Task{Status: StatusTodo}, false},
		{"past and open", Task{Status: StatusDoing, Deadline: &before}, true},
		{"past but done", Task{Status: StatusDone, Deadline: &before}, false},
		{"deadline equals now", Task{Status: StatusTodo, Deadline: &now}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.task.IsOverdue(now); got != tt.want {
				t.Fatalf("IsOverdue = %v, want %v", got, tt.want)
			}
		})
	}
}

func ptr(t time.Time) *time.Time { return &t }
