package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"todolist/internal/config"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, config.EnvProd).Debug("hidden")
	NewLogger(&buf, config.EnvProd).Info("shown", slog.Int("n", 1))

	line := strings.TrimSpace(buf.String())
	if strings.Contains(line, "hidden") {
		t.Fatalf("prod logger emitted debug: %s", line)
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("prod logger must write JSON, got %q: %v", line, err)
	}
	if entry["msg"] != "shown" {
		t.Fatalf("msg = %v", entry["msg"])
	}

	buf.Reset()
	NewLogger(&buf, config.EnvLocal).Debug("visible")
	if !strings.Contains(buf.String(), "msg=visible") {
		t.Fatalf("local logger should be text at debug level, got %q", buf.String())
	}
}

func TestOpenStore(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	tests := []struct {
		name    string
		cfg     config.DatabaseConfig
		wantErr bool
	}{
		{"memory", config.DatabaseConfig{Driver: config.DriverMemory}, false},
		{"sqlite", config.DatabaseConfig{Driver: config.DriverSQLite, URL: filepath.Join(t.TempDir(), "todo.db")}, false},
		{"sqlite empty path", config.DatabaseConfig{Driver: config.DriverSQLite}, true},
		{"postgres empty url", config.DatabaseConfig{Driver: config.DriverPostgres}, true},
		{"unknown", config.DatabaseConfig{Driver: "mongo"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := OpenStore(ctx, tt.cfg, logger)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if store != nil {
					t.Fatalf("store = %v, want nil interface", store)
				}
				return
			}
			if err != nil {
				t.Fatalf("OpenStore: %v", err)
			}
			defer store.Close()
			if err := store.Ping(ctx); err != nil {
				t.Fatalf("Ping: %v", err)
			}
		})
	}
}

func TestNewServicesUsesLimits(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := OpenStore(context.Background(), config.DatabaseConfig{Driver: config.DriverMemory}, logger)
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	defer store.Close()

	svc := NewServices(store, config.LimitsConfig{MaxProjects: 1, MaxTasksPerProject: 1}, logger)
	ctx := context.Background()

	p, err := svc.Projects.CreateProject(ctx, "P", "d")
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if _, err := svc.Projects.CreateProject(ctx, "Q", "d"); err == nil {
		t.Fatal("project limit not applied")
	}
	if _, err := svc.Tasks.AddTask(ctx, p.ID, "T", "d", nil); err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if _, err := svc.Tasks.AddTask(ctx, p.ID, "U", "d", nil); err == nil {
		t.Fatal("task limit not applied")
	}
}
