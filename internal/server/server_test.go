package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"todolist/internal/models"
	"todolist/internal/services"
	"todolist/internal/storage/memory"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	gin.DefaultWriter = io.Discard
	os.Exit(m.Run())
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func newTestServer(t *testing.T, limits services.Limits) *Server {
	t.Helper()
	store := memory.New()
	t.Cleanup(func() { _ = store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	projects := services.NewProjectService(store, limits, services.WithLogger(logger))
	tasks := services.NewTaskService(store, limits, services.WithLogger(logger))
	return New(projects, tasks, store, logger)
}

func doRequest(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, rec)["error"]
}

func createProject(t *testing.T, srv *Server, body string) models.Project {
	t.Helper()
	rec := doRequest(t, srv, http.MethodPost, "/api/projects", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create project: status %d body %s", rec.Code, rec.Body.String())
	}
	return decode[struct {
		Project models.Project `json:"project"`
	}](t, rec).Project
}

func createTask(t *testing.T, srv *Server, projectPath, body string) models.Task {
	t.Helper()
	rec := doRequest(t, srv, http.MethodPost, projectPath+"/tasks", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create task: status %d body %s", rec.Code, rec.Body.String())
	}
	return decode[struct {
		Task models.Task `json:"task"`
	}](t, rec).Task
}

func TestHealthAndReady(t *testing.T) {
	srv := newTestServer(t, services.DefaultLimits())

	rec := doRequest(t, srv, http.MethodGet, "/api/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz status = %d", rec.Code)
	}
	if rec.Header().Get(requestIDHeader) == "" {
		t.Fatal("missing request id header")
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/readyz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("readyz status = %d", rec.Code)
	}
}

func TestReadyReportsStoreFailure(t *testing.T) {
	store := memory.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	down := pingFunc(func(context.Context) error { return errors.New("connection refused") })
	srv := New(
		services.NewProjectService(store, services.DefaultLimits()),
		services.NewTaskService(store, services.DefaultLimits()),
		down,
		logger,
	)

	rec := doRequest(t, srv, http.MethodGet, "/api/readyz", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("readyz status = %d, want 503", rec.Code)
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	srv := newTestServer(t, services.DefaultLimits())

	req := httptest.NewRequest(http.MethodGet, "/api/healthz", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)

	if got := rec.Header().Get(requestIDHeader); got != "abc-123" {
		t.Fatalf("request id = %q, want abc-123", got)
	}
}

func TestProjectEndpoints(t *testing.T) {
	srv := newTestServer(t, services.DefaultLimits())

	p := createProject(t, srv, `{"name":"P","description":"d"}`)
	if p.ID != 1 || p.Name != "P" {
		t.Fatalf("unexpected project %+v", p)
	}

	rec := doRequest(t, srv, http.MethodGet, "/api/projects", "")
	list := decode[struct {
		Projects []models.Project `json:"projects"`
	}](t, rec).Projects
	if rec.Code != http.StatusOK || len(list) != 1 || list[0].ID != p.ID {
		t.Fatalf("list: status %d body %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/projects/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get: status %d", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodDelete, "/api/projects/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: status %d", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/projects/1", "")
	if rec.Code != http.StatusNotFound || errorOf(t, rec) != "project not found" {
		t.Fatalf("get deleted: status %d body %s", rec.Code, rec.Body.String())
	}
}

func TestProjectErrors(t *testing.T) {
	srv := newTestServer(t, services.Limits{MaxProjects: 1})
	createProject(t, srv, `{"name":"P","description":"d"}`)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantError  string
	}{
		{"malformed body", http.MethodPost, "/api/projects", `{"name":`, http.StatusBadRequest, "invalid request body"},
		{"empty name", http.MethodPost, "/api/projects", `{"name":"","description":"d"}`, http.StatusBadRequest, "project name cannot be empty"},
		{"capacity", http.MethodPost, "/api/projects", `{"name":"Q","description":"d"}`, http.StatusBadRequest, "maximum number of projects (1) reached"},
		{"bad id", http.MethodGet, "/api/projects/abc", "", http.StatusBadRequest, "invalid identifier"},
		{"missing project delete", http.MethodDelete, "/api/projects/42", "", http.StatusNotFound, "project not found"},
		{"unknown route", http.MethodGet, "/api/nothing", "", http.StatusNotFound, "endpoint not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, srv, tt.method, tt.path, tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if got := errorOf(t, rec); got != tt.wantError {
				t.Fatalf("error = %q, want %q", got, tt.wantError)
			}
		})
	}
}

func TestDuplicateProjectName(t *testing.T) {
	srv := newTestServer(t, services.DefaultLimits())
	createProject(t, srv, `{"name":"P","description":"d"}`)

	rec := doRequest(t, srv, http.MethodPost, "/api/projects", `{"name":"P","description":"other"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if got := errorOf(t, rec); got != "a project with this name already exists" {
		t.Fatalf("error = %q", got)
	}
}

func TestTaskLifecycle(t *testing.T) {
	srv := newTestServer(t, services.DefaultLimits())
	p := createProject(t, srv, `{"name":"P","description":"d"}`)

	task := createTask(t, srv, "/api/projects/1", `{"title":"T","description":"d","deadline":"2026-10-20T10:00:00Z"}`)
	if task.ProjectID != p.ID || task.Status != models.StatusTodo || task.Deadline == nil {
		t.Fatalf("unexpected task %+v", task)
	}

	rec := doRequest(t, srv, http.MethodGet, "/api/projects/1/tasks", "")
	tasks := decode[struct {
		Tasks []models.Task `json:"tasks"`
	}](t, rec).Tasks
	if len(tasks) != 1 || tasks[0].ID != task.ID {
		t.Fatalf("list tasks: %s", rec.Body.String())
	}

	rec = doRequest(t, srv, http.MethodPatch, "/api/tasks/1/status", `{"status":"done"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status change: %d %s", rec.Code, rec.Body.String())
	}
	updated := decode[struct {
		Task models.Task `json:"task"`
	}](t, rec).Task
	if updated.Status != models.StatusDone || updated.ClosedAt == nil {
		t.Fatalf("task not closed: %+v", updated)
	}

	rec = doRequest(t, srv, http.MethodPatch, "/api/tasks/1/status", `{"status":"blocked"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid status: %d", rec.Code)
	}
	if got := errorOf(t, rec); got != `status "blocked" is invalid, valid statuses: todo, doing, done` {
		t.Fatalf("error = %q", got)
	}

	rec = doRequest(t, srv, http.MethodDelete, "/api/tasks/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: %d", rec.Code)
	}
	rec = doRequest(t, srv, http.MethodGet, "/api/tasks/1", "")
	if rec.Code != http.StatusNotFound || errorOf(t, rec) != "task not found" {
		t.Fatalf("get deleted: %d %s", rec.Code, rec.Body.String())
	}
}

func TestCreateTaskErrors(t *testing.T) {
	srv := newTestServer(t, services.Limits{MaxTasksPerProject: 1})
	createProject(t, srv, `{"name":"P","description":"d"}`)
	createTask(t, srv, "/api/projects/1", `{"title":"T","description":"d"}`)

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
		wantError  string
	}{
		{"unknown project", "/api/projects/9/tasks", `{"title":"T","description":"d"}`, http.StatusNotFound, "project not found"},
		{"capacity", "/api/projects/1/tasks", `{"title":"U","description":"d"}`, http.StatusBadRequest, "maximum number of tasks per project (1) reached"},
		{"bad deadline", "/api/projects/1/tasks", `{"title":"U","description":"d","deadline":"tomorrow"}`, http.StatusBadRequest, "deadline must be YYYY-MM-DD, YYYY-MM-DDTHH:MM:SS or RFC 3339"},
		{"unknown project with invalid input", "/api/projects/9/tasks", `{"title":"","description":""}`, http.StatusNotFound, "project not found"},
		{"empty title", "/api/projects/1/tasks", `{"title":"","description":"d"}`, http.StatusBadRequest, "task title cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, srv, http.MethodPost, tt.path, tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if got := errorOf(t, rec); got != tt.wantError {
				t.Fatalf("error = %q, want %q", got, tt.wantError)
			}
		})
	}
}

func TestCreateTaskDeadlineFormats(t *testing.T) {
	srv := newTestServer(t, services.DefaultLimits())
	createProject(t, srv, `{"name":"P","description":"d"}`)

	tests := []struct {
		name string
		body string
		want time.Time
	}{
		{"rfc3339", `{"title":"A","description":"d","deadline":"2025-12-31T22:59:59-01:00"}`, time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC)},
		{"no offset", `{"title":"B","description":"d","deadline":"2025-12-31T23:59:59"}`, time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC)},
		{"date only", `{"title":"C","description":"d","deadline":"2025-12-31"}`, time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := createTask(t, srv, "/api/projects/1", tt.body)
			if task.Deadline == nil || !task.Deadline.Equal(tt.want) {
				t.Fatalf("deadline = %v, want %v", task.Deadline, tt.want)
			}
		})
	}

	task := createTask(t, srv, "/api/projects/1", `{"title":"D","description":"d"}`)
	if task.Deadline != nil {
		t.Fatalf("missing deadline stored as %v", task.Deadline)
	}
}

func TestProjectScopedTaskRoutes(t *testing.T) {
	srv := newTestServer(t, services.DefaultLimits())
	createProject(t, srv, `{"name":"P","description":"d"}`)
	createProject(t, srv, `{"name":"Q","description":"d"}`)
	task := createTask(t, srv, "/api/projects/1", `{"title":"T","description":"d"}`)

	rec := doRequest(t, srv, http.MethodGet, "/api/projects/1/tasks/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("scoped get: %d", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/projects/2/tasks/1", "")
	if rec.Code != http.StatusNotFound || errorOf(t, rec) != "task not found in this project" {
		t.Fatalf("mismatched project: %d %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, srv, http.MethodPatch, "/api/projects/2/tasks/1/status", `{"status":"doing"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("mismatched status change: %d", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodPatch, "/api/projects/1/tasks/1/status", `{"status":"doing"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("scoped status change: %d %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, srv, http.MethodDelete, "/api/projects/2/tasks/1", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("mismatched delete: %d", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodDelete, "/api/projects/1/tasks/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("scoped delete: %d", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/projects/1/tasks/1", "")
	if rec.Code != http.StatusNotFound || errorOf(t, rec) != "task not found" {
		t.Fatalf("task %d should be gone: %d %s", task.ID, rec.Code, rec.Body.String())
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", services.ErrTaskNotFound, http.StatusNotFound},
		{"conflict", services.ErrDuplicateName, http.StatusBadRequest},
		{"infrastructure", errors.New("disk full"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusFor(tt.err); got != tt.want {
				t.Fatalf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
