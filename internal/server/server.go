package server

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"todolist/internal/models"
)

// ProjectService is the project API consumed by the handlers.
type ProjectService interface {
	CreateProject(ctx context.Context, name, description string) (models.Project, error)
	ListProjects(ctx context.Context) ([]models.Project, error)
	GetProject(ctx context.Context, id int64) (models.Project, error)
	DeleteProject(ctx context.Context, id int64) (models.Project, error)
}

// TaskService is the task API consumed by the handlers.
type TaskService interface {
	AddTask(ctx context.Context, projectID int64, title, description string, deadline *time.Time) (models.Task, error)
	ListTasks(ctx context.Context, projectID int64) ([]models.Task, error)
	GetTask(ctx context.Context, id int64) (models.Task, error)
	ChangeTaskStatus(ctx context.Context, id int64, status string) (models.Task, error)
	DeleteTask(ctx context.Context, id int64) (models.Task, error)
}

// Pinger reports storage readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

const requestIDHeader = "X-Request-ID"

// Server provides HTTP handlers for projects and tasks.
type Server struct {
	engine   *gin.Engine
	projects ProjectService
	tasks    TaskService
	pinger   Pinger
	logger   *slog.Logger
}

// New constructs the HTTP server with routes and middleware configured.
func New(projects ProjectService, tasks TaskService, pinger Pinger, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestID())
	router.Use(gin.LoggerWithWriter(gin.DefaultWriter, "/api/healthz", "/api/readyz"))

	srv := &Server{
		engine:   router,
		projects: projects,
		tasks:    tasks,
		pinger:   pinger,
		logger:   logger,
	}

	srv.registerRoutes()
	return srv
}

// Engine exposes the underlying Gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// registerRoutes wires all API handlers together.
func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")
	{
		api.GET("/healthz", s.handleHealth)
		api.GET("/readyz", s.handleReady)

		projects := api.Group("/projects")
		{
			projects.GET("", s.handleListProjects)
			projects.POST("", s.handleCreateProject)
			projects.GET(":id", s.handleGetProject)
			projects.DELETE(":id", s.handleDeleteProject)
			projects.GET(":id/tasks", s.handleListTasks)
			projects.POST(":id/tasks", s.handleCreateTask)
			projects.GET(":id/tasks/:task_id", s.handleGetProjectTask)
			projects.PATCH(":id/tasks/:task_id/status", s.handleUpdateProjectTaskStatus)
			projects.DELETE(":id/tasks/:task_id", s.handleDeleteProjectTask)
		}

		tasks := api.Group("/tasks")
		{
			tasks.GET(":id", s.handleGetTask)
			tasks.PATCH(":id/status", s.handleUpdateTaskStatus)
			tasks.DELETE(":id", s.handleDeleteTask)
		}
	}

	s.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "endpoint not found"})
	})
}

// handleHealth provides a basic liveness endpoint.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleReady reports whether the store answers.
func (s *Server) handleReady(c *gin.Context) {
	if s.pinger != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := s.pinger.Ping(ctx); err != nil {
			s.logger.Warn("store not ready", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// requestID tags every request with an id, reusing the caller's when present.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDHeader, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// parseID converts a path parameter to int64 with error handling.
func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid identifier"})
		return 0, false
	}
	return id, true
}

// respondSuccess writes payload as JSON.
func respondSuccess(c *gin.Context, status int, payload any) {
	if payload == nil {
		c.Status(status)
		return
	}
	c.JSON(status, payload)
}
