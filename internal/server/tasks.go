package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"todolist/internal/models"
)

var errTaskNotInProject = errors.New("task not found in this project")

type taskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Deadline    string `json:"deadline"`
}

type statusRequest struct {
	Status string `json:"status"`
}

// handleListTasks fetches tasks for a project.
func (s *Server) handleListTasks(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}

	tasks, err := s.tasks.ListTasks(c.Request.Context(), projectID)
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"tasks": tasks})
}

// handleCreateTask inserts a new task into a project.
func (s *Server) handleCreateTask(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	deadline, err := models.ParseDeadline(req.Deadline)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	task, err := s.tasks.AddTask(c.Request.Context(), projectID, req.Title, req.Description, deadline)
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"task": task})
}

// handleGetTask returns a single task.
func (s *Server) handleGetTask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	task, err := s.tasks.GetTask(c.Request.Context(), id)
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"task": task})
}

// handleUpdateTaskStatus moves a task to another status.
func (s *Server) handleUpdateTaskStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	s.changeStatus(c, id)
}

// handleDeleteTask removes a task completely.
func (s *Server) handleDeleteTask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if _, err := s.tasks.DeleteTask(c.Request.Context(), id); err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"status": "deleted"})
}

// handleGetProjectTask returns a task after checking it belongs to the project.
func (s *Server) handleGetProjectTask(c *gin.Context) {
	task, ok := s.projectTask(c)
	if !ok {
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"task": task})
}

// handleUpdateProjectTaskStatus changes status of a task scoped to a project.
func (s *Server) handleUpdateProjectTaskStatus(c *gin.Context) {
	task, ok := s.projectTask(c)
	if !ok {
		return
	}
	s.changeStatus(c, task.ID)
}

// handleDeleteProjectTask deletes a task scoped to a project.
func (s *Server) handleDeleteProjectTask(c *gin.Context) {
	task, ok := s.projectTask(c)
	if !ok {
		return
	}
	if _, err := s.tasks.DeleteTask(c.Request.Context(), task.ID); err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"status": "deleted"})
}

func (s *Server) changeStatus(c *gin.Context, id int64) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	task, err := s.tasks.ChangeTaskStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"task": task})
}

// projectTask loads the task named by :task_id and verifies it sits in :id.
func (s *Server) projectTask(c *gin.Context) (models.Task, bool) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return models.Task{}, false
	}
	taskID, ok := parseID(c, "task_id")
	if !ok {
		return models.Task{}, false
	}

	task, err := s.tasks.GetTask(c.Request.Context(), taskID)
	if err != nil {
		s.respondServiceError(c, err)
		return models.Task{}, false
	}
	if task.ProjectID != projectID {
		s.respondError(c, http.StatusNotFound, errTaskNotInProject)
		return models.Task{}, false
	}
	return task, true
}
