package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type projectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// handleListProjects returns all available projects.
func (s *Server) handleListProjects(c *gin.Context) {
	projects, err := s.projects.ListProjects(c.Request.Context())
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"projects": projects})
}

// handleCreateProject creates a new project entity.
func (s *Server) handleCreateProject(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	project, err := s.projects.CreateProject(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"project": project})
}

// handleGetProject returns a single project.
func (s *Server) handleGetProject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	project, err := s.projects.GetProject(c.Request.Context(), id)
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"project": project})
}

// handleDeleteProject removes a project and all related tasks.
func (s *Server) handleDeleteProject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if _, err := s.projects.DeleteProject(c.Request.Context(), id); err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"status": "deleted"})
}
