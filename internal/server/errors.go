package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"todolist/internal/services"
)

var errInvalidRequestBody = errors.New("invalid request body")

// statusFor maps a service error to an HTTP status.
func statusFor(err error) int {
	var svcErr *services.Error
	if !errors.As(err, &svcErr) {
		return http.StatusInternalServerError
	}
	switch svcErr.Kind {
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindValidation, services.KindCapacity, services.KindConflict:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs the error and returns a JSON payload. Infrastructure
// failures are logged with details and reported generically.
func (s *Server) respondError(c *gin.Context, status int, err error) {
	attrs := []any{
		slog.String("path", c.FullPath()),
		slog.String("request_id", c.GetString(requestIDHeader)),
		slog.String("error", err.Error()),
	}

	message := err.Error()
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", attrs...)
		message = http.StatusText(status)
	} else {
		s.logger.Debug("request rejected", attrs...)
	}
	c.JSON(status, gin.H{"error": message})
}

// respondServiceError picks the status from err's kind.
func (s *Server) respondServiceError(c *gin.Context, err error) {
	s.respondError(c, statusFor(err), err)
}
