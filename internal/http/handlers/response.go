package handlers

import (
	"errors"
	"net/http"

	"task_tracker/internal/domain"
	"task_tracker/internal/http/envelope"
	"task_tracker/internal/logger"
	"task_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// Response is the envelope every API endpoint answers with
type Response = envelope.Response

func success(c *gin.Context, data any) {
	envelope.OK(c, data)
}

func failure(c *gin.Context, code int, message string) {
	envelope.Abort(c, code, message)
}

// fail maps a service error to a response. Client errors keep their message;
// anything else is logged and hidden behind a generic 500.
func fail(c *gin.Context, err error) {
	if !service.IsClientError(err) {
		logger.WithContext(c.Request.Context()).Error("request failed", "path", c.FullPath(), "error", err)
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		failure(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrTaskNotFound):
		failure(c, http.StatusNotFound, "task not found")
	case errors.Is(err, domain.ErrLogNotFound):
		failure(c, http.StatusNotFound, "log entry not found")
	default:
		failure(c, http.StatusInternalServerError, "internal server error")
	}
}
