package handlers

import (
	"strconv"

	"task_tracker/internal/domain"
	"task_tracker/internal/http/middleware"
	"task_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Tasks *service.TaskService
	Audit *service.AuditService
	Stats *service.StatisticsService
}

func NewHandler(store domain.Store) *Handler {
	audit := service.NewAuditService(store)
	return &Handler{
		Tasks: service.NewTaskService(store, audit),
		Audit: audit,
		Stats: service.NewStatisticsService(store),
	}
}

// getUserID reads the user id middleware.JWT stored in the context
func getUserID(c *gin.Context) (int64, bool) {
	uidVal, ok := c.Get(middleware.UserIDKey)
	if !ok {
		return 0, false
	}
	switch v := uidVal.(type) {
	case int64:
		return v, v > 0
	case float64:
		return int64(v), v > 0
	default:
		return 0, false
	}
}

// pathID parses a positive integer path parameter
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
