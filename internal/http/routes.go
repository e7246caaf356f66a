package http

import (
	"task_tracker/internal/config"
	"task_tracker/internal/domain"
	"task_tracker/internal/http/handlers"
	"task_tracker/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes mounts the service endpoints and the task API on r.
// redisEnabled selects the shared Redis limiter over the in-process one.
func RegisterRoutes(r *gin.Engine, store domain.Store, cfg *config.Config, version string, redisEnabled bool) *handlers.Handler {
	h := handlers.NewHandler(store)
	healthHandler := handlers.NewHealthHandler(store, version)

	r.Use(middleware.RequestID(), middleware.Metrics())

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	if redisEnabled {
		api.Use(middleware.RedisRateLimit(cfg.APIRateLimit, cfg.APIRateWindow))
	} else {
		api.Use(middleware.SimpleRateLimit(cfg.APIRateLimit, cfg.APIRateWindow))
	}
	api.Use(middleware.JWT())

	// mutations are additionally limited per user
	mutRL := middleware.UserRateLimit(cfg.MutationRateLimit, cfg.MutationRateWindow)
	registerAPIRoutes(api, h, mutRL)

	return h
}

func registerAPIRoutes(api *gin.RouterGroup, h *handlers.Handler, mutRL gin.HandlerFunc) {
	task := api.Group("/task")
	{
		task.POST("/create", mutRL, h.CreateTask)
		task.POST("/update/:id", mutRL, h.UpdateTask)
		task.POST("/complete/:id", mutRL, h.CompleteTask)
		task.DELETE("/delete/:id", mutRL, h.DeleteTask)
		task.GET("/list", h.ListTaskTree)
		task.GET("/all", h.ListTasks)
		task.GET("/get/:id", h.GetTask)
		task.GET("/subtasks/:parentId", h.ListSubtasks)
		task.GET("/verify/:id", h.VerifyOwnership)
	}

	taskLog := api.Group("/task-log")
	{
		taskLog.GET("/list", h.ListLogs)
		taskLog.GET("/list/:taskId", h.ListTaskLogs)
		taskLog.DELETE("/delete/:id", mutRL, h.DeleteLog)
		taskLog.GET("/statistics", h.Statistics)
	}
}
