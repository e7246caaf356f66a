package handlers

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"task_tracker/internal/domain"
	"task_tracker/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a backing service is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

var _ Pinger = (domain.Store)(nil)

// HealthHandler serves the probes. The task store decides readiness; a
// degraded rate limiter is reported but does not take the service out of
// rotation because the limiters fail open.
type HealthHandler struct {
	store     Pinger
	limiter   func(ctx context.Context) string
	startTime time.Time
	version   string
}

func NewHealthHandler(store Pinger, version string) *HealthHandler {
	return &HealthHandler{
		store:     store,
		limiter:   middleware.LimiterStatus,
		startTime: time.Now(),
		version:   version,
	}
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version,omitempty"`
	Uptime    string            `json:"uptime,omitempty"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Liveness only proves the process answers
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness checks the task store and the rate limiter backend.
// Status is "healthy", "degraded" (limiter unreachable) or "unhealthy"
// (store unreachable, 503).
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	resp := HealthResponse{
		Status:  "healthy",
		Version: h.version,
		Checks:  make(map[string]string, 3),
	}
	code := http.StatusOK

	if err := h.store.Ping(ctx); err != nil {
		resp.Checks["task_store"] = "unhealthy: " + err.Error()
		resp.Status, code = "unhealthy", http.StatusServiceUnavailable
	} else {
		resp.Checks["task_store"] = "healthy"
	}

	limiter := h.limiter(ctx)
	resp.Checks["rate_limiter"] = limiter
	if limiter == middleware.LimiterUnreachable && code == http.StatusOK {
		resp.Status = "degraded"
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	resp.Checks["memory_alloc_mb"] = fmt.Sprintf("%.2f", float64(m.Alloc)/1024/1024)

	resp.Uptime = time.Since(h.startTime).Round(time.Second).String()
	resp.Timestamp = time.Now().UTC().Format(time.RFC3339)
	c.JSON(code, resp)
}

// Health is the load balancer check: task store reachability only
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  "task store unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": h.version,
	})
}
