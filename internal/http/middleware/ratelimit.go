package middleware

import (
	"net/http"
	"sync"
	"time"

	"task_tracker/internal/http/envelope"

	"github.com/gin-gonic/gin"
)

const maxTrackedClients = 10000

type clientInfo struct {
	start time.Time
	count int
}

// SimpleRateLimit is the in-process fixed-window limiter used when Redis is
// not configured. Counters are per IP and per process.
func SimpleRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	var mu sync.Mutex
	clients := make(map[string]*clientInfo)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		mu.Lock()
		if len(clients) > maxTrackedClients {
			for k, v := range clients {
				if now.Sub(v.start) > window {
					delete(clients, k)
				}
			}
		}
		ci, ok := clients[ip]
		if !ok || now.Sub(ci.start) > window {
			ci = &clientInfo{start: now}
			clients[ip] = ci
		}
		ci.count++
		count := ci.count
		mu.Unlock()

		if count > maxRequests {
			RLBlocked.WithLabelValues(c.FullPath()).Inc()
			envelope.AbortWithData(c, http.StatusTooManyRequests, "rate limit exceeded",
				gin.H{"retry_after": int(window.Seconds())})
			return
		}

		RLRequests.WithLabelValues(c.FullPath()).Inc()
		c.Next()
	}
}
