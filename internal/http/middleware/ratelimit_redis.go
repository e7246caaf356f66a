package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"task_tracker/internal/http/envelope"
	"task_tracker/internal/logger"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

// InitRedisRateLimiter initializes a shared Redis client used by the middleware.
// Provide addr (host:port), password and db index. If connection fails, redisClient remains nil
// and the Redis limiters act as fail-open. It reports whether Redis is in use.
func InitRedisRateLimiter(addr, password string, db int) bool {
	if addr == "" {
		return false
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, rate limiting disabled", "addr", addr, "error", err)
		_ = client.Close()
		return false
	}
	redisClient = client
	return true
}

// RedisRateLimit implements a simple fixed-window rate limiter per client IP.
// key format: rl:<window_seconds>:<ip>
func RedisRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "rl:" + strconv.FormatInt(int64(window.Seconds()), 10) + ":" + c.ClientIP()
		fixedWindow(c, key, c.FullPath(), maxRequests, window)
	}
}

// UserRateLimit limits requests per authenticated user, so it must run after
// JWT. key format: url:<window_seconds>:<user_id>
func UserRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetInt64(UserIDKey)
		if userID == 0 {
			envelope.Abort(c, http.StatusUnauthorized, "unauthorized")
			return
		}
		key := "url:" + strconv.FormatInt(int64(window.Seconds()), 10) + ":" + strconv.FormatInt(userID, 10)
		fixedWindow(c, key, "user:"+c.FullPath(), maxRequests, window)
	}
}

func fixedWindow(c *gin.Context, key, label string, maxRequests int, window time.Duration) {
	if redisClient == nil {
		// fallback to allowing requests if Redis not configured
		c.Next()
		return
	}

	ctx := c.Request.Context()
	val, err := redisClient.Incr(ctx, key).Result()
	if err != nil {
		// on Redis error, fail-open (allow) but set header
		c.Header("X-RateLimit-Error", "redis-error")
		c.Next()
		return
	}

	if val == 1 {
		// a counter without TTL would block the client forever
		if err := redisClient.Expire(ctx, key, window).Err(); err != nil {
			logger.WithContext(ctx).Warn("rate limit expire failed", "key", key, "error", err)
			_ = redisClient.Del(ctx, key).Err()
			c.Header("X-RateLimit-Error", "redis-error")
			c.Next()
			return
		}
	}

	c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
	c.Header("X-RateLimit-Remaining", strconv.FormatInt(max(0, int64(maxRequests)-val), 10))

	if val > int64(maxRequests) {
		repairTTL(ctx, key, window)
		RLBlocked.WithLabelValues(label).Inc()
		envelope.AbortWithData(c, http.StatusTooManyRequests, "rate limit exceeded",
			gin.H{"retry_after": int(window.Seconds())})
		return
	}

	RLRequests.WithLabelValues(label).Inc()
	c.Next()
}

// repairTTL re-arms the window on a blocked key that has lost its expiry,
// e.g. when the EXPIRE after the first INCR never reached Redis.
func repairTTL(ctx context.Context, key string, window time.Duration) {
	ttl, err := redisClient.TTL(ctx, key).Result()
	if err != nil || ttl >= 0 {
		return
	}
	if err := redisClient.Expire(ctx, key, window).Err(); err != nil {
		logger.WithContext(ctx).Warn("rate limit ttl repair failed", "key", key, "error", err)
	}
}

// Rate limiter backends as reported by LimiterStatus
const (
	LimiterRedis       = "redis"
	LimiterInProcess   = "in-process"
	LimiterUnreachable = "redis-unreachable"
)

// LimiterStatus names the backend the /api limiters currently run on.
// Unreachable Redis means requests pass unlimited.
func LimiterStatus(ctx context.Context) string {
	if redisClient == nil {
		return LimiterInProcess
	}
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return LimiterUnreachable
	}
	return LimiterRedis
}
