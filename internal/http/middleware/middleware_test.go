package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"task_tracker/internal/http/envelope"
	"task_tracker/internal/logger"
	"task_tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestIDGeneratedAndPropagated(t *testing.T) {
	var seen string
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		seen = logger.RequestID(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get(RequestIDHeader))
	assert.Len(t, seen, 36)
}

func TestRequestIDReusesCallerValue(t *testing.T) {
	var seen string
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		seen = logger.RequestID(c.Request.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestJWTMiddleware(t *testing.T) {
	service.InitJWT("middleware-secret")
	token, err := service.GenerateJWT(77)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/me", RequestID(), JWT(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetInt64(UserIDKey)})
	})

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"valid", "Bearer " + token, http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"garbage", "Bearer nope", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Code)
			if tc.want == http.StatusOK {
				assert.JSONEq(t, `{"user_id":77}`, w.Body.String())
				return
			}
			env := decodeEnvelope(t, w)
			assert.Equal(t, http.StatusUnauthorized, env.Code)
			assert.Equal(t, w.Header().Get(RequestIDHeader), env.ID)
			assert.NotEmpty(t, env.Message)
		})
	}
}

func TestSimpleRateLimit(t *testing.T) {
	r := gin.New()
	r.GET("/", SimpleRateLimit(2, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestSimpleRateLimitRejectsWithEnvelope(t *testing.T) {
	r := gin.New()
	r.GET("/", RequestID(), SimpleRateLimit(1, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	var w *httptest.ResponseRecorder
	for i := 0; i < 2; i++ {
		w = httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	}

	require.Equal(t, http.StatusTooManyRequests, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, http.StatusTooManyRequests, env.Code)
	assert.Equal(t, "rate limit exceeded", env.Message)
	assert.Equal(t, w.Header().Get(RequestIDHeader), env.ID)
	assert.Equal(t, map[string]any{"retry_after": float64(60)}, env.Data)
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope.Response {
	t.Helper()
	var env envelope.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}
