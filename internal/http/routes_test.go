package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"task_tracker/internal/config"
	"task_tracker/internal/domain"
	"task_tracker/internal/service"
	"task_tracker/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	ID      string          `json:"id"`
	Code    int             `json:"code"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

type apiClient struct {
	t      *testing.T
	router *gin.Engine
	token  string
}

func newTestAPI(t *testing.T) (*gin.Engine, *testutil.MemStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	service.InitJWT("routes-secret")

	store := testutil.NewMemStore()
	cfg := &config.Config{
		APIRateLimit:       1000,
		APIRateWindow:      time.Minute,
		MutationRateLimit:  1000,
		MutationRateWindow: time.Minute,
	}
	r := gin.New()
	RegisterRoutes(r, store, cfg, "test", false)
	return r, store
}

func (a *apiClient) do(method, path string, body any) (int, envelope) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w.Code, env
}

func clientFor(t *testing.T, r *gin.Engine, userID int64) *apiClient {
	t.Helper()
	token, err := service.GenerateJWT(userID)
	require.NoError(t, err)
	return &apiClient{t: t, router: r, token: token}
}

func taskBody(content string, parentID *int64) gin.H {
	start := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	return gin.H{
		"parent_id":  parentID,
		"content":    content,
		"start_time": start,
		"end_time":   start.Add(2 * time.Hour),
	}
}

func (a *apiClient) createTask(content string, parentID *int64) domain.Task {
	a.t.Helper()
	code, env := a.do(http.MethodPost, "/api/task/create", taskBody(content, parentID))
	require.Equal(a.t, http.StatusOK, code, env.Message)
	var task domain.Task
	require.NoError(a.t, json.Unmarshal(env.Data, &task))
	return task
}

func TestAPIRequiresToken(t *testing.T) {
	r, _ := newTestAPI(t)
	anon := &apiClient{t: t, router: r}

	code, _ := anon.do(http.MethodGet, "/api/task/list", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestTaskLifecycleOverHTTP(t *testing.T) {
	r, store := newTestAPI(t)
	alice := clientFor(t, r, 1)

	root := alice.createTask("plan release", nil)
	child := alice.createTask("write notes", &root.ID)
	assert.Equal(t, domain.TaskStatusInProgress, child.Status)
	require.NotNil(t, child.ParentID)
	assert.Equal(t, root.ID, *child.ParentID)

	code, env := alice.do(http.MethodPost, fmt.Sprintf("/api/task/complete/%d", child.ID), nil)
	require.Equal(t, http.StatusOK, code)
	assert.NotEmpty(t, env.ID)
	assert.Equal(t, http.StatusOK, env.Code)

	code, env = alice.do(http.MethodGet, "/api/task/list", nil)
	require.Equal(t, http.StatusOK, code)
	var forest []*domain.TaskNode
	require.NoError(t, json.Unmarshal(env.Data, &forest))
	require.Len(t, forest, 1)
	assert.Equal(t, root.ID, forest[0].ID)
	require.Len(t, forest[0].Children, 1)
	assert.Equal(t, domain.TaskStatusCompleted, forest[0].Children[0].Status)

	code, _ = alice.do(http.MethodDelete, fmt.Sprintf("/api/task/delete/%d", root.ID), nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 0, store.TaskCount())

	// entries outlive the deleted task
	code, env = alice.do(http.MethodGet, fmt.Sprintf("/api/task-log/list/%d", root.ID), nil)
	require.Equal(t, http.StatusOK, code)
	var logs []*domain.AuditLog
	require.NoError(t, json.Unmarshal(env.Data, &logs))
	require.Len(t, logs, 2)
	assert.Equal(t, domain.AuditOpDelete, logs[0].Operation)
	assert.Equal(t, "delete task: plan release (with 1 subtasks)", logs[0].Detail)
	assert.Equal(t, domain.AuditOpCreate, logs[1].Operation)
}

func TestErrorMapping(t *testing.T) {
	r, _ := newTestAPI(t)
	alice := clientFor(t, r, 1)
	bob := clientFor(t, r, 2)
	task := alice.createTask("private", nil)

	code, env := alice.do(http.MethodPost, "/api/task/create", taskBody("  ", nil))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, http.StatusBadRequest, env.Code)
	assert.Contains(t, env.Message, "content is required")

	missing := int64(9999)
	code, _ = alice.do(http.MethodPost, "/api/task/create", taskBody("orphan", &missing))
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = bob.do(http.MethodGet, fmt.Sprintf("/api/task/get/%d", task.ID), nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "task not found", env.Message)

	code, _ = bob.do(http.MethodDelete, fmt.Sprintf("/api/task/delete/%d", task.ID), nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = alice.do(http.MethodPost, "/api/task/update/abc", taskBody("x", nil))
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = alice.do(http.MethodDelete, "/api/task-log/delete/12345", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestVerifyOwnershipOverHTTP(t *testing.T) {
	r, _ := newTestAPI(t)
	alice := clientFor(t, r, 1)
	bob := clientFor(t, r, 2)
	task := alice.createTask("mine", nil)

	var owned struct {
		Owned bool `json:"owned"`
	}
	code, env := alice.do(http.MethodGet, fmt.Sprintf("/api/task/verify/%d", task.ID), nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &owned))
	assert.True(t, owned.Owned)

	code, env = bob.do(http.MethodGet, fmt.Sprintf("/api/task/verify/%d", task.ID), nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &owned))
	assert.False(t, owned.Owned)
}

func TestStatisticsOverHTTP(t *testing.T) {
	r, _ := newTestAPI(t)
	alice := clientFor(t, r, 1)
	a := alice.createTask("a", nil)
	alice.createTask("b", nil)
	code, _ := alice.do(http.MethodPost, fmt.Sprintf("/api/task/complete/%d", a.ID), nil)
	require.Equal(t, http.StatusOK, code)

	code, env := alice.do(http.MethodGet, "/api/task-log/statistics", nil)
	require.Equal(t, http.StatusOK, code)
	var snap domain.StatisticsSnapshot
	require.NoError(t, json.Unmarshal(env.Data, &snap))
	assert.Equal(t, 2, snap.TotalTasks)
	assert.Equal(t, 1, snap.CompletedTasks)
	assert.Equal(t, 1, snap.InProgressTasks)
	assert.Equal(t, 3, snap.TotalLogs)
	assert.Equal(t, 2, snap.OperationTypeStats[domain.AuditOpCreate])
	assert.Len(t, snap.DailyOperationStats, 7)
	assert.Len(t, snap.CompletionTrend, 7)
}

func TestHealthEndpoints(t *testing.T) {
	r, _ := newTestAPI(t)

	for _, path := range []string{"/health", "/healthz", "/readyz"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}
