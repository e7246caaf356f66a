package handlers

import (
	"net/http"
	"time"

	"task_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

type taskRequest struct {
	ParentID  *int64    `json:"parent_id"`
	Content   string    `json:"content"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

func (r taskRequest) input() service.TaskInput {
	return service.TaskInput{
		ParentID:  r.ParentID,
		Content:   r.Content,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
	}
}

func (h *Handler) CreateTask(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		failure(c, http.StatusUnauthorized, "user not found")
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failure(c, http.StatusBadRequest, "bad request")
		return
	}

	task, err := h.Tasks.CreateTask(c.Request.Context(), userID, req.input())
	if err != nil {
		fail(c, err)
		return
	}
	success(c, task)
}

func (h *Handler) UpdateTask(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		failure(c, http.StatusUnauthorized, "user not found")
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		failure(c, http.StatusBadRequest, "invalid task id")
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failure(c, http.StatusBadRequest, "bad request")
		return
	}

	if err := h.Tasks.UpdateTask(c.Request.Context(), userID, taskID, req.input()); err != nil {
		fail(c, err)
		return
	}
	success(c, nil)
}

func (h *Handler) CompleteTask(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		failure(c, http.StatusUnauthorized, "user not found")
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		failure(c, http.StatusBadRequest, "invalid task id")
		return
	}

	if err := h.Tasks.CompleteTask(c.Request.Context(), userID, taskID); err != nil {
		fail(c, err)
		return
	}
	success(c, nil)
}

func (h *Handler) DeleteTask(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		failure(c, http.StatusUnauthorized, "user not found")
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		failure(c, http.StatusBadRequest, "invalid task id")
		return
	}

	if err := h.Tasks.DeleteTask(c.Request.Context(), userID, taskID); err != nil {
		fail(c, err)
		return
	}
	success(c, nil)
}

// ListTaskTree returns the caller's task forest
func (h *Handler) ListTaskTree(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		failure(c, http.StatusUnauthorized, "user not found")
		return
	}

	forest, err := h.Tasks.ListTaskTree(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, forest)
}

// ListTasks returns the caller's tasks as a flat list
func (h *Handler) ListTasks(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		failure(c, http.StatusUnauthorized, "user not found")
		return
	}

	tasks, err := h.Tasks.ListTasks(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, tasks)
}

func (h *Handler) GetTask(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		failure(c, http.StatusUnauthorized, "user not found")
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		failure(c, http.StatusBadRequest, "invalid task id")
		return
	}

	task, err := h.Tasks.GetTask(c.Request.Context(), userID, taskID)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, task)
}

func (h *Handler) ListSubtasks(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		failure(c, http.StatusUnauthorized, "user not found")
		return
	}
	parentID, ok := pathID(c, "parentId")
	if !ok {
		failure(c, http.StatusBadRequest, "invalid task id")
		return
	}

	tasks, err := h.Tasks.ListSubtasks(c.Request.Context(), userID, parentID)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, tasks)
}

// VerifyOwnership answers {"owned": bool}; it never reports 404
func (h *Handler) VerifyOwnership(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		failure(c, http.StatusUnauthorized, "user not found")
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		failure(c, http.StatusBadRequest, "invalid task id")
		return
	}

	owned, err := h.Tasks.VerifyOwnership(c.Request.Context(), userID, taskID)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, gin.H{"owned": owned})
}
