package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListLogs returns all of the caller's audit entries, newest first
func (h *Handler) ListLogs(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		failure(c, http.StatusUnauthorized, "user not found")
		return
	}

	logs, err := h.Audit.ListByUser(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, logs)
}

// ListTaskLogs returns the caller's audit entries for one task, which may
// already be deleted
func (h *Handler) ListTaskLogs(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		failure(c, http.StatusUnauthorized, "user not found")
		return
	}
	taskID, ok := pathID(c, "taskId")
	if !ok {
		failure(c, http.StatusBadRequest, "invalid task id")
		return
	}

	logs, err := h.Audit.ListByTask(c.Request.Context(), userID, taskID)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, logs)
}

func (h *Handler) DeleteLog(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		failure(c, http.StatusUnauthorized, "user not found")
		return
	}
	logID, ok := pathID(c, "id")
	if !ok {
		failure(c, http.StatusBadRequest, "invalid log id")
		return
	}

	if err := h.Audit.DeleteEntry(c.Request.Context(), userID, logID); err != nil {
		fail(c, err)
		return
	}
	success(c, nil)
}

func (h *Handler) Statistics(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		failure(c, http.StatusUnauthorized, "user not found")
		return
	}

	snap, err := h.Stats.GetStatistics(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, snap)
}
