package service

import (
	"context"
	"testing"
	"time"

	"task_tracker/internal/domain"
	"task_tracker/internal/testutil"

	"github.com/stretchr/testify/require"
)

// stepClock advances one minute on every call so rows never share a timestamp.
type stepClock struct {
	t time.Time
}

func (c *stepClock) Now() time.Time {
	c.t = c.t.Add(time.Minute)
	return c.t
}

type fixture struct {
	store *testutil.MemStore
	tasks *TaskService
	audit *AuditService
	stats *StatisticsService
	clock *stepClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testutil.NewMemStore()
	clock := &stepClock{t: time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)}

	audit := NewAuditService(store)
	audit.now = clock.Now
	tasks := NewTaskService(store, audit)
	tasks.now = clock.Now
	stats := NewStatisticsService(store)
	stats.now = clock.Now

	return &fixture{store: store, tasks: tasks, audit: audit, stats: stats, clock: clock}
}

func (f *fixture) create(t *testing.T, userID int64, parentID *int64, content string) *domain.Task {
	t.Helper()
	task, err := f.tasks.CreateTask(context.Background(), userID, TaskInput{
		ParentID:  parentID,
		Content:   content,
		StartTime: time.Date(2026, 10, 20, 9, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 10, 20, 17, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return task
}

func (f *fixture) logs(t *testing.T, userID int64) []*domain.AuditLog {
	t.Helper()
	logs, err := f.audit.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	return logs
}

func countOps(logs []*domain.AuditLog, op string) int {
	n := 0
	for _, l := range logs {
		if l.Operation == op {
			n++
		}
	}
	return n
}
