package service

import (
	"context"
	"testing"

	"task_tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditListByUserNewestFirst(t *testing.T) {
	f := newFixture(t)
	task := f.create(t, alice, nil, "a")
	require.NoError(t, f.tasks.CompleteTask(context.Background(), alice, task.ID))
	f.create(t, bob, nil, "b")

	logs := f.logs(t, alice)
	require.Len(t, logs, 2)
	assert.Equal(t, domain.AuditOpComplete, logs[0].Operation)
	assert.Equal(t, domain.AuditOpCreate, logs[1].Operation)
	assert.True(t, logs[0].CreatedAt.After(logs[1].CreatedAt))
	for _, l := range logs {
		assert.Equal(t, alice, l.UserID)
	}
}

func TestAuditListByTaskOutlivesTask(t *testing.T) {
	f := newFixture(t)
	task := f.create(t, alice, nil, "short lived")
	other := f.create(t, alice, nil, "other")
	require.NoError(t, f.tasks.UpdateTask(context.Background(), alice, task.ID, TaskInput{
		Content:   "renamed",
		StartTime: task.StartTime,
		EndTime:   task.EndTime,
	}))
	require.NoError(t, f.tasks.DeleteTask(context.Background(), alice, task.ID))

	logs, err := f.audit.ListByTask(context.Background(), alice, task.ID)
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, domain.AuditOpDelete, logs[0].Operation)
	assert.Equal(t, domain.AuditOpUpdate, logs[1].Operation)
	assert.Equal(t, domain.AuditOpCreate, logs[2].Operation)
	for _, l := range logs {
		assert.NotEqual(t, other.ID, *l.TaskID)
	}
}

func TestAuditListByTaskScopedToUser(t *testing.T) {
	f := newFixture(t)
	task := f.create(t, bob, nil, "bob")

	logs, err := f.audit.ListByTask(context.Background(), alice, task.ID)
	require.NoError(t, err)
	assert.NotNil(t, logs)
	assert.Empty(t, logs)
}

func TestAuditDeleteEntry(t *testing.T) {
	f := newFixture(t)
	task := f.create(t, alice, nil, "a")
	entry := f.logs(t, alice)[0]

	err := f.audit.DeleteEntry(context.Background(), bob, entry.ID)
	require.ErrorIs(t, err, domain.ErrLogNotFound)

	require.NoError(t, f.audit.DeleteEntry(context.Background(), alice, entry.ID))
	assert.Empty(t, f.logs(t, alice))

	err = f.audit.DeleteEntry(context.Background(), alice, entry.ID)
	assert.ErrorIs(t, err, domain.ErrLogNotFound)

	ok, err := f.tasks.VerifyOwnership(context.Background(), alice, task.ID)
	require.NoError(t, err)
	assert.True(t, ok, "deleting a log entry must not touch the task")
}
