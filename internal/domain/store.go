package domain

import (
	"context"
	"time"
)

// TaskStore persists tasks. Every lookup is scoped to the owning user.
type TaskStore interface {
	Create(ctx context.Context, t *Task) error
	// GetByID returns ErrTaskNotFound when the task is absent or owned by
	// another user.
	GetByID(ctx context.Context, userID, taskID int64) (*Task, error)
	ListByUser(ctx context.Context, userID int64) ([]*Task, error)
	ListChildren(ctx context.Context, userID, parentID int64) ([]*Task, error)
	Update(ctx context.Context, t *Task) (bool, error)
	SetStatus(ctx context.Context, userID, taskID int64, status TaskStatus, updatedAt time.Time) (bool, error)
	Delete(ctx context.Context, userID, taskID int64) (bool, error)
	CountByStatus(ctx context.Context, userID int64) (map[TaskStatus]int, error)
}

// AuditStore persists audit log entries.
type AuditStore interface {
	Create(ctx context.Context, log *AuditLog) error
	ListByUser(ctx context.Context, userID int64) ([]*AuditLog, error)
	ListByTask(ctx context.Context, userID, taskID int64) ([]*AuditLog, error)
	Delete(ctx context.Context, userID, logID int64) (bool, error)
	CountByOperation(ctx context.Context, userID int64) (map[string]int, error)
	// CountByDay groups entries created at or after since by UTC day.
	// An empty operation counts every operation.
	CountByDay(ctx context.Context, userID int64, since time.Time, operation string) (map[string]int, error)
}

// Store groups the task and audit stores and runs units of work atomically.
type Store interface {
	Tasks() TaskStore
	Audit() AuditStore
	// WithTx runs fn against a transactional view of the store. The
	// transaction commits when fn returns nil and rolls back otherwise.
	WithTx(ctx context.Context, fn func(tx Store) error) error
	// Snapshot runs fn against a read-only view in which every read sees
	// the same committed state.
	Snapshot(ctx context.Context, fn func(tx Store) error) error
	Ping(ctx context.Context) error
}
