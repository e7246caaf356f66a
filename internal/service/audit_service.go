package service

import (
	"context"
	"errors"
	"time"

	"task_tracker/internal/domain"
	"task_tracker/internal/logger"
)

// AuditService handles audit logging
type AuditService struct {
	store domain.Store
	now   func() time.Time
}

// NewAuditService creates a new audit service
func NewAuditService(store domain.Store) *AuditService {
	return &AuditService{
		store: store,
		now:   time.Now,
	}
}

// Append writes an entry through the given audit store. Mutations pass their
// transactional store so the entry commits or rolls back with them.
func (s *AuditService) Append(ctx context.Context, audit domain.AuditStore, userID int64, taskID *int64, operation, detail string) error {
	log := &domain.AuditLog{
		UserID:    userID,
		TaskID:    taskID,
		Operation: operation,
		Detail:    detail,
		CreatedAt: s.now(),
	}
	return audit.Create(ctx, log)
}

// Log creates a new audit log entry outside any transaction. A failed write
// is reported and counted but never returned to the caller.
func (s *AuditService) Log(ctx context.Context, userID int64, taskID *int64, operation, detail string) {
	if err := s.Append(ctx, s.store.Audit(), userID, taskID, operation, detail); err != nil {
		AuditWriteFailures.Inc()
		logger.WithContext(ctx).Warn("failed to create audit log", "error", err, "operation", operation, "user_id", userID)
	}
}

// ListByUser returns audit logs for a user, newest first
func (s *AuditService) ListByUser(ctx context.Context, userID int64) ([]*domain.AuditLog, error) {
	logs, err := s.store.Audit().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return nonNil(logs), nil
}

// ListByTask returns the user's audit logs for one task, newest first. It
// works for tasks that have since been deleted.
func (s *AuditService) ListByTask(ctx context.Context, userID, taskID int64) ([]*domain.AuditLog, error) {
	logs, err := s.store.Audit().ListByTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	return nonNil(logs), nil
}

// DeleteEntry removes one of the user's log entries. Tasks are not touched.
func (s *AuditService) DeleteEntry(ctx context.Context, userID, logID int64) (err error) {
	defer func() { observe("delete_log", err) }()

	ok, err := s.store.Audit().Delete(ctx, userID, logID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrLogNotFound
	}
	return nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// IsClientError reports whether err is caused by the request rather than by
// the server.
func IsClientError(err error) bool {
	return errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, domain.ErrTaskNotFound) ||
		errors.Is(err, domain.ErrLogNotFound)
}
