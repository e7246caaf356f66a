package repository

import (
	"context"
	"fmt"
	"time"

	"task_tracker/internal/domain"

	"github.com/jackc/pgx/v5"
)

// AuditRepository handles audit log database operations
type AuditRepository struct {
	db Querier
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db Querier) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create inserts a new audit log entry
func (r *AuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO audit_logs (user_id, task_id, operation, detail, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, log.UserID, log.TaskID, log.Operation, log.Detail, log.CreatedAt).Scan(&log.ID)
	if err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}

// ListByUser returns audit logs for a user, newest first
func (r *AuditRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.AuditLog, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, task_id, operation, detail, created_at
		FROM audit_logs
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()

	return scanAuditLogs(rows)
}

// ListByTask returns the user's audit logs that reference taskID, newest first.
// The task itself may no longer exist.
func (r *AuditRepository) ListByTask(ctx context.Context, userID, taskID int64) ([]*domain.AuditLog, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, task_id, operation, detail, created_at
		FROM audit_logs
		WHERE user_id = $1 AND task_id = $2
		ORDER BY created_at DESC, id DESC
	`, userID, taskID)
	if err != nil {
		return nil, fmt.Errorf("list task audit logs: %w", err)
	}
	defer rows.Close()

	return scanAuditLogs(rows)
}

func (r *AuditRepository) Delete(ctx context.Context, userID, logID int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM audit_logs WHERE id = $1 AND user_id = $2`, logID, userID)
	if err != nil {
		return false, fmt.Errorf("delete audit log: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// CountByOperation groups the user's entries by operation tag
func (r *AuditRepository) CountByOperation(ctx context.Context, userID int64) (map[string]int, error) {
	rows, err := r.db.Query(ctx, `
		SELECT operation, COUNT(*) FROM audit_logs WHERE user_id = $1 GROUP BY operation
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("count audit logs by operation: %w", err)
	}
	defer rows.Close()

	return scanCounts(rows)
}

// CountByDay groups the user's entries since the given instant by UTC day
func (r *AuditRepository) CountByDay(ctx context.Context, userID int64, since time.Time, operation string) (map[string]int, error) {
	rows, err := r.db.Query(ctx, `
		SELECT to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day, COUNT(*)
		FROM audit_logs
		WHERE user_id = $1
		  AND created_at >= $2
		  AND ($3::text = '' OR operation = $3::text)
		GROUP BY day
	`, userID, since, operation)
	if err != nil {
		return nil, fmt.Errorf("count audit logs by day: %w", err)
	}
	defer rows.Close()

	return scanCounts(rows)
}

func scanAuditLogs(rows pgx.Rows) ([]*domain.AuditLog, error) {
	var logs []*domain.AuditLog
	for rows.Next() {
		var log domain.AuditLog
		if err := rows.Scan(&log.ID, &log.UserID, &log.TaskID, &log.Operation, &log.Detail, &log.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, &log)
	}
	return logs, rows.Err()
}

func scanCounts(rows pgx.Rows) (map[string]int, error) {
	counts := make(map[string]int)
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, err
		}
		counts[key] = n
	}
	return counts, rows.Err()
}
