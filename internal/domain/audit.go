package domain

import "time"

// AuditLog is an immutable record of one operation a user performed on a task
// or on the task collection. TaskID is nil for collection-wide operations.
type AuditLog struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	TaskID    *int64    `db:"task_id" json:"task_id"`
	Operation string    `db:"operation" json:"operation"`
	Detail    string    `db:"detail" json:"detail"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Audit operations
const (
	AuditOpCreate   = "CREATE"
	AuditOpUpdate   = "UPDATE"
	AuditOpDelete   = "DELETE"
	AuditOpComplete = "COMPLETE"
	AuditOpQuery    = "QUERY"
)
