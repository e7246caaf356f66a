package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"task_tracker/internal/domain"

	"github.com/jackc/pgx/v5"
)

const taskColumns = `id, user_id, parent_id, content, start_time, end_time, status, created_at, updated_at`

// TaskRepository handles task rows
type TaskRepository struct {
	db Querier
}

func NewTaskRepository(db Querier) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create inserts a task and fills in its generated id.
func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO tasks (user_id, parent_id, content, start_time, end_time, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, t.UserID, t.ParentID, t.Content, t.StartTime, t.EndTime, string(t.Status), t.CreatedAt, t.UpdatedAt).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) GetByID(ctx context.Context, userID, taskID int64) (*domain.Task, error) {
	row := r.db.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND user_id = $2`, taskID, userID)
	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// ListByUser returns every task of the user, newest first.
func (r *TaskRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Task, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	return scanTasks(rows)
}

// ListChildren returns the direct children of parentID, newest first.
func (r *TaskRepository) ListChildren(ctx context.Context, userID, parentID int64) ([]*domain.Task, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE user_id = $1 AND parent_id = $2
		ORDER BY created_at DESC, id DESC
	`, userID, parentID)
	if err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}
	defer rows.Close()

	return scanTasks(rows)
}

// Update overwrites content, start and end time. It reports false when no
// row owned by the user matched.
func (r *TaskRepository) Update(ctx context.Context, t *domain.Task) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE tasks
		SET content = $1, start_time = $2, end_time = $3, updated_at = $4
		WHERE id = $5 AND user_id = $6
	`, t.Content, t.StartTime, t.EndTime, t.UpdatedAt, t.ID, t.UserID)
	if err != nil {
		return false, fmt.Errorf("update task: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *TaskRepository) SetStatus(ctx context.Context, userID, taskID int64, status domain.TaskStatus, updatedAt time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE tasks SET status = $1, updated_at = $2 WHERE id = $3 AND user_id = $4
	`, string(status), updatedAt, taskID, userID)
	if err != nil {
		return false, fmt.Errorf("set task status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Delete removes a single row. Children must be removed first; the parent_id
// foreign key rejects deleting a task that still has children.
func (r *TaskRepository) Delete(ctx context.Context, userID, taskID int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, taskID, userID)
	if err != nil {
		return false, fmt.Errorf("delete task %d: %w", taskID, err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *TaskRepository) CountByStatus(ctx context.Context, userID int64) (map[domain.TaskStatus]int, error) {
	rows, err := r.db.Query(ctx, `
		SELECT status, COUNT(*) FROM tasks WHERE user_id = $1 GROUP BY status
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("count tasks by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.TaskStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[domain.TaskStatus(status)] = n
	}
	return counts, rows.Err()
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var t domain.Task
	var status string
	if err := row.Scan(&t.ID, &t.UserID, &t.ParentID, &t.Content, &t.StartTime, &t.EndTime, &status, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.Status = domain.TaskStatus(status)
	return &t, nil
}

func scanTasks(rows pgx.Rows) ([]*domain.Task, error) {
	var tasks []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}
