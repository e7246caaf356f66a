package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"task_tracker/internal/domain"
	"task_tracker/internal/logger"
)

// TaskInput carries the fields a caller supplies for create and update.
// ParentID is only read on create.
type TaskInput struct {
	ParentID  *int64
	Content   string
	StartTime time.Time
	EndTime   time.Time
}

func (in TaskInput) validate() error {
	if strings.TrimSpace(in.Content) == "" {
		return fmt.Errorf("%w: content is required", domain.ErrValidation)
	}
	if in.StartTime.IsZero() {
		return fmt.Errorf("%w: start time is required", domain.ErrValidation)
	}
	if in.EndTime.IsZero() {
		return fmt.Errorf("%w: end time is required", domain.ErrValidation)
	}
	return nil
}

// TaskService owns the task hierarchy: creation under a parent, updates,
// completion, cascade deletion and the tree listing.
type TaskService struct {
	store domain.Store
	audit *AuditService
	now   func() time.Time
}

func NewTaskService(store domain.Store, audit *AuditService) *TaskService {
	return &TaskService{store: store, audit: audit, now: time.Now}
}

// CreateTask stores a new IN_PROGRESS task. A parent, when given, must be
// one of the user's own tasks.
func (s *TaskService) CreateTask(ctx context.Context, userID int64, input TaskInput) (task *domain.Task, err error) {
	defer func() { observe("create", err) }()

	if err := input.validate(); err != nil {
		return nil, err
	}

	now := s.now()
	task = &domain.Task{
		UserID:    userID,
		ParentID:  input.ParentID,
		Content:   input.Content,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
		Status:    domain.TaskStatusInProgress,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.store.WithTx(ctx, func(tx domain.Store) error {
		if input.ParentID != nil {
			if _, err := tx.Tasks().GetByID(ctx, userID, *input.ParentID); err != nil {
				if errors.Is(err, domain.ErrTaskNotFound) {
					return domain.ErrInvalidParent
				}
				return err
			}
		}
		if err := tx.Tasks().Create(ctx, task); err != nil {
			return err
		}
		return s.audit.Append(ctx, tx.Audit(), userID, &task.ID, domain.AuditOpCreate, "create task: "+task.Content)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateTask overwrites content, start and end time of an owned task.
func (s *TaskService) UpdateTask(ctx context.Context, userID, taskID int64, input TaskInput) (err error) {
	defer func() { observe("update", err) }()

	if err := input.validate(); err != nil {
		return err
	}

	return s.store.WithTx(ctx, func(tx domain.Store) error {
		task, err := tx.Tasks().GetByID(ctx, userID, taskID)
		if err != nil {
			return err
		}

		task.Content = input.Content
		task.StartTime = input.StartTime
		task.EndTime = input.EndTime
		task.UpdatedAt = s.now()

		ok, err := tx.Tasks().Update(ctx, task)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrTaskNotFound
		}
		return s.audit.Append(ctx, tx.Audit(), userID, &task.ID, domain.AuditOpUpdate, "update task: "+task.Content)
	})
}

// CompleteTask marks an owned task COMPLETED. Completing an already
// completed task succeeds and is logged again.
func (s *TaskService) CompleteTask(ctx context.Context, userID, taskID int64) (err error) {
	defer func() { observe("complete", err) }()

	return s.store.WithTx(ctx, func(tx domain.Store) error {
		task, err := tx.Tasks().GetByID(ctx, userID, taskID)
		if err != nil {
			return err
		}

		ok, err := tx.Tasks().SetStatus(ctx, userID, taskID, domain.TaskStatusCompleted, s.now())
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrTaskNotFound
		}
		return s.audit.Append(ctx, tx.Audit(), userID, &task.ID, domain.AuditOpComplete, "complete task: "+task.Content)
	})
}

// DeleteTask removes an owned task together with all of its descendants in
// one transaction. Only the targeted task is logged.
func (s *TaskService) DeleteTask(ctx context.Context, userID, taskID int64) (err error) {
	defer func() { observe("delete", err) }()

	return s.store.WithTx(ctx, func(tx domain.Store) error {
		root, err := tx.Tasks().GetByID(ctx, userID, taskID)
		if err != nil {
			return err
		}

		all, err := tx.Tasks().ListByUser(ctx, userID)
		if err != nil {
			return err
		}

		order := CollectSubtree(all, root.ID)
		for _, id := range order {
			ok, err := tx.Tasks().Delete(ctx, userID, id)
			if err != nil {
				return fmt.Errorf("%w: task %d: %w", domain.ErrCascadeFailed, id, err)
			}
			if !ok {
				return fmt.Errorf("%w: task %d was not removed", domain.ErrCascadeFailed, id)
			}
		}

		logger.WithContext(ctx).Debug("task subtree deleted", "user_id", userID, "task_id", root.ID, "removed", len(order))

		detail := "delete task: " + root.Content
		if n := len(order) - 1; n > 0 {
			detail = fmt.Sprintf("%s (with %d subtasks)", detail, n)
		}
		return s.audit.Append(ctx, tx.Audit(), userID, &root.ID, domain.AuditOpDelete, detail)
	})
}

// ListTaskTree returns the user's tasks as a forest, newest first at every
// level. The read itself is recorded as a QUERY entry.
func (s *TaskService) ListTaskTree(ctx context.Context, userID int64) (forest []*domain.TaskNode, err error) {
	defer func() { observe("list_tree", err) }()

	tasks, err := s.store.Tasks().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	forest = BuildForest(tasks)
	s.audit.Log(ctx, userID, nil, domain.AuditOpQuery, fmt.Sprintf("list task tree (%d tasks)", len(tasks)))
	return forest, nil
}

// VerifyOwnership reports whether taskID exists and belongs to userID.
func (s *TaskService) VerifyOwnership(ctx context.Context, userID, taskID int64) (bool, error) {
	_, err := s.store.Tasks().GetByID(ctx, userID, taskID)
	if errors.Is(err, domain.ErrTaskNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *TaskService) GetTask(ctx context.Context, userID, taskID int64) (*domain.Task, error) {
	return s.store.Tasks().GetByID(ctx, userID, taskID)
}

// ListSubtasks returns the direct children of an owned task, newest first.
func (s *TaskService) ListSubtasks(ctx context.Context, userID, parentID int64) ([]*domain.Task, error) {
	if _, err := s.store.Tasks().GetByID(ctx, userID, parentID); err != nil {
		return nil, err
	}
	tasks, err := s.store.Tasks().ListChildren(ctx, userID, parentID)
	if err != nil {
		return nil, err
	}
	return nonNil(tasks), nil
}

// ListTasks returns every task of the user as a flat list, newest first.
func (s *TaskService) ListTasks(ctx context.Context, userID int64) ([]*domain.Task, error) {
	tasks, err := s.store.Tasks().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return nonNil(tasks), nil
}
