// Package testutil holds test doubles shared by the service and HTTP tests.
package testutil

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"task_tracker/internal/domain"
)

var errHasChildren = errors.New("task still has children")

// MemStore is an in-memory domain.Store. WithTx snapshots the data and
// restores it when the callback fails, which is enough to observe rollback.
// Transactions and Snapshot reads are serialized.
type MemStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	tasks    map[int64]domain.Task
	logs     map[int64]domain.AuditLog
	nextTask int64
	nextLog  int64

	// FailDelete makes Delete report that the listed tasks were not removed.
	FailDelete map[int64]bool
	// AuditErr, when set, is returned by every audit log insert.
	AuditErr error
}

var _ domain.Store = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{
		tasks:      make(map[int64]domain.Task),
		logs:       make(map[int64]domain.AuditLog),
		FailDelete: make(map[int64]bool),
	}
}

func (s *MemStore) Tasks() domain.TaskStore { return memTasks{s} }

func (s *MemStore) Audit() domain.AuditStore { return memAudit{s} }

func (s *MemStore) Ping(ctx context.Context) error { return ctx.Err() }

func (s *MemStore) WithTx(ctx context.Context, fn func(tx domain.Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	tasks := make(map[int64]domain.Task, len(s.tasks))
	for k, v := range s.tasks {
		tasks[k] = v
	}
	logs := make(map[int64]domain.AuditLog, len(s.logs))
	for k, v := range s.logs {
		logs[k] = v
	}
	nextTask, nextLog := s.nextTask, s.nextLog
	s.mu.Unlock()

	if err := fn(memTx{s}); err != nil {
		s.mu.Lock()
		s.tasks, s.logs = tasks, logs
		s.nextTask, s.nextLog = nextTask, nextLog
		s.mu.Unlock()
		return err
	}
	return nil
}

// Snapshot runs fn while no transaction can commit, so its reads agree.
func (s *MemStore) Snapshot(ctx context.Context, fn func(tx domain.Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return fn(memTx{s})
}

// TaskCount returns the number of stored tasks across all users.
func (s *MemStore) TaskCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// LogCount returns the number of stored audit entries across all users.
func (s *MemStore) LogCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.logs)
}

// memTx is the transactional view; nested transactions join the outer one.
type memTx struct{ s *MemStore }

func (t memTx) Tasks() domain.TaskStore        { return memTasks{t.s} }
func (t memTx) Audit() domain.AuditStore       { return memAudit{t.s} }
func (t memTx) Ping(ctx context.Context) error { return ctx.Err() }

func (t memTx) WithTx(ctx context.Context, fn func(tx domain.Store) error) error {
	return fn(t)
}

func (t memTx) Snapshot(ctx context.Context, fn func(tx domain.Store) error) error {
	return fn(t)
}

type memTasks struct{ s *MemStore }

func (m memTasks) Create(ctx context.Context, t *domain.Task) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.nextTask++
	t.ID = m.s.nextTask
	m.s.tasks[t.ID] = cloneTask(*t)
	return nil
}

func (m memTasks) GetByID(ctx context.Context, userID, taskID int64) (*domain.Task, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	t, ok := m.s.tasks[taskID]
	if !ok || t.UserID != userID {
		return nil, domain.ErrTaskNotFound
	}
	c := cloneTask(t)
	return &c, nil
}

func (m memTasks) ListByUser(ctx context.Context, userID int64) ([]*domain.Task, error) {
	return m.filter(func(t domain.Task) bool { return t.UserID == userID }), nil
}

func (m memTasks) ListChildren(ctx context.Context, userID, parentID int64) ([]*domain.Task, error) {
	return m.filter(func(t domain.Task) bool {
		return t.UserID == userID && t.ParentID != nil && *t.ParentID == parentID
	}), nil
}

func (m memTasks) Update(ctx context.Context, t *domain.Task) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	cur, ok := m.s.tasks[t.ID]
	if !ok || cur.UserID != t.UserID {
		return false, nil
	}
	cur.Content = t.Content
	cur.StartTime = t.StartTime
	cur.EndTime = t.EndTime
	cur.UpdatedAt = t.UpdatedAt
	m.s.tasks[t.ID] = cur
	return true, nil
}

func (m memTasks) SetStatus(ctx context.Context, userID, taskID int64, status domain.TaskStatus, updatedAt time.Time) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	cur, ok := m.s.tasks[taskID]
	if !ok || cur.UserID != userID {
		return false, nil
	}
	cur.Status = status
	cur.UpdatedAt = updatedAt
	m.s.tasks[taskID] = cur
	return true, nil
}

// Delete mirrors the parent_id foreign key: a task with children is refused.
func (m memTasks) Delete(ctx context.Context, userID, taskID int64) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.FailDelete[taskID] {
		return false, nil
	}
	cur, ok := m.s.tasks[taskID]
	if !ok || cur.UserID != userID {
		return false, nil
	}
	for _, t := range m.s.tasks {
		if t.ParentID != nil && *t.ParentID == taskID {
			return false, errHasChildren
		}
	}
	delete(m.s.tasks, taskID)
	return true, nil
}

func (m memTasks) CountByStatus(ctx context.Context, userID int64) (map[domain.TaskStatus]int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	counts := make(map[domain.TaskStatus]int)
	for _, t := range m.s.tasks {
		if t.UserID == userID {
			counts[t.Status]++
		}
	}
	return counts, nil
}

func (m memTasks) filter(keep func(domain.Task) bool) []*domain.Task {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []*domain.Task
	for _, t := range m.s.tasks {
		if keep(t) {
			c := cloneTask(t)
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

type memAudit struct{ s *MemStore }

func (m memAudit) Create(ctx context.Context, log *domain.AuditLog) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.AuditErr != nil {
		return m.s.AuditErr
	}
	m.s.nextLog++
	log.ID = m.s.nextLog
	m.s.logs[log.ID] = cloneLog(*log)
	return nil
}

func (m memAudit) ListByUser(ctx context.Context, userID int64) ([]*domain.AuditLog, error) {
	return m.filter(func(l domain.AuditLog) bool { return l.UserID == userID }), nil
}

func (m memAudit) ListByTask(ctx context.Context, userID, taskID int64) ([]*domain.AuditLog, error) {
	return m.filter(func(l domain.AuditLog) bool {
		return l.UserID == userID && l.TaskID != nil && *l.TaskID == taskID
	}), nil
}

func (m memAudit) Delete(ctx context.Context, userID, logID int64) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	cur, ok := m.s.logs[logID]
	if !ok || cur.UserID != userID {
		return false, nil
	}
	delete(m.s.logs, logID)
	return true, nil
}

func (m memAudit) CountByOperation(ctx context.Context, userID int64) (map[string]int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	counts := make(map[string]int)
	for _, l := range m.s.logs {
		if l.UserID == userID {
			counts[l.Operation]++
		}
	}
	return counts, nil
}

func (m memAudit) CountByDay(ctx context.Context, userID int64, since time.Time, operation string) (map[string]int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	counts := make(map[string]int)
	for _, l := range m.s.logs {
		if l.UserID != userID || l.CreatedAt.Before(since) {
			continue
		}
		if operation != "" && l.Operation != operation {
			continue
		}
		counts[l.CreatedAt.UTC().Format("2006-01-02")]++
	}
	return counts, nil
}

func (m memAudit) filter(keep func(domain.AuditLog) bool) []*domain.AuditLog {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []*domain.AuditLog
	for _, l := range m.s.logs {
		if keep(l) {
			c := cloneLog(l)
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func cloneTask(t domain.Task) domain.Task {
	if t.ParentID != nil {
		p := *t.ParentID
		t.ParentID = &p
	}
	return t
}

func cloneLog(l domain.AuditLog) domain.AuditLog {
	if l.TaskID != nil {
		id := *l.TaskID
		l.TaskID = &id
	}
	return l
}

// Int64 returns a pointer to v.
func Int64(v int64) *int64 { return &v }
