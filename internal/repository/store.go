package repository

import (
	"context"
	"fmt"

	"task_tracker/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the PostgreSQL implementation of domain.Store.
type Store struct {
	pool  *pgxpool.Pool
	tasks *TaskRepository
	audit *AuditRepository
}

var _ domain.Store = (*Store)(nil)

// NewStore creates a store backed by the given pool
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		pool:  pool,
		tasks: NewTaskRepository(pool),
		audit: NewAuditRepository(pool),
	}
}

func (s *Store) Tasks() domain.TaskStore { return s.tasks }

func (s *Store) Audit() domain.AuditStore { return s.audit }

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// WithTx runs fn inside a single database transaction.
func (s *Store) WithTx(ctx context.Context, fn func(tx domain.Store) error) error {
	return s.runTx(ctx, pgx.TxOptions{}, fn)
}

// Snapshot runs fn in a read-only REPEATABLE READ transaction, so all of its
// queries see one snapshot.
func (s *Store) Snapshot(ctx context.Context, fn func(tx domain.Store) error) error {
	return s.runTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}, fn)
}

func (s *Store) runTx(ctx context.Context, opts pgx.TxOptions, fn func(tx domain.Store) error) error {
	tx, err := s.pool.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&txStore{tx: tx, tasks: NewTaskRepository(tx), audit: NewAuditRepository(tx)}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// txStore is the view of Store handed to WithTx callbacks.
type txStore struct {
	tx    pgx.Tx
	tasks *TaskRepository
	audit *AuditRepository
}

func (s *txStore) Tasks() domain.TaskStore { return s.tasks }

func (s *txStore) Audit() domain.AuditStore { return s.audit }

func (s *txStore) Ping(ctx context.Context) error {
	return s.tx.Conn().Ping(ctx)
}

// WithTx joins the surrounding transaction.
func (s *txStore) WithTx(ctx context.Context, fn func(tx domain.Store) error) error {
	return fn(s)
}

// Snapshot joins the surrounding transaction, keeping its isolation.
func (s *txStore) Snapshot(ctx context.Context, fn func(tx domain.Store) error) error {
	return fn(s)
}
