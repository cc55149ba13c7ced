package postgres

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/deltaland/internal/game/engine"
)

// Store implements engine.Store on PostgreSQL. A process-wide mutex is held
// for the duration of every transaction: the game is written for exactly one
// writer process, and serializing logical transactions here is what makes
// observe-then-claim sequences (the dice waiter, the notice pair) atomic
// without row locking.
type Store struct {
	mu   sync.Mutex
	pool *pgxpool.Pool
}

// NewStore creates a Store backed by the given pool.
//
// Precondition: pool must be a valid, open connection pool.
func NewStore(pool *Pool) *Store {
	return &Store{pool: pool.DB()}
}

// InTx runs fn inside one exclusive transaction. A nil return commits, any
// error rolls back. Panics are not recovered: they unwind through the
// deferred rollback and abort the process, the intended outcome for an
// invariant violation.
func (s *Store) InTx(ctx context.Context, fn func(tx engine.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	if err := fn(&storeTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// storeTx adapts one pgx transaction to engine.Tx.
type storeTx struct {
	tx pgx.Tx
}
