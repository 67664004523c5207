package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store bundles all repositories over one connection pool. One Store per
// process; each method is one unit of work unless documented otherwise.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store over an existing pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// HealthCheck verifies database connectivity via the prepared health query.
func (s *Store) HealthCheck(ctx context.Context) error {
	var n int
	return s.pool.QueryRow(ctx, "health_check").Scan(&n)
}

// ErrNotFound indicates the requested entity is absent in storage.
var ErrNotFound = errors.New("not found")

// PersistenceError wraps a constraint violation or transaction failure. The
// failed unit is aborted; batch callers count it and continue.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure in %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// nilEmpty returns nil for empty strings (maps to SQL NULL).
func nilEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
