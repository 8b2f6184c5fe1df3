package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// QueryObserver receives the duration of every statement run through a Gateway.
type QueryObserver interface {
	ObserveDBQuery(label string, duration time.Duration)
}

// StoreError wraps a relational backend failure (connectivity, constraint, malformed statement).
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsStoreError reports whether err originated from the relational backend.
func IsStoreError(err error) bool {
	var storeErr *StoreError
	return errors.As(err, &storeErr)
}

// Gateway executes parameterised statements against the shared pool.
// Arguments are always bound positionally ($1, $2, ...); callers never interpolate input.
type Gateway struct {
	db       *sqlx.DB
	observer QueryObserver
}

// NewGateway wraps the pool. observer may be nil.
func NewGateway(db *sqlx.DB, observer QueryObserver) *Gateway {
	return &Gateway{db: db, observer: observer}
}

// Get scans a single row into dest. sql.ErrNoRows is returned unwrapped.
func (g *Gateway) Get(ctx context.Context, label string, dest interface{}, query string, args ...interface{}) error {
	defer g.observe(label, time.Now())
	if err := g.db.GetContext(ctx, dest, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sql.ErrNoRows
		}
		return &StoreError{Op: label, Err: err}
	}
	return nil
}

// Select scans all rows into dest, which must be a pointer to a slice.
func (g *Gateway) Select(ctx context.Context, label string, dest interface{}, query string, args ...interface{}) error {
	defer g.observe(label, time.Now())
	if err := g.db.SelectContext(ctx, dest, query, args...); err != nil {
		return &StoreError{Op: label, Err: err}
	}
	return nil
}

// Exec runs a statement and returns the number of affected rows.
func (g *Gateway) Exec(ctx context.Context, label string, query string, args ...interface{}) (int64, error) {
	defer g.observe(label, time.Now())
	res, err := g.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, &StoreError{Op: label, Err: err}
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, &StoreError{Op: label, Err: err}
	}
	return affected, nil
}

// Ping checks connectivity; used by the readiness probe.
func (g *Gateway) Ping(ctx context.Context) error {
	if err := g.db.PingContext(ctx); err != nil {
		return &StoreError{Op: "ping", Err: err}
	}
	return nil
}

func (g *Gateway) observe(label string, start time.Time) {
	if g.observer == nil {
		return
	}
	g.observer.ObserveDBQuery(label, time.Since(start))
}

// IsUniqueViolation reports whether err carries a Postgres unique_violation (23505).
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
