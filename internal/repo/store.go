// Package repo contains all database access logic for the AutoPrime
// reservation backend. Each entity has its own file with an interface and a
// Postgres implementation. No business logic lives here — only SQL and type
// mapping.
package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sethvargo/go-retry"

	"github.com/autoprime/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store bundles the repositories bound to a single database handle and owns
// the transaction boundary. The service layer depends on this interface, not
// the Postgres implementation, so coordinators can be unit-tested with mocks.
//
// Inside InTx the callback receives a Store whose repositories all run on the
// same transaction, which is what makes "check availability, then commit" a
// single atomic unit.
type Store interface {
	Vehicles() VehicleRepo
	Bookings() BookingRepo
	Payments() PaymentRepo
	Users() UserRepo

	// InTx runs fn inside one database transaction. The transaction commits
	// when fn returns nil and rolls back otherwise. Serialization and
	// deadlock failures (SQLSTATE 40001, 40P01) are retried a bounded number
	// of times with backoff; when retries are exhausted the error surfaces
	// as domain.ErrDateConflict, since contention on the same vehicle rows
	// is the only source of such failures here.
	//
	// Calling InTx on a Store that is already transactional reuses the open
	// transaction instead of nesting.
	InTx(ctx context.Context, fn func(Store) error) error
}

// txAttempts caps how many times a transaction is tried before giving up.
const txAttempts = 3

// NewStore constructs a Store backed by the provided connection pool.
func NewStore(pool *pgxpool.Pool) Store {
	return &pgStore{db: pool, pool: pool}
}

// pgStore is the Postgres implementation of Store.
// pool is nil when the store is already bound to an open transaction.
type pgStore struct {
	db   db
	pool *pgxpool.Pool
}

func (s *pgStore) Vehicles() VehicleRepo { return NewVehicleRepo(s.db) }
func (s *pgStore) Bookings() BookingRepo { return NewBookingRepo(s.db) }
func (s *pgStore) Payments() PaymentRepo { return NewPaymentRepo(s.db) }
func (s *pgStore) Users() UserRepo       { return NewUserRepo(s.db) }

// InTx implements the atomic unit described on the Store interface.
func (s *pgStore) InTx(ctx context.Context, fn func(Store) error) error {
	if s.pool == nil {
		// Already inside a transaction; run on the same handle.
		return fn(s)
	}

	backoff := retry.WithMaxRetries(txAttempts-1, retry.NewExponential(10*time.Millisecond))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		tx, err := s.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin: %w", err)
		}

		if err := fn(&pgStore{db: tx}); err != nil {
			_ = tx.Rollback(ctx)
			return markRetryable(err)
		}

		if err := tx.Commit(ctx); err != nil {
			return markRetryable(fmt.Errorf("commit: %w", err))
		}
		return nil
	})
	if err != nil {
		if isSerializationFailure(err) {
			return fmt.Errorf("repo.Store.InTx: retries exhausted: %w", domain.ErrDateConflict)
		}
		return fmt.Errorf("repo.Store.InTx: %w", err)
	}
	return nil
}

// markRetryable tags serialization and deadlock failures so retry.Do tries
// again; every other error aborts immediately.
func markRetryable(err error) error {
	if isSerializationFailure(err) {
		return retry.RetryableError(err)
	}
	return err
}

// isSerializationFailure reports whether err is a Postgres serialization
// failure (40001) or deadlock (40P01) anywhere in its chain.
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan
// helpers to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}
