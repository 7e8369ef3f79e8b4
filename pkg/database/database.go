// Package database owns the shared PostgreSQL connection pool and the
// transaction runner every repository writes through.
//
// The pool is a database/sql handle over the pgx stdlib driver so that
// Watermill's SQL publisher can join the same *sql.Tx as the business writes.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/ghuser/inventra/pkg/logger"
)

const (
	// SQLSTATE codes that mean "the transaction lost a race, run it again".
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"

	// CodeUniqueViolation is the SQLSTATE for unique constraint violations.
	CodeUniqueViolation = "23505"

	defaultMaxRetries = 3
	retryBaseDelay    = 20 * time.Millisecond
)

// Database wraps *sql.DB with transaction helpers.
type Database struct {
	db         *sql.DB
	log        logger.Logger
	maxRetries int
}

// Option customizes a Database.
type Option func(*Database)

// WithMaxRetries sets how many times WithTx runs a transaction that failed
// with a serialization failure or deadlock.
func WithMaxRetries(n int) Option {
	return func(d *Database) {
		if n > 0 {
			d.maxRetries = n
		}
	}
}

// NewPool opens a pgx-backed connection pool and verifies connectivity.
func NewPool(ctx context.Context, url string, log logger.Logger, opts ...Option) (*Database, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return New(db, log, opts...), nil
}

// New wraps an already opened *sql.DB.
func New(db *sql.DB, log logger.Logger, opts ...Option) *Database {
	d := &Database{db: db, log: log, maxRetries: defaultMaxRetries}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DB returns the underlying *sql.DB for non-transactional reads.
func (d *Database) DB() *sql.DB {
	return d.db
}

// WithTx runs fn inside a READ COMMITTED transaction. fn must perform every
// read and write through tx; row-level locks (SELECT ... FOR UPDATE) provide
// the per-row serialization callers need.
//
// The transaction is committed when fn returns nil and rolled back otherwise.
// Serialization failures and deadlocks are retried with a fresh transaction,
// so fn must not keep state between attempts.
func (d *Database) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	delay := retryBaseDelay
	var err error
	for attempt := 1; attempt <= d.maxRetries; attempt++ {
		err = d.runTx(ctx, fn)
		if err == nil || !IsRetryable(err) {
			return err
		}
		if attempt < d.maxRetries {
			d.log.WarnContext(ctx, "database: retrying transaction",
				"attempt", attempt,
				"max_retries", d.maxRetries,
				"error", err,
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}
	}
	return fmt.Errorf("database: transaction failed after %d attempts: %w", d.maxRetries, err)
}

func (d *Database) runTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := d.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			d.log.ErrorContext(ctx, "database: rollback failed", "error", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// IsRetryable reports whether err is a serialization failure or deadlock.
func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == codeSerializationFailure || pgErr.Code == codeDeadlockDetected
}

// IsUniqueViolation reports whether err is a unique constraint violation and
// returns the violated constraint name.
func IsUniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == CodeUniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}

// Ping checks the database connection health.
func (d *Database) Ping(ctx context.Context) error {
	if err := d.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (d *Database) Close() {
	if err := d.db.Close(); err != nil {
		d.log.Error("database: close failed", "error", err)
	}
}
