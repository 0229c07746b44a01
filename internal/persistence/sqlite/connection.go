package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/event-simulator/internal/persistence"
	"github.com/example/event-simulator/internal/persistence/sqlite/migration"
	_ "modernc.org/sqlite"
)

// ConnectionPool owns the event store's *sql.DB.
type ConnectionPool struct {
	db *sql.DB
}

// NewConnectionPool opens the database described by config with its
// pragmas applied.
func NewConnectionPool(config migration.SQLiteConfig) (*ConnectionPool, error) {
	db, err := migration.NewConnectionManager(config).GetConnection()
	if err != nil {
		return nil, fmt.Errorf("open event store: %w", err)
	}
	return &ConnectionPool{db: db}, nil
}

// DB exposes the handle for the migration executor.
func (cp *ConnectionPool) DB() *sql.DB {
	return cp.db
}

func (cp *ConnectionPool) Close() error {
	if cp.db == nil {
		return nil
	}
	return cp.db.Close()
}

// Ping backs the health endpoint.
func (cp *ConnectionPool) Ping(ctx context.Context) error {
	return cp.db.PingContext(ctx)
}

// TransactionFunc runs inside WithTransaction.
type TransactionFunc func(tx *sql.Tx) error

// WithTransaction executes fn within a database transaction. The
// transaction is rolled back when fn returns an error or panics and
// committed otherwise.
func (cp *ConnectionPool) WithTransaction(ctx context.Context, fn TransactionFunc) error {
	tx, err := cp.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// QueryHelper routes store queries to the pool or to an open transaction.
type QueryHelper struct {
	pool *ConnectionPool
}

func NewQueryHelper(pool *ConnectionPool) *QueryHelper {
	return &QueryHelper{pool: pool}
}

// Query reads outside any transaction; used by event listing.
func (qh *QueryHelper) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return qh.pool.db.QueryContext(ctx, query, args...)
}

func (qh *QueryHelper) QueryRowTx(ctx context.Context, tx *sql.Tx, query string, args ...any) *sql.Row {
	return tx.QueryRowContext(ctx, query, args...)
}

func (qh *QueryHelper) QueryTx(ctx context.Context, tx *sql.Tx, query string, args ...any) (*sql.Rows, error) {
	return tx.QueryContext(ctx, query, args...)
}

func (qh *QueryHelper) ExecTx(ctx context.Context, tx *sql.Tx, query string, args ...any) (sql.Result, error) {
	return tx.ExecContext(ctx, query, args...)
}

// ErrorMapper translates driver errors into the persistence sentinels.
type ErrorMapper struct{}

func NewErrorMapper() *ErrorMapper {
	return &ErrorMapper{}
}

// MapError maps SQLite-specific errors to the persistence sentinels. The
// driver error stays in the chain for logging.
func (em *ErrorMapper) MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", persistence.ErrNotFound, err)
	}

	errStr := err.Error()
	switch {
	case strings.Contains(errStr, "UNIQUE constraint failed"),
		strings.Contains(errStr, "PRIMARY KEY constraint failed"):
		return fmt.Errorf("%w: %w", persistence.ErrDuplicate, err)
	case strings.Contains(errStr, "FOREIGN KEY constraint failed"):
		return fmt.Errorf("%w: %w", persistence.ErrForeignKeyViolation, err)
	case strings.Contains(errStr, "CHECK constraint failed"),
		strings.Contains(errStr, "NOT NULL constraint failed"):
		return fmt.Errorf("%w: %w", persistence.ErrConstraintViolation, err)
	case strings.Contains(errStr, "database is locked"),
		strings.Contains(errStr, "database table is locked"),
		strings.Contains(errStr, "SQLITE_BUSY"):
		return fmt.Errorf("%w: %w", persistence.ErrDatabaseLocked, err)
	}
	return err
}

// RetryConfig bounds the backoff applied while the database is locked.
type RetryConfig struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// DefaultRetryConfig allows three retries starting at 100ms.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:    3,
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      5 * time.Second,
		BackoffFactor: 2.0,
	}
}

// RetryHelper retries operations that fail with a locked database
type RetryHelper struct {
	config RetryConfig
	mapper *ErrorMapper
}

func NewRetryHelper(config RetryConfig) *RetryHelper {
	return &RetryHelper{
		config: config,
		mapper: NewErrorMapper(),
	}
}

type RetryableFunc func() error

// WithRetry executes fn, retrying with exponential backoff while it fails
// with persistence.ErrDatabaseLocked. Other errors are returned mapped and
// unretried.
func (rh *RetryHelper) WithRetry(ctx context.Context, fn RetryableFunc) error {
	var lastErr error
	delay := rh.config.InitialDelay

	for attempt := 0; attempt <= rh.config.MaxRetries; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
			delay = time.Duration(float64(delay) * rh.config.BackoffFactor)
			if delay > rh.config.MaxDelay {
				delay = rh.config.MaxDelay
			}
		}

		err := fn()
		if err == nil {
			return nil
		}

		lastErr = rh.mapper.MapError(err)
		if !isRetryableError(lastErr) {
			return lastErr
		}
	}

	return fmt.Errorf("gave up after %d retries: %w", rh.config.MaxRetries, lastErr)
}

func isRetryableError(err error) bool {
	return errors.Is(err, persistence.ErrDatabaseLocked)
}
