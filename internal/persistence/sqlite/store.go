package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/example/event-simulator/internal/persistence"
	"github.com/example/event-simulator/internal/persistence/sqlite/migration"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrations returns the embedded schema migrations.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		panic(fmt.Sprintf("sqlite: embedded migrations: %v", err))
	}
	return sub
}

// Store is the SQLite-backed event store.
type Store struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
	retry  *RetryHelper
	logger *slog.Logger
	now    func() time.Time
}

var _ persistence.EventStore = (*Store)(nil)

// Option customizes a Store.
type Option func(*Store)

// WithLogger sets the logger used for migrations.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock sets the time source for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRetryConfig sets the backoff applied to reads on a locked database.
func WithRetryConfig(config RetryConfig) Option {
	return func(s *Store) {
		s.retry = NewRetryHelper(config)
	}
}

// Open opens the database at path with the default SQLite configuration.
func Open(path string, opts ...Option) (*Store, error) {
	return OpenWithConfig(migration.DefaultSQLiteConfig(path), opts...)
}

// OpenWithConfig opens a store using an explicit SQLite configuration.
func OpenWithConfig(config migration.SQLiteConfig, opts ...Option) (*Store, error) {
	pool, err := NewConnectionPool(config)
	if err != nil {
		return nil, err
	}
	store := &Store{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
		retry:  NewRetryHelper(DefaultRetryConfig()),
		logger: slog.New(slog.DiscardHandler),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(store)
	}
	return store, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.pool.Close()
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending schema migrations.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.migrationManager().RunMigrations(ctx)
	return err
}

// MigrationStatus reports applied and pending schema migrations.
func (s *Store) MigrationStatus(ctx context.Context) (migration.Status, error) {
	return s.migrationManager().Status(ctx)
}

func (s *Store) migrationManager() *migration.Manager {
	return migration.NewMigrationManager(
		migration.NewFileScanner(),
		migration.NewSQLiteExecutor(s.pool.DB()),
		Migrations(),
		s.logger,
	)
}

// ListEvents returns the stored events ordered by id.
func (s *Store) ListEvents(ctx context.Context) ([]persistence.Event, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM events
		ORDER BY id
	`

	var events []persistence.Event
	err := s.retry.WithRetry(ctx, func() error {
		events = nil
		rows, err := s.helper.Query(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var event persistence.Event
			var createdAt, updatedAt string
			if err := rows.Scan(&event.ID, &event.Name, &createdAt, &updatedAt); err != nil {
				return err
			}
			if event.CreatedAt, err = parseStoredTime(createdAt); err != nil {
				return err
			}
			if event.UpdatedAt, err = parseStoredTime(updatedAt); err != nil {
				return err
			}
			events = append(events, event)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("sqlite: list events: %w", err)
	}
	return events, nil
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func parseStoredTime(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored timestamp %q: %w", value, err)
	}
	return t, nil
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}

func nullInt(value *int) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*value), Valid: true}
}

func intPtr(value sql.NullInt64) *int {
	if !value.Valid {
		return nil
	}
	v := int(value.Int64)
	return &v
}
