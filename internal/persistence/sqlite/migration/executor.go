package migration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// SQLiteExecutor implements Executor for SQLite databases.
type SQLiteExecutor struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteExecutor creates a new SQLite migration executor.
func NewSQLiteExecutor(db *sql.DB) *SQLiteExecutor {
	return &SQLiteExecutor{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// ExecuteMigration runs every statement of a migration in one transaction.
func (e *SQLiteExecutor) ExecuteMigration(ctx context.Context, migration Migration) (err error) {
	statements := splitStatements(migration.SQL)
	if len(statements) == 0 {
		return NewMigrationError(migration.Version, migration.FilePath, "parse SQL",
			fmt.Errorf("%w: no SQL statements found", ErrInvalidMigrationFile))
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return NewDatabaseError(migration.Version, "", "begin transaction", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				err = fmt.Errorf("%w (rollback: %v)", err, rbErr)
			}
		}
	}()

	for i, stmt := range statements {
		if _, execErr := tx.ExecContext(ctx, stmt); execErr != nil {
			return NewDatabaseError(migration.Version, stmt, fmt.Sprintf("execute statement %d", i+1), execErr)
		}
	}

	if err = tx.Commit(); err != nil {
		return NewDatabaseError(migration.Version, "", "commit transaction", err)
	}
	return nil
}

// InitializeVersionTable creates the schema_migrations table if needed.
func (e *SQLiteExecutor) InitializeVersionTable(ctx context.Context) error {
	const createTableSQL = `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TEXT NOT NULL,
			checksum TEXT,
			execution_time_ms INTEGER
		)`
	if _, err := e.db.ExecContext(ctx, createTableSQL); err != nil {
		return NewDatabaseError("", createTableSQL, "create schema_migrations table", err)
	}
	return nil
}

// RecordMigration stores a successfully applied migration.
func (e *SQLiteExecutor) RecordMigration(ctx context.Context, migration Migration, executionTime time.Duration) error {
	const insertSQL = `
		INSERT INTO schema_migrations (version, applied_at, checksum, execution_time_ms)
		VALUES (?, ?, ?, ?)`
	_, err := e.db.ExecContext(ctx, insertSQL,
		migration.Version,
		e.now().Format(time.RFC3339),
		migration.Checksum,
		executionTime.Milliseconds(),
	)
	if err != nil {
		return NewDatabaseError(migration.Version, insertSQL, "record migration", err)
	}
	return nil
}

// IsVersionApplied reports whether version is present in schema_migrations.
func (e *SQLiteExecutor) IsVersionApplied(ctx context.Context, version string) (bool, error) {
	const querySQL = `SELECT 1 FROM schema_migrations WHERE version = ? LIMIT 1`
	var exists int
	err := e.db.QueryRowContext(ctx, querySQL, version).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, NewDatabaseError(version, querySQL, "check version applied", err)
	}
	return true, nil
}

// GetAppliedVersions returns the applied migrations ordered by version.
func (e *SQLiteExecutor) GetAppliedVersions(ctx context.Context) ([]AppliedMigration, error) {
	const querySQL = `
		SELECT version, applied_at, COALESCE(execution_time_ms, 0), COALESCE(checksum, '')
		FROM schema_migrations
		ORDER BY version ASC`
	rows, err := e.db.QueryContext(ctx, querySQL)
	if err != nil {
		return nil, NewDatabaseError("", querySQL, "get applied versions", err)
	}
	defer rows.Close()

	var applied []AppliedMigration
	for rows.Next() {
		var (
			version, appliedAt, checksum string
			executionMillis              int64
		)
		if err := rows.Scan(&version, &appliedAt, &executionMillis, &checksum); err != nil {
			return nil, NewDatabaseError("", querySQL, "scan applied migration", err)
		}
		at, err := time.Parse(time.RFC3339, appliedAt)
		if err != nil {
			return nil, NewDatabaseError(version, querySQL, "parse applied_at",
				fmt.Errorf("%w: %v", ErrVersionTableCorrupt, err))
		}
		applied = append(applied, AppliedMigration{
			Version:       version,
			AppliedAt:     at,
			ExecutionTime: time.Duration(executionMillis) * time.Millisecond,
			Checksum:      checksum,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, NewDatabaseError("", querySQL, "iterate applied migrations", err)
	}
	return applied, nil
}

// splitStatements splits migration content on semicolons and drops comment
// lines and empty statements.
func splitStatements(content string) []string {
	var statements []string
	for _, chunk := range strings.Split(content, ";") {
		var lines []string
		for _, line := range strings.Split(chunk, "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "--") {
				continue
			}
			lines = append(lines, line)
		}
		if len(lines) > 0 {
			statements = append(statements, strings.Join(lines, "\n"))
		}
	}
	return statements
}
