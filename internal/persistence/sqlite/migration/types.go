package migration

import (
	"context"
	"io/fs"
	"time"
)

// Migration is one versioned schema change.
type Migration struct {
	Version     string // e.g. "001"
	Description string
	SQL         string
	FilePath    string // path inside the source fs.FS
	Checksum    string
}

// AppliedMigration is a row of the schema_migrations table.
type AppliedMigration struct {
	Version       string
	AppliedAt     time.Time
	ExecutionTime time.Duration
	Checksum      string
}

// Status summarizes the migration state of a database.
type Status struct {
	CurrentVersion    string
	PendingCount      int
	AppliedMigrations []AppliedMigration
	PendingMigrations []Migration
}

// FileScanner discovers migration files.
type FileScanner interface {
	// ScanMigrations returns the migrations found at the root of fsys,
	// ordered by version.
	ScanMigrations(fsys fs.FS) ([]Migration, error)

	// ValidateFileName checks the {version}_{description}.sql convention.
	ValidateFileName(filename string) error
}

// Executor runs migrations against a database and tracks what was applied.
type Executor interface {
	ExecuteMigration(ctx context.Context, migration Migration) error
	InitializeVersionTable(ctx context.Context) error
	RecordMigration(ctx context.Context, migration Migration, executionTime time.Duration) error
	IsVersionApplied(ctx context.Context, version string) (bool, error)
	GetAppliedVersions(ctx context.Context) ([]AppliedMigration, error)
}
