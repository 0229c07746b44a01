package migration

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"strconv"
	"time"
)

// Manager orchestrates scanning, ordering and applying migrations.
type Manager struct {
	scanner  FileScanner
	executor Executor
	source   fs.FS
	logger   *slog.Logger
}

// NewMigrationManager wires a scanner and executor to a migration source.
// A nil logger discards migration logs.
func NewMigrationManager(scanner FileScanner, executor Executor, source fs.FS, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Manager{
		scanner:  scanner,
		executor: executor,
		source:   source,
		logger:   logger.With("component", "migration"),
	}
}

// RunMigrations applies every pending migration in version order and
// returns how many were applied. Execution stops at the first failure.
func (m *Manager) RunMigrations(ctx context.Context) (int, error) {
	started := time.Now()

	pending, err := m.PendingMigrations(ctx)
	if err != nil {
		m.logger.ErrorContext(ctx, "failed to determine pending migrations", "error", err)
		return 0, err
	}
	if len(pending) == 0 {
		m.logger.InfoContext(ctx, "schema up to date")
		return 0, nil
	}

	m.logger.InfoContext(ctx, "applying migrations", "pending", len(pending))
	for i, migration := range pending {
		migrationStarted := time.Now()
		logger := m.logger.With("version", migration.Version, "file", migration.FilePath)

		if err := m.executor.ExecuteMigration(ctx, migration); err != nil {
			logger.ErrorContext(ctx, "migration failed", "error", err)
			return i, NewMigrationError(migration.Version, migration.FilePath,
				"execute migration", fmt.Errorf("%w: %v", ErrMigrationFailed, err))
		}

		elapsed := time.Since(migrationStarted)
		if err := m.executor.RecordMigration(ctx, migration, elapsed); err != nil {
			logger.ErrorContext(ctx, "failed to record migration", "error", err)
			return i, NewMigrationError(migration.Version, migration.FilePath,
				"record migration", err)
		}
		logger.InfoContext(ctx, "migration applied",
			"description", migration.Description,
			"duration", elapsed,
		)
	}

	m.logger.InfoContext(ctx, "migrations complete", "applied", len(pending), "duration", time.Since(started))
	return len(pending), nil
}

// AppliedMigrations returns the rows of schema_migrations.
func (m *Manager) AppliedMigrations(ctx context.Context) ([]AppliedMigration, error) {
	if err := m.executor.InitializeVersionTable(ctx); err != nil {
		return nil, fmt.Errorf("initialize version table: %w", err)
	}
	applied, err := m.executor.GetAppliedVersions(ctx)
	if err != nil {
		return nil, fmt.Errorf("get applied versions: %w", err)
	}
	return applied, nil
}

// PendingMigrations returns the migrations not yet applied, after checking
// that the version sequence has no gaps and that every applied version
// still has a file.
func (m *Manager) PendingMigrations(ctx context.Context) ([]Migration, error) {
	available, err := m.scanner.ScanMigrations(m.source)
	if err != nil {
		return nil, fmt.Errorf("scan migrations: %w", err)
	}
	applied, err := m.AppliedMigrations(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateSequence(available, applied); err != nil {
		return nil, err
	}

	done := make(map[string]struct{}, len(applied))
	for _, a := range applied {
		done[a.Version] = struct{}{}
	}
	var pending []Migration
	for _, migration := range available {
		if _, ok := done[migration.Version]; !ok {
			pending = append(pending, migration)
		}
	}
	sortMigrations(pending)
	return pending, nil
}

// Status reports the current version and what remains to be applied.
func (m *Manager) Status(ctx context.Context) (Status, error) {
	pending, err := m.PendingMigrations(ctx)
	if err != nil {
		return Status{}, err
	}
	applied, err := m.AppliedMigrations(ctx)
	if err != nil {
		return Status{}, err
	}

	status := Status{
		PendingCount:      len(pending),
		AppliedMigrations: applied,
		PendingMigrations: pending,
	}
	highest := -1
	for _, a := range applied {
		if v, err := strconv.Atoi(a.Version); err == nil && v > highest {
			highest = v
			status.CurrentVersion = a.Version
		}
	}
	return status, nil
}

func validateSequence(available []Migration, applied []AppliedMigration) error {
	present := make(map[int]struct{}, len(available))
	lowest, highest := 0, -1
	for i, migration := range available {
		v, err := strconv.Atoi(migration.Version)
		if err != nil {
			return NewMigrationError(migration.Version, migration.FilePath, "validate sequence",
				fmt.Errorf("%w: version '%s' is not numeric", ErrInvalidVersion, migration.Version))
		}
		present[v] = struct{}{}
		if i == 0 || v < lowest {
			lowest = v
		}
		if v > highest {
			highest = v
		}
	}
	for v := lowest; v <= highest; v++ {
		if _, ok := present[v]; !ok {
			return fmt.Errorf("%w: missing migration version %03d in sequence", ErrVersionConflict, v)
		}
	}

	for _, a := range applied {
		v, err := strconv.Atoi(a.Version)
		if err != nil {
			return NewDatabaseError(a.Version, "", "validate sequence",
				fmt.Errorf("%w: applied version '%s' is not numeric", ErrVersionTableCorrupt, a.Version))
		}
		if _, ok := present[v]; !ok {
			return fmt.Errorf("%w: applied migration %03d not found in available migrations", ErrVersionConflict, v)
		}
	}
	return nil
}
