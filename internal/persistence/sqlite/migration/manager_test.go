package migration

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"testing/fstest"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := NewConnectionManager(InMemoryTestSQLiteConfig()).GetConnection()
	if err != nil {
		t.Fatalf("open in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testMigrations() fstest.MapFS {
	return fstest.MapFS{
		"001_events.sql": {Data: []byte(`
-- Description: Create events
CREATE TABLE events (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL DEFAULT ''
);`)},
		"002_rooms.sql": {Data: []byte(`
CREATE TABLE rooms (
	event_id TEXT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
	id TEXT NOT NULL,
	PRIMARY KEY (event_id, id)
);
CREATE INDEX idx_rooms_event ON rooms (event_id);`)},
	}
}

func TestManagerRunMigrations(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := openTestDB(t)
	manager := NewMigrationManager(NewFileScanner(), NewSQLiteExecutor(db), testMigrations(), nil)

	applied, err := manager.RunMigrations(ctx)
	if err != nil {
		t.Fatalf("RunMigrations returned error: %v", err)
	}
	if applied != 2 {
		t.Fatalf("expected 2 migrations applied, got %d", applied)
	}

	if _, err := db.ExecContext(ctx, `INSERT INTO events (id) VALUES ('e1')`); err != nil {
		t.Fatalf("insert into migrated table: %v", err)
	}
	if _, err := db.ExecContext(ctx, `INSERT INTO rooms (event_id, id) VALUES ('missing', 'r1')`); err == nil {
		t.Fatal("expected foreign key violation for unknown event")
	}

	again, err := manager.RunMigrations(ctx)
	if err != nil {
		t.Fatalf("second RunMigrations returned error: %v", err)
	}
	if again != 0 {
		t.Fatalf("expected no migrations on second run, got %d", again)
	}

	status, err := manager.Status(ctx)
	if err != nil {
		t.Fatalf("Status returned error: %v", err)
	}
	if status.CurrentVersion != "002" || status.PendingCount != 0 {
		t.Fatalf("unexpected status %+v", status)
	}
	if len(status.AppliedMigrations) != 2 || status.AppliedMigrations[0].Checksum == "" {
		t.Fatalf("expected applied rows with checksums, got %+v", status.AppliedMigrations)
	}
}

func TestManagerStopsAtFailingMigration(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := openTestDB(t)
	source := testMigrations()
	source["003_broken.sql"] = &fstest.MapFile{Data: []byte(`
CREATE TABLE speakers (id TEXT PRIMARY KEY);
INSERT INTO nowhere (id) VALUES ('x');`)}
	executor := NewSQLiteExecutor(db)
	manager := NewMigrationManager(NewFileScanner(), executor, source, nil)

	applied, err := manager.RunMigrations(ctx)
	if !errors.Is(err, ErrMigrationFailed) {
		t.Fatalf("expected ErrMigrationFailed, got %v", err)
	}
	if applied != 2 {
		t.Fatalf("expected the two valid migrations to be applied, got %d", applied)
	}

	ok, err := executor.IsVersionApplied(ctx, "003")
	if err != nil || ok {
		t.Fatalf("expected version 003 to be unapplied, got %v (err %v)", ok, err)
	}
	var count int
	if err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'speakers'`).Scan(&count); err != nil {
		t.Fatalf("query sqlite_master: %v", err)
	}
	if count != 0 {
		t.Fatal("expected failed migration to be rolled back")
	}
}

func TestManagerDetectsSequenceProblems(t *testing.T) {
	t.Parallel()

	t.Run("gap in versions", func(t *testing.T) {
		t.Parallel()
		source := fstest.MapFS{
			"001_a.sql": {Data: []byte("CREATE TABLE a (id TEXT);")},
			"003_c.sql": {Data: []byte("CREATE TABLE c (id TEXT);")},
		}
		manager := NewMigrationManager(NewFileScanner(), NewSQLiteExecutor(openTestDB(t)), source, nil)
		if _, err := manager.PendingMigrations(context.Background()); !errors.Is(err, ErrVersionConflict) {
			t.Fatalf("expected ErrVersionConflict, got %v", err)
		}
	})

	t.Run("applied version without file", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		db := openTestDB(t)
		manager := NewMigrationManager(NewFileScanner(), NewSQLiteExecutor(db), testMigrations(), nil)
		if _, err := manager.RunMigrations(ctx); err != nil {
			t.Fatalf("RunMigrations returned error: %v", err)
		}

		trimmed := fstest.MapFS{"001_events.sql": testMigrations()["001_events.sql"]}
		manager = NewMigrationManager(NewFileScanner(), NewSQLiteExecutor(db), trimmed, nil)
		if _, err := manager.PendingMigrations(ctx); !errors.Is(err, ErrVersionConflict) {
			t.Fatalf("expected ErrVersionConflict, got %v", err)
		}
	})
}
