package migration

import (
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestConnectionManagerValidateConfig(t *testing.T) {
	t.Parallel()

	valid := DefaultSQLiteConfig("events.db")
	tests := []struct {
		name    string
		mutate  func(*SQLiteConfig)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*SQLiteConfig) {}},
		{name: "empty dsn", mutate: func(c *SQLiteConfig) { c.DSN = "" }, wantErr: "DSN"},
		{name: "negative busy timeout", mutate: func(c *SQLiteConfig) { c.BusyTimeout = -time.Second }, wantErr: "BusyTimeout"},
		{name: "bad journal mode", mutate: func(c *SQLiteConfig) { c.JournalMode = "FAST" }, wantErr: "journal mode"},
		{name: "bad synchronous mode", mutate: func(c *SQLiteConfig) { c.Synchronous = "SOMETIMES" }, wantErr: "synchronous"},
		{name: "negative pool size", mutate: func(c *SQLiteConfig) { c.MaxOpenConns = -1 }, wantErr: "MaxOpenConns"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			config := valid
			tt.mutate(&config)
			err := NewConnectionManager(config).ValidateConfig()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("expected valid config, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConnectionManagerDataSourceName(t *testing.T) {
	t.Parallel()

	dsn := NewConnectionManager(DefaultSQLiteConfig("events.db")).DataSourceName()
	path, rawQuery, ok := strings.Cut(dsn, "?")
	if !ok || path != "events.db" {
		t.Fatalf("unexpected dsn %q", dsn)
	}
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		t.Fatalf("parse dsn query: %v", err)
	}
	want := map[string]bool{
		"busy_timeout(30000)": true,
		"foreign_keys(1)":     true,
		"journal_mode(WAL)":   true,
		"synchronous(NORMAL)": true,
		"cache_size(-2000)":   true,
	}
	for _, pragma := range query["_pragma"] {
		delete(want, pragma)
	}
	if len(want) != 0 {
		t.Fatalf("missing pragmas %v in %q", want, dsn)
	}
}

func TestConnectionManagerCreatesDatabaseDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "events.db")
	db, err := NewConnectionManager(TempFileTestSQLiteConfig(path)).GetConnection()
	if err != nil {
		t.Fatalf("GetConnection returned error: %v", err)
	}
	defer db.Close()

	var enabled int
	if err := db.QueryRow("PRAGMA foreign_keys").Scan(&enabled); err != nil {
		t.Fatalf("read foreign_keys pragma: %v", err)
	}
	if enabled != 1 {
		t.Fatalf("expected foreign keys enabled, got %d", enabled)
	}
}
