package migration

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteConfig holds SQLite-specific database configuration.
type SQLiteConfig struct {
	// DSN is the database file path, or ":memory:".
	DSN string

	// BusyTimeout sets how long to wait for database locks.
	BusyTimeout time.Duration

	EnableForeignKeys bool

	// JournalMode sets the SQLite journal mode (WAL, DELETE, MEMORY, ...).
	JournalMode string

	// Synchronous sets the synchronous mode (FULL, NORMAL, OFF).
	Synchronous string

	// CacheSize sets the page cache size (negative values are KiB).
	CacheSize int

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// ConnectionManager opens SQLite connections with the configured pragmas.
type ConnectionManager struct {
	config SQLiteConfig
}

// NewConnectionManager creates a new SQLite connection manager.
func NewConnectionManager(config SQLiteConfig) *ConnectionManager {
	return &ConnectionManager{config: config}
}

// GetConnection validates the configuration, creates the database directory
// and returns a pinged *sql.DB.
func (cm *ConnectionManager) GetConnection() (*sql.DB, error) {
	if err := cm.ValidateConfig(); err != nil {
		return nil, fmt.Errorf("invalid SQLite configuration: %w", err)
	}
	if err := cm.createDatabaseDir(); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", cm.DataSourceName())
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	if cm.config.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cm.config.MaxOpenConns)
	}
	if cm.config.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cm.config.MaxIdleConns)
	}
	if cm.config.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cm.config.ConnMaxLifetime)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}
	return db, nil
}

// DataSourceName renders the DSN with one _pragma parameter per setting.
// The driver applies them to every new connection in the pool.
func (cm *ConnectionManager) DataSourceName() string {
	pragmas := []string{
		fmt.Sprintf("busy_timeout(%d)", cm.config.BusyTimeout.Milliseconds()),
	}
	if cm.config.EnableForeignKeys {
		pragmas = append(pragmas, "foreign_keys(1)")
	}
	if cm.config.JournalMode != "" {
		pragmas = append(pragmas, fmt.Sprintf("journal_mode(%s)", cm.config.JournalMode))
	}
	if cm.config.Synchronous != "" {
		pragmas = append(pragmas, fmt.Sprintf("synchronous(%s)", cm.config.Synchronous))
	}
	if cm.config.CacheSize != 0 {
		pragmas = append(pragmas, fmt.Sprintf("cache_size(%d)", cm.config.CacheSize))
	}

	query := url.Values{"_pragma": pragmas}
	separator := "?"
	if strings.Contains(cm.config.DSN, "?") {
		separator = "&"
	}
	return cm.config.DSN + separator + query.Encode()
}

func (cm *ConnectionManager) createDatabaseDir() error {
	if isMemoryDSN(cm.config.DSN) {
		return nil
	}
	dir := filepath.Dir(cm.config.DSN)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create database directory %s: %w", dir, err)
	}
	return nil
}

// ValidateConfig validates the SQLite configuration.
func (cm *ConnectionManager) ValidateConfig() error {
	if cm.config.DSN == "" {
		return fmt.Errorf("DSN cannot be empty")
	}
	if cm.config.BusyTimeout < 0 {
		return fmt.Errorf("BusyTimeout cannot be negative")
	}

	validJournalModes := map[string]bool{
		"DELETE": true, "TRUNCATE": true, "PERSIST": true,
		"MEMORY": true, "WAL": true, "OFF": true,
	}
	if cm.config.JournalMode != "" && !validJournalModes[cm.config.JournalMode] {
		return fmt.Errorf("invalid journal mode: %s", cm.config.JournalMode)
	}

	validSyncModes := map[string]bool{"OFF": true, "NORMAL": true, "FULL": true, "EXTRA": true}
	if cm.config.Synchronous != "" && !validSyncModes[cm.config.Synchronous] {
		return fmt.Errorf("invalid synchronous mode: %s", cm.config.Synchronous)
	}

	if cm.config.MaxOpenConns < 0 {
		return fmt.Errorf("MaxOpenConns cannot be negative")
	}
	if cm.config.MaxIdleConns < 0 {
		return fmt.Errorf("MaxIdleConns cannot be negative")
	}
	if cm.config.ConnMaxLifetime < 0 {
		return fmt.Errorf("ConnMaxLifetime cannot be negative")
	}
	return nil
}

func isMemoryDSN(dsn string) bool {
	return dsn == ":memory:" || strings.HasPrefix(dsn, "file::memory:")
}

// DefaultSQLiteConfig returns a SQLite configuration with sensible defaults.
func DefaultSQLiteConfig(databasePath string) SQLiteConfig {
	return SQLiteConfig{
		DSN:               databasePath,
		BusyTimeout:       30 * time.Second,
		EnableForeignKeys: true,
		JournalMode:       "WAL",
		Synchronous:       "NORMAL",
		CacheSize:         -2000,
		MaxOpenConns:      25,
		MaxIdleConns:      5,
		ConnMaxLifetime:   5 * time.Minute,
	}
}

// InMemoryTestSQLiteConfig returns a configuration for in-memory tests.
// An in-memory database lives on one connection, so the pool is capped at 1.
func InMemoryTestSQLiteConfig() SQLiteConfig {
	return SQLiteConfig{
		DSN:               ":memory:",
		BusyTimeout:       5 * time.Second,
		EnableForeignKeys: true,
		JournalMode:       "MEMORY",
		Synchronous:       "OFF",
		CacheSize:         -1000,
		MaxOpenConns:      1,
		MaxIdleConns:      1,
	}
}

// TempFileTestSQLiteConfig returns a configuration for temp-file tests.
func TempFileTestSQLiteConfig(tempFilePath string) SQLiteConfig {
	return SQLiteConfig{
		DSN:               tempFilePath,
		BusyTimeout:       5 * time.Second,
		EnableForeignKeys: true,
		JournalMode:       "MEMORY",
		Synchronous:       "OFF",
		CacheSize:         -1000,
		MaxOpenConns:      5,
		MaxIdleConns:      2,
		ConnMaxLifetime:   time.Minute,
	}
}
