// Package migration applies versioned schema changes to the SQLite event
// store.
//
// Migration files are read from an fs.FS, usually one embedded in the
// binary, and must be named {version}_{description}.sql (for example
// "001_initial_schema.sql"). Each file runs inside its own transaction and
// is recorded in the schema_migrations table so it is applied only once.
//
// Example usage:
//
//	manager := migration.NewMigrationManager(
//		migration.NewFileScanner(),
//		migration.NewSQLiteExecutor(db),
//		migrationFiles,
//		logger,
//	)
//	if _, err := manager.RunMigrations(ctx); err != nil {
//		return err
//	}
package migration
