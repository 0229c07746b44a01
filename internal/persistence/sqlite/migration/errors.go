package migration

import (
	"errors"
	"fmt"
)

var (
	// ErrMigrationFailed indicates that a migration execution failed.
	ErrMigrationFailed = errors.New("migration execution failed")

	// ErrInvalidMigrationFile indicates that a migration file is malformed.
	ErrInvalidMigrationFile = errors.New("invalid migration file format")

	// ErrVersionConflict indicates a gap in the version sequence or an
	// applied version without a file.
	ErrVersionConflict = errors.New("migration version conflict")

	// ErrInvalidVersion indicates that a migration version is not numeric.
	ErrInvalidVersion = errors.New("invalid migration version")

	// ErrDuplicateVersion indicates that two files share a version.
	ErrDuplicateVersion = errors.New("duplicate migration version")

	// ErrVersionTableCorrupt indicates unreadable schema_migrations rows.
	ErrVersionTableCorrupt = errors.New("schema_migrations table is corrupted")
)

// MigrationError wraps migration-specific errors with the file involved.
type MigrationError struct {
	Version   string
	FilePath  string
	Operation string
	Err       error
}

func (e *MigrationError) Error() string {
	if e.Version != "" {
		return fmt.Sprintf("migration %s (%s): %s: %v", e.Version, e.FilePath, e.Operation, e.Err)
	}
	return fmt.Sprintf("migration error (%s): %s: %v", e.FilePath, e.Operation, e.Err)
}

func (e *MigrationError) Unwrap() error {
	return e.Err
}

// NewMigrationError creates a new MigrationError with context.
func NewMigrationError(version, filePath, operation string, err error) *MigrationError {
	return &MigrationError{
		Version:   version,
		FilePath:  filePath,
		Operation: operation,
		Err:       err,
	}
}

// FileSystemError wraps failures reading the migration source.
type FileSystemError struct {
	Path      string
	Operation string
	Err       error
}

func (e *FileSystemError) Error() string {
	return fmt.Sprintf("filesystem error during %s of %s: %v", e.Operation, e.Path, e.Err)
}

func (e *FileSystemError) Unwrap() error {
	return e.Err
}

// NewFileSystemError creates a new FileSystemError.
func NewFileSystemError(path, operation string, err error) *FileSystemError {
	return &FileSystemError{
		Path:      path,
		Operation: operation,
		Err:       err,
	}
}

// DatabaseError wraps database failures during migration operations.
type DatabaseError struct {
	Version   string
	Query     string
	Operation string
	Err       error
}

func (e *DatabaseError) Error() string {
	if e.Version != "" {
		return fmt.Sprintf("database error in migration %s during %s: %v", e.Version, e.Operation, e.Err)
	}
	return fmt.Sprintf("database error during %s: %v", e.Operation, e.Err)
}

func (e *DatabaseError) Unwrap() error {
	return e.Err
}

// NewDatabaseError creates a new DatabaseError.
func NewDatabaseError(version, query, operation string, err error) *DatabaseError {
	return &DatabaseError{
		Version:   version,
		Query:     query,
		Operation: operation,
		Err:       err,
	}
}
