package persistence

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrDuplicate is returned when a unique key is already taken.
	ErrDuplicate = errors.New("persistence: duplicate record")
	// ErrForeignKeyViolation is returned when a row references a missing parent.
	ErrForeignKeyViolation = errors.New("persistence: foreign key violation")
	// ErrConstraintViolation is returned when a row breaks a CHECK or NOT NULL
	// constraint, or fails validation before reaching the database.
	ErrConstraintViolation = errors.New("persistence: constraint violation")
	// ErrDatabaseLocked is returned when SQLite reports a busy or locked
	// database. It is the only retryable error.
	ErrDatabaseLocked = errors.New("persistence: database locked")
)
