package application

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the requested event does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrSnapshotUnavailable is matched by every SnapshotUnavailableError.
	ErrSnapshotUnavailable = errors.New("application: snapshot unavailable")
)

// SnapshotUnavailableError reports that the snapshot of an event could not be
// fetched. It is never used to signal an event without issues.
type SnapshotUnavailableError struct {
	EventID string
	Err     error
}

func (e *SnapshotUnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("application: snapshot of event %q unavailable", e.EventID)
	}
	return fmt.Sprintf("application: snapshot of event %q unavailable: %v", e.EventID, e.Err)
}

func (e *SnapshotUnavailableError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrSnapshotUnavailable.
func (e *SnapshotUnavailableError) Is(target error) bool {
	return target == ErrSnapshotUnavailable
}

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

// merge copies entries from another validation error into the receiver.
func (v *ValidationError) merge(other *ValidationError) {
	if other == nil || len(other.FieldErrors) == 0 {
		return
	}
	for field, msg := range other.FieldErrors {
		v.add(field, msg)
	}
}
