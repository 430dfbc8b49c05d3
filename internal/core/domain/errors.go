package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent editing failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidReference indicates a page index or annotation id that does
	// not resolve. The command carrying it is dropped; the session continues.
	ErrInvalidReference = errors.New("invalid reference")

	// ErrDegenerateStroke indicates a gesture that never left its start point.
	// It is discarded silently and never surfaced to the user.
	ErrDegenerateStroke = errors.New("degenerate stroke")

	// ErrPersistence indicates an autosave write failed.
	// The write is retried on the next tick.
	ErrPersistence = errors.New("persistence failure")

	// ErrSessionClosed indicates the editing session timeline is no longer running.
	ErrSessionClosed = errors.New("session closed")
)

// PersistenceError describes a failed write of a document snapshot.
type PersistenceError struct {
	// Path is the backing path that could not be written.
	Path string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persisting %s: %v", e.Path, e.Err)
}

// Unwrap exposes both ErrPersistence and the underlying cause to errors.Is.
func (e *PersistenceError) Unwrap() []error {
	return []error{ErrPersistence, e.Err}
}

// invalidRef builds an ErrInvalidReference with context.
func invalidRef(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidReference}, args...)...)
}
