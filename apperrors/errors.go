// Package apperrors holds the typed errors shared across the core,
// so the boundary layer can map them to consistent responses.
package apperrors

import "fmt"

// SourceUnavailableError indicates an upstream dataset could not be fetched.
// The refresh that triggered the fetch aborts without touching the store.
type SourceUnavailableError struct {
	Err    error
	Source string
}

// NewSourceUnavailable creates a new SourceUnavailableError
func NewSourceUnavailable(source string, err error) *SourceUnavailableError {
	return &SourceUnavailableError{
		Source: source,
		Err:    err,
	}
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("source %q unavailable: %s", e.Source, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error {
	return e.Err
}

// PersistenceError indicates the store transaction failed.
// The batch reports zero partial effect
type PersistenceError struct {
	Err error
}

// NewPersistence creates a new PersistenceError
func NewPersistence(err error) *PersistenceError {
	return &PersistenceError{
		Err: err,
	}
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure: %s", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// ValidationError indicates bad query input, rejected before touching the store
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidation creates a new ValidationError
func NewValidation(field, reason string) *ValidationError {
	return &ValidationError{
		Field:  field,
		Reason: reason,
	}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError indicates a single-record lookup or delete missed
type NotFoundError struct {
	Name string
}

// NewNotFound creates a new NotFoundError
func NewNotFound(name string) *NotFoundError {
	return &NotFoundError{
		Name: name,
	}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("country %q not found", e.Name)
}
