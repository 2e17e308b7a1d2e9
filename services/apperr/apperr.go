// Package apperr defines the error kinds shared by the services and the
// HTTP layer. Services wrap one of these with %w; handlers map them to a
// status code with errors.Is.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced entity is absent.
	ErrNotFound = errors.New("not found")

	// ErrInvariantViolation is returned when inputs break a data invariant,
	// for example a completed enrollment without a completion date.
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrConflict is returned when the request clashes with existing state.
	ErrConflict = errors.New("conflict")

	// ErrPaymentRequired is returned when a paid course is enrolled directly.
	ErrPaymentRequired = errors.New("payment required")

	// ErrPersistence is returned when a storage write fails.
	ErrPersistence = errors.New("persistence failure")
)

// NotFound wraps ErrNotFound with the entity name.
func NotFound(entity string) error {
	return fmt.Errorf("%s %w", entity, ErrNotFound)
}

// Invariant wraps ErrInvariantViolation with a formatted reason.
func Invariant(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvariantViolation, fmt.Sprintf(format, args...))
}

// Conflict wraps ErrConflict with a formatted reason.
func Conflict(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// Persistence wraps a storage error so callers can tell it apart from
// validation failures while keeping the cause.
func Persistence(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}
