package errors

import (
	"errors"
	"fmt"
)

// Error kinds shared by repositories and services. Wrap them with
// fmt.Errorf("...: %w", ErrX) so Map can classify the failure.
var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrUnavailable      = errors.New("upstream unavailable")
	ErrValidation       = errors.New("validation failed")
	ErrConflict         = errors.New("conflict")
	ErrUnauthenticated  = errors.New("unauthenticated")

	ErrEventFull         = fmt.Errorf("event is full: %w", ErrConflict)
	ErrInvalidTransition = fmt.Errorf("invalid relation transition: %w", ErrConflict)
	ErrFeedInterrupted   = fmt.Errorf("feed interrupted: %w", ErrUnavailable)
)

// Validation wraps a field-level message as a validation error.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrValidation)
}

// NotFound wraps the missing entity name as a not-found error.
func NotFound(what string) error {
	return fmt.Errorf("%s: %w", what, ErrNotFound)
}
