package service

import (
	"errors"
	"fmt"

	"docextract/internal/extraction"
)

var (
	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned when a requested resource is not found.
	ErrNotFound = errors.New("not found")
	// ErrExternalService is returned when an external service call fails.
	ErrExternalService = errors.New("external service error")
	// ErrUnprocessable is returned when a document cannot be extracted,
	// e.g. it has no text or nothing in it matches the profile.
	ErrUnprocessable = errors.New("document cannot be processed")
)

// ValidationError represents a validation error with a field name.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// WrapError wraps an error with additional context.
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// classify tags a pipeline error with the service error it maps to.
// The original error stays reachable with errors.Is and errors.As.
func classify(err error) error {
	if err == nil {
		return nil
	}
	switch extraction.KindOf(err) {
	case extraction.KindExternal:
		return fmt.Errorf("%w: %w", ErrExternalService, err)
	case extraction.KindUnknown:
		return err
	default:
		return fmt.Errorf("%w: %w", ErrUnprocessable, err)
	}
}
