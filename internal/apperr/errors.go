// Package apperr defines the error taxonomy shared by all services. Handlers
// translate these into HTTP status codes; everything else wraps with %w.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers both genuinely absent resources and ownership
	// mismatches, so a caller cannot probe for documents they do not own.
	ErrNotFound = errors.New("resource not found")

	// ErrAccountCreation signals that an account insert succeeded but the
	// re-read came back empty, i.e. the persistence layer is inconsistent.
	ErrAccountCreation = errors.New("failed to create account")

	// ErrValidation marks requests rejected before any persistence or
	// external call.
	ErrValidation = errors.New("validation failed")
)

// Validation builds a field-specific validation error.
func Validation(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Persistence wraps a failed query so callers can distinguish storage faults
// from domain outcomes.
func Persistence(op string, err error) error {
	return fmt.Errorf("persistence: %s: %w", op, err)
}

func IsNotFound(err error) bool   { return errors.Is(err, ErrNotFound) }
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// HTTPStatus maps a taxonomy error onto the response code handlers should
// send. Anything unrecognized is a server fault.
func HTTPStatus(err error) int {
	switch {
	case IsValidation(err):
		return 400
	case IsNotFound(err):
		return 404
	default:
		return 500
	}
}
