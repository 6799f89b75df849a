package entity

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for domain layer operations.
var (
	// ErrNotFound indicates that a requested entity was not found
	ErrNotFound = errors.New("entity not found")

	// ErrBadRequest indicates a malformed identifier or a missing required parameter
	ErrBadRequest = errors.New("bad request")

	// ErrUnauthorized indicates missing or invalid credentials
	ErrUnauthorized = errors.New("unauthorized")

	// ErrValidationFailed indicates that validation checks have failed
	ErrValidationFailed = errors.New("validation failed")
)

// ValidationError represents a validation error with detailed field information.
// It implements the error interface and provides context about which field failed validation.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// ValidationErrors is the full list of violations found in one payload.
type ValidationErrors []ValidationError

// Error joins every violation into a single line.
func (e ValidationErrors) Error() string {
	parts := make([]string, 0, len(e))
	for i := range e {
		parts = append(parts, e[i].Error())
	}
	return strings.Join(parts, "; ")
}

// Is reports ErrValidationFailed so callers can use errors.Is.
func (e ValidationErrors) Is(target error) bool {
	return target == ErrValidationFailed
}

// Messages returns the human readable messages in order.
func (e ValidationErrors) Messages() []string {
	msgs := make([]string, 0, len(e))
	for _, v := range e {
		msgs = append(msgs, v.Message)
	}
	return msgs
}

// Has reports whether any violation concerns field.
func (e ValidationErrors) Has(field string) bool {
	for _, v := range e {
		if v.Field == field {
			return true
		}
	}
	return false
}
