// Package common defines shared constants and sentinel errors used across
// the server layers. Callers should use errors.Is to match these values.
package common

import (
	"errors"
	"sort"
	"strings"
)

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")

	// Login failure. Whether the email or the password was wrong is only logged.
	ErrInvalidCredentials = errors.New("unable to log in")
)

// ValidationError reports rejected input. Fields maps a field name to the
// reason it was rejected and may be empty when the failure is not tied to a
// single field.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

// NewValidationError builds a ValidationError without field details.
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

// NewFieldError builds a ValidationError for a single field.
func NewFieldError(field, reason string) *ValidationError {
	return &ValidationError{Message: "validation failed", Fields: map[string]string{field: reason}}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return e.Message + ": " + strings.Join(parts, "; ")
}

// Is lets errors.Is(err, ErrorValidation) match any *ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrorValidation
}
