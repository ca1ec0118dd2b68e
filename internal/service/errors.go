package service

import (
	"errors"
	"fmt"
)

// ErrNotFound covers both a genuinely missing transaction and one owned by a
// different owner; callers must not be able to tell them apart.
var ErrNotFound = errors.New("transaction not found")

// ValidationError rejects a mutation before any storage access, carrying a
// field-specific human-readable reason.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
