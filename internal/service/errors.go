package service

import (
	"errors"
	"strings"
)

// ErrNotFound marks an id that does not resolve to a live record.
var ErrNotFound = errors.New("not found")

// FieldError carries field-level detail for a rejected payload.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError rejects a malformed mutation payload before any storage
// write happens.
type ValidationError struct {
	Details []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return "validation error"
	}
	msgs := make([]string, len(e.Details))
	for i, d := range e.Details {
		msgs[i] = d.Field + ": " + d.Message
	}
	return "validation error: " + strings.Join(msgs, "; ")
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Details: []FieldError{{Field: field, Message: message}}}
}
