package domain

import (
	"errors"
	"strings"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a payload or entity fails validation.
	// It is wrapped by *ValidationError, which carries the per-field details.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when a task ID is malformed.
	ErrInvalidID = errors.New("invalid ID")
)

// FieldError describes a single offending field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError collects every field that failed validation.
// Fields are kept in the order they were reported.
type ValidationError struct {
	errs []FieldError
}

// NewValidationError creates a ValidationError holding a single field error.
func NewValidationError(field, message string) *ValidationError {
	v := &ValidationError{}
	v.Add(field, message)
	return v
}

// Add records a failure for field. A field is only reported once; the first
// message wins.
func (v *ValidationError) Add(field, message string) {
	for _, fe := range v.errs {
		if fe.Field == field {
			return
		}
	}
	v.errs = append(v.errs, FieldError{Field: field, Message: message})
}

// HasErrors reports whether any field failed.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.errs) > 0
}

// Errors returns the field errors in reporting order.
func (v *ValidationError) Errors() []FieldError {
	if v == nil {
		return nil
	}
	out := make([]FieldError, len(v.errs))
	copy(out, v.errs)
	return out
}

// Fields returns the offending field names in reporting order.
func (v *ValidationError) Fields() []string {
	if v == nil {
		return nil
	}
	names := make([]string, 0, len(v.errs))
	for _, fe := range v.errs {
		names = append(names, fe.Field)
	}
	return names
}

// Error joins the field messages, e.g. "no task title provided; no task description provided".
func (v *ValidationError) Error() string {
	if !v.HasErrors() {
		return ErrValidation.Error()
	}
	msgs := make([]string, 0, len(v.errs))
	for _, fe := range v.errs {
		msgs = append(msgs, fe.Message)
	}
	return strings.Join(msgs, "; ")
}

// Unwrap allows errors.Is(err, ErrValidation).
func (v *ValidationError) Unwrap() error {
	return ErrValidation
}
