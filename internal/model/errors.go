package model

import (
	"errors"
	"fmt"
)

// ErrNotAMapping signals input that is not a document-shaped record
var ErrNotAMapping = errors.New("document is not a mapping")

// DecodeError represents structural problems with a document record
type DecodeError struct {
	Field   string
	Message string
	Cause   error
}

func (e *DecodeError) Error() string {
	field := e.Field
	if field == "" {
		field = "document"
	}
	if e.Cause != nil {
		return fmt.Sprintf("decode %s: %s (%v)", field, e.Message, e.Cause)
	}
	return fmt.Sprintf("decode %s: %s", field, e.Message)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// NewDecodeError creates a new decode error
func NewDecodeError(field, message string, cause error) *DecodeError {
	return &DecodeError{
		Field:   field,
		Message: message,
		Cause:   cause,
	}
}

// ValidationError represents a rejected reference lookup or field value
type ValidationError struct {
	Field   string
	Value   interface{}
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("validation failed on %s: %s (value=%v, rule=%s)", e.Field, e.Message, e.Value, e.Rule)
	}
	return fmt.Sprintf("validation failed on %s: %s (rule=%s)", e.Field, e.Message, e.Rule)
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value interface{}, rule, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Rule:    rule,
		Message: message,
	}
}
