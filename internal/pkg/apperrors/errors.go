package apperrors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound = errors.New("resource not found")

	ErrInvalidArgument = errors.New("invalid argument")

	ErrValidation = errors.New("validation failed")

	ErrDatabase = errors.New("database error")
)

// FieldErrors collects every failed field constraint of a request, keyed by the
// field's wire name.
type FieldErrors struct {
	Fields map[string]string
}

func NewFieldErrors() *FieldErrors {
	return &FieldErrors{Fields: make(map[string]string)}
}

// Add keeps the first message recorded for a field.
func (e *FieldErrors) Add(field, message string) {
	if _, exists := e.Fields[field]; exists {
		return
	}
	e.Fields[field] = message
}

func (e *FieldErrors) Empty() bool {
	return len(e.Fields) == 0
}

func (e *FieldErrors) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(parts, "; "))
}

func (e *FieldErrors) Unwrap() error {
	return ErrValidation
}

type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func WrapDatabaseError(cause error, message string) error {
	return &AppError{
		Code:    "DB_ERROR",
		Message: message,
		Cause:   fmt.Errorf("%w: %w", ErrDatabase, cause),
	}
}

// NewInvalidArgument builds a client error whose Message is safe to return
// verbatim in a response body.
func NewInvalidArgument(message string) error {
	return &AppError{
		Code:    "INVALID_ARGUMENT",
		Message: message,
		Cause:   ErrInvalidArgument,
	}
}
