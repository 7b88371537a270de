package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrorCode categorizes domain errors.
type ErrorCode string

const (
	// CodeNotFound indicates the referenced job or candidate does not exist.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeValidation indicates malformed input.
	CodeValidation ErrorCode = "VALIDATION"
)

// Error is a domain error returned by service operations.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Entity and ID identify the missing record for NOT_FOUND.
	Entity string
	ID     string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s: %s (%s=%s)", e.Code, e.Message, e.Entity, e.ID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsNotFound returns true if the error is a not-found error.
// Uses errors.As to handle wrapped errors.
func IsNotFound(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == CodeNotFound
	}
	return false
}

// IsValidation returns true if the error is a validation error.
// Uses errors.As to handle wrapped errors.
func IsValidation(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == CodeValidation
	}
	return false
}

// NewNotFoundError creates an Error for a missing record.
func NewNotFoundError(entity, id string) *Error {
	return &Error{
		Code:    CodeNotFound,
		Message: entity + " not found",
		Entity:  entity,
		ID:      id,
	}
}

// NewValidationError creates an Error for rejected input.
func NewValidationError(format string, args ...any) *Error {
	return &Error{
		Code:    CodeValidation,
		Message: fmt.Sprintf(format, args...),
	}
}

// validationError converts a validator failure into an Error, naming each
// offending field and the rule it broke.
func validationError(err error) *Error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &Error{Code: CodeValidation, Message: err.Error(), Err: err}
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
	}
	return &Error{
		Code:    CodeValidation,
		Message: strings.Join(parts, "; "),
		Err:     err,
	}
}
