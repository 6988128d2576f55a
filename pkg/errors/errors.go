// Package errors provides structured error types for the Typegrid application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - *_NOT_FOUND: Resource not found
//   - CONFLICT_*: Uniqueness violations
//   - STORAGE_*: Persistence failures
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidKey, "invalid type key: %s", key)
//	if errors.Is(err, errors.ErrCodeInvalidKey) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeStorage, origErr, "failed to save model %s", name)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput       Code = "INVALID_INPUT"
	ErrCodeInvalidModel       Code = "INVALID_MODEL"
	ErrCodeInvalidManifest    Code = "INVALID_MANIFEST"
	ErrCodeInvalidKey         Code = "INVALID_KEY"
	ErrCodeInvalidCategory    Code = "INVALID_CATEGORY"
	ErrCodeInvalidCardinality Code = "INVALID_CARDINALITY"
	ErrCodeInvalidFormat      Code = "INVALID_FORMAT"
	ErrCodeInvalidStyle       Code = "INVALID_STYLE"
	ErrCodeInvalidPath        Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound         Code = "NOT_FOUND"
	ErrCodeModelNotFound    Code = "MODEL_NOT_FOUND"
	ErrCodeTypeNotFound     Code = "TYPE_NOT_FOUND"
	ErrCodeRelationNotFound Code = "RELATION_NOT_FOUND"
	ErrCodeFileNotFound     Code = "FILE_NOT_FOUND"

	// Uniqueness conflicts
	ErrCodeConflict     Code = "CONFLICT"
	ErrCodeDuplicateKey Code = "CONFLICT_DUPLICATE_KEY"

	// Persistence errors
	ErrCodeStorage Code = "STORAGE_ERROR"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// NotFound reports whether err is any of the not-found codes. Handlers use
// it to map storage errors onto 404 responses.
func NotFound(err error) bool {
	switch GetCode(err) {
	case ErrCodeNotFound, ErrCodeModelNotFound, ErrCodeTypeNotFound,
		ErrCodeRelationNotFound, ErrCodeFileNotFound:
		return true
	}
	return false
}
