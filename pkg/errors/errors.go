// Package errors provides structured error types for histochart.
//
// The chart component fails fast: every error it returns carries a
// machine-readable [Code] so callers can tell a bad configuration apart
// from a measurement made at the wrong point of the component lifecycle.
//
// # Error Codes
//
//   - CONFIGURATION_ERROR: missing or invalid chart configuration (width,
//     height, data, domain, bar width, easing name)
//   - MEASUREMENT_ERROR: a bounding box was requested for a node that is
//     not part of a mounted document
//   - INVALID_*: CLI input that could not be parsed
//   - INTERNAL_ERROR: unexpected failures (external converters and the like)
//
// # Usage
//
//	err := errors.New(errors.ErrCodeConfiguration, "width must be positive, got %v", w)
//	if errors.Is(err, errors.ErrCodeConfiguration) {
//	    // reject the props
//	}
//
//	err := errors.Wrap(errors.ErrCodeInvalidInput, origErr, "parse %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Component errors
	ErrCodeConfiguration Code = "CONFIGURATION_ERROR"
	ErrCodeMeasurement   Code = "MEASUREMENT_ERROR"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"

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

// Configuration is shorthand for New(ErrCodeConfiguration, ...).
func Configuration(format string, args ...any) *Error {
	return New(ErrCodeConfiguration, format, args...)
}

// Measurement is shorthand for New(ErrCodeMeasurement, ...).
func Measurement(format string, args ...any) *Error {
	return New(ErrCodeMeasurement, format, args...)
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
