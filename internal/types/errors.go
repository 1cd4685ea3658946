package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a namespaced error code for assessment errors.
type ErrorCode string

// Parsing and validation error codes
const (
	SCHEMA_INVALID      ErrorCode = "SCHEMA_INVALID"
	VALIDATION_FAILED   ErrorCode = "VALIDATION_FAILED"
	CYCLIC_DEPENDENCY   ErrorCode = "CYCLIC_DEPENDENCY"
	UNKNOWN_PROTOCOL    ErrorCode = "UNKNOWN_PROTOCOL"
	WORKFLOW_YAML_ERROR ErrorCode = "WORKFLOW_YAML_ERROR"
)

// Simulation error codes
const (
	INVALID_PARAMETER    ErrorCode = "INVALID_PARAMETER"
	INVALID_DISTRIBUTION ErrorCode = "INVALID_DISTRIBUTION"
)

// Configuration error codes
const (
	CONFIG_LOAD_FAILED       ErrorCode = "CONFIG_LOAD_FAILED"
	CONFIG_PARSE_FAILED      ErrorCode = "CONFIG_PARSE_FAILED"
	CONFIG_VALIDATION_FAILED ErrorCode = "CONFIG_VALIDATION_FAILED"
)

// Assessment error codes
const (
	ASSESSMENT_FAILED ErrorCode = "ASSESSMENT_FAILED"
)

// Error represents a structured error with error code, message, and optional cause.
// It supports error wrapping so callers can use errors.Is and errors.As against
// the underlying failure while still surfacing one top-level reason.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface, returning a formatted error message.
// Format: "[CODE] message" or "[CODE] message: cause" if cause exists.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error for error unwrapping chains.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the target error matches this error by error code.
// Returns true if target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return e.Code == other.Code
	}
	return false
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// NewErrorf creates a new Error with a formatted message.
func NewErrorf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapError creates a new Error that wraps an existing error.
// The wrapped error is accessible via Unwrap() for error chain inspection.
func WrapError(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// CodeOf extracts the ErrorCode from an error chain.
// Returns an empty code if the chain contains no *Error.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
