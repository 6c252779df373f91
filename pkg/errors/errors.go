// Package errors provides the coded error type shared by every pixelcard
// component.
//
// Codes group failures by the build phase that raised them:
//   - COMPOSITION: duplicate names, invalid connections, empty parameter
//     intersections. Fatal.
//   - PLACEMENT: modules left unplaced by layout resolution. Fatal at render
//     time and always carries the offending module path.
//   - ROUTING_CONFLICT: overlapping routing intents of equal priority. A
//     warning; resolution falls back to declaration order.
//   - EXTERNAL_SERVICE: picker misses, validation and transformer failures.
//
// Usage:
//
//	err := errors.New(errors.ErrCodeComposition, "duplicate child %q", name).At(path)
//	if errors.Is(err, errors.ErrCodeComposition) {
//	    // abort the build
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

const (
	ErrCodeComposition     Code = "COMPOSITION"
	ErrCodePlacement       Code = "PLACEMENT"
	ErrCodeRoutingConflict Code = "ROUTING_CONFLICT"
	ErrCodeExternalService Code = "EXTERNAL_SERVICE"

	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidScript Code = "INVALID_SCRIPT"
	ErrCodeInternal      Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code, an optional node path and an
// optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Path    string // Full path of the offending node, if any
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// At returns e with its node path set.
func (e *Error) At(path string) *Error {
	e.Path = path
	return e
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
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// GetPath extracts the node path from an error, if available.
func GetPath(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Path
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the path and message without the code prefix.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Path != "" {
			return e.Path + ": " + e.Message
		}
		return e.Message
	}
	return err.Error()
}
