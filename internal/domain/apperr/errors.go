// Package apperr defines the coded errors shared across the service.
// Adapters return plain wrapped errors; usecases classify them with a Code
// so the outer layers (HTTP, CLI, MCP) can decide what to expose.
package apperr

import (
	"context"
	"errors"
	"fmt"
)

// Code identifies an error condition.
type Code string

const (
	CodeStartupConfig Code = "STARTUP_CONFIG"
	CodeLoad          Code = "LOAD_ERROR"
	CodeInvalidInput  Code = "INVALID_INPUT"
	CodeUpstream      Code = "UPSTREAM_SERVICE"
	CodeInternal      Code = "INTERNAL_ERROR"
)

// ErrTimeout is the cause attached to upstream errors raised by a deadline.
var ErrTimeout = errors.New("completion request timed out")

// Error is a coded error with optional details and cause.
type Error struct {
	Code    Code
	Message string
	Details map[string]interface{}
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail attaches a key/value detail and returns the same error.
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates an error without a cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates an error with a cause.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Cause: err}
}

// InvalidInput reports a rejected caller input.
func InvalidInput(message string) *Error {
	return New(CodeInvalidInput, message)
}

// StartupConfig reports a configuration problem that must stop the process.
func StartupConfig(message string) *Error {
	return New(CodeStartupConfig, message)
}

// LoadFailed reports that the documents directory could not be read.
func LoadFailed(dir string, err error) *Error {
	return Wrap(err, CodeLoad, fmt.Sprintf("cannot read documents directory %s", dir)).
		WithDetail("dir", dir)
}

// Upstream classifies a completion failure. Deadline and network timeout
// errors get ErrTimeout in their cause chain so callers can match it.
func Upstream(provider string, err error) *Error {
	if isTimeout(err) {
		err = fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return Wrap(err, CodeUpstream, "completion service failed").
		WithDetail("provider", provider)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}

// CodeOf returns the first code found in err's chain, or "" if none.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
