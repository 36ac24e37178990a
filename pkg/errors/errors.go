// Package errors provides the structured error type shared by the
// Freshservice client, the sync pipeline and the CLI.
//
// An [Error] carries a [Code] that callers branch on and a message meant for
// people. Codes are grouped by who has to act:
//   - INVALID_*: the caller's input or configuration is wrong
//   - NOT_FOUND, FILE_NOT_FOUND: a named catalog record or file is missing
//   - NETWORK_ERROR, TIMEOUT, TRUNCATED, REJECTED: Freshservice failed,
//     refused, or returned only part of a collection
//
// Rate limits are not a code: [RateLimitedError] is consumed by the retry
// policy and never reaches callers.
//
// Usage:
//
//	err := errors.Wrap(errors.ErrCodeTruncated, cause, "%s: page %d", path, page)
//	if errors.Is(err, errors.ErrCodeTruncated) {
//	    // keep the partial collection
//	}
package errors

import (
	"errors"
	"fmt"
	"time"
)

// Code represents a machine-readable error code.
type Code string

// Error codes.
const (
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidID     Code = "INVALID_ID"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidDomain Code = "INVALID_DOMAIN"

	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	ErrCodeNetwork   Code = "NETWORK_ERROR"
	ErrCodeTimeout   Code = "TIMEOUT"
	ErrCodeTruncated Code = "TRUNCATED"
	ErrCodeRejected  Code = "REJECTED"
)

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New creates an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage renders err for a terminal: the messages along the chain
// without code prefixes, e.g. "delete software 42: network error: status 502".
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + UserMessage(e.Cause)
}

// RateLimitedError reports an HTTP 429 response. RetryAfter is the wait the
// server asked for; zero means the server did not say.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: retry after %s", e.RetryAfter)
	}
	return "rate limited"
}

// AsRateLimited reports whether err carries a *RateLimitedError and returns it.
func AsRateLimited(err error) (*RateLimitedError, bool) {
	var rl *RateLimitedError
	if errors.As(err, &rl) {
		return rl, true
	}
	return nil, false
}
