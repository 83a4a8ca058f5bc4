// Package domainerrors provides coded errors for the service layer.
//
// Stores return sentinel errors (pkg/platform/sentinel) describing
// infrastructure facts; services translate them into coded domain errors so
// transports can map them to status codes without inspecting error strings.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain error for transport mapping and metrics.
type Code string

const (
	// CodeBadRequest marks malformed requests (unreadable body, bad shape).
	CodeBadRequest Code = "bad_request"
	// CodeInvalidInput marks inputs that fail parsing at a trust boundary.
	CodeInvalidInput Code = "invalid_input"
	// CodeValidation marks field-level validation failures.
	CodeValidation Code = "validation_failed"
	// CodeNotFound marks lookups of entities that do not exist.
	CodeNotFound Code = "not_found"
	// CodeConflict marks uniqueness and state conflicts.
	CodeConflict Code = "conflict"
	// CodeForbidden marks operations the caller may not perform.
	CodeForbidden Code = "forbidden"
	// CodeInvariantViolation marks illegal state transitions.
	CodeInvariantViolation Code = "invariant_violation"
	// CodeUnavailable marks temporarily unavailable dependencies.
	CodeUnavailable Code = "unavailable"
	// CodeInternal marks unexpected failures.
	CodeInternal Code = "internal"
)

// Error is a coded domain error. Compare with HasCode, not string matching.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a coded error without a cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

// Is is a readability alias for HasCode at call sites that read like
// dErrors.Is(err, dErrors.CodeConflict).
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf extracts the code from err, defaulting to CodeInternal.
func CodeOf(err error) Code {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return CodeInternal
}

// MessageOf extracts the caller-safe message from err. Uncoded errors yield a
// generic message so internal details never leak through transports.
func MessageOf(err error) string {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return "internal error"
}

// ToHTTPStatus maps a code to its HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest, CodeInvalidInput, CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeInvariantViolation:
		return http.StatusConflict
	case CodeForbidden:
		return http.StatusForbidden
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
