// Package dErrors defines the typed error taxonomy for the representative
// lookup API. Services return these; the HTTP layer translates them into the
// external error envelope and status code via ToHTTPStatus.
package dErrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a stable, machine-readable error code exposed to API clients.
type Code string

const (
	CodeMissingParameter Code = "MISSING_PARAMETER"
	CodeInvalidAddress   Code = "INVALID_ADDRESS"
	CodeAddressNotFound  Code = "ADDRESS_NOT_FOUND"
	CodeExternalService  Code = "EXTERNAL_SERVICE_ERROR"
	CodeRateLimited      Code = "RATE_LIMIT_EXCEEDED"
	CodeNotFound         Code = "NOT_FOUND"
	CodeBadRequest       Code = "BAD_REQUEST"
	CodeInternal         Code = "INTERNAL_ERROR"
)

// Error carries a code, a human-readable message, optional details for
// debugging, and an optional wrapped cause.
type Error struct {
	Code    Code
	Message string
	Details string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New constructs a domain error with a code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf constructs a domain error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error, preserving the
// cause for errors.Is / errors.As checks.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// WithDetails returns a copy of the error carrying extra debugging detail.
// Details are surfaced in the error envelope, so keep them client-safe.
func (e *Error) WithDetails(details string) *Error {
	clone := *e
	clone.Details = details
	return &clone
}

// CodeOf extracts the domain code from an error chain.
// Unknown errors map to CodeInternal.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a domain code to its HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeMissingParameter, CodeInvalidAddress, CodeBadRequest:
		return http.StatusBadRequest
	case CodeAddressNotFound, CodeNotFound:
		return http.StatusNotFound
	case CodeRateLimited:
		return http.StatusTooManyRequests
	case CodeExternalService:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
