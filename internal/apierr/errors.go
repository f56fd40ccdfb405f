package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is an API-facing failure with a stable machine-readable code. The
// code is part of the contract with the frontend; messages are free-form.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	// Fields carries field-level validation detail for form UIs.
	Fields map[string]string `json:"fields,omitempty"`
	cause  error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// WithCause attaches an underlying error for server-side logging; it is
// never serialized to the client.
func (e *Error) WithCause(err error) *Error {
	clone := *e
	clone.cause = err
	return &clone
}

// WithField adds field-level validation detail.
func (e *Error) WithField(field, detail string) *Error {
	clone := *e
	clone.Fields = map[string]string{}
	for k, v := range e.Fields {
		clone.Fields[k] = v
	}
	clone.Fields[field] = detail
	return &clone
}

func Unauthenticated(msg string) *Error {
	return &Error{Status: http.StatusUnauthorized, Code: "unauthenticated", Message: msg}
}

func Forbidden(code, msg string) *Error {
	return &Error{Status: http.StatusForbidden, Code: code, Message: msg}
}

func NotFound(code, msg string) *Error {
	return &Error{Status: http.StatusNotFound, Code: code, Message: msg}
}

func Validation(code, msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: code, Message: msg}
}

func Conflict(code, msg string) *Error {
	return &Error{Status: http.StatusConflict, Code: code, Message: msg}
}

// Expired failures return 400 with a distinct code so clients can offer a
// retry instead of treating the claim as dead.
func Expired(code, msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: code, Message: msg}
}

// Chain wraps an RPC or on-chain failure surfaced to the caller. Settlement
// paths use this; display paths degrade to zero instead.
func Chain(code, msg string, cause error) *Error {
	return (&Error{Status: http.StatusBadRequest, Code: code, Message: msg}).WithCause(cause)
}

func Internal(msg string, cause error) *Error {
	return (&Error{Status: http.StatusInternalServerError, Code: "internal_error", Message: msg}).WithCause(cause)
}

// From extracts an *Error, or wraps unknown errors as a generic 500 so
// internal detail never leaks to the client.
func From(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return Internal("internal server error", err)
}
