// Package domainerrors defines the error vocabulary services use to talk to the
// transport layer. Stores never return these; they return sentinel errors which
// services translate.
package domainerrors

import (
	"errors"
	"net/http"
)

// Code classifies a domain error. The string value is what clients see in the
// "error" field of the JSON envelope.
type Code string

const (
	CodeBadRequest   Code = "bad_request"
	CodeValidation   Code = "validation_error"
	CodeConflict     Code = "conflict"
	CodeNotFound     Code = "not_found"
	CodeUnauthorized Code = "unauthorized"
	CodeInternal     Code = "internal_error"
)

// Error is a coded domain error. Reason and Fields are optional detail that
// validation failures carry for the client.
type Error struct {
	Code    Code
	Message string
	Reason  string
	Fields  []string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches on code and message so tests can compare against a freshly built error.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// New builds a domain error with the given code.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Wrap attaches a code to an underlying error. The cause stays reachable through
// errors.Is/As but is never rendered to clients.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, cause: err}
}

// Validation builds a validation error with a machine-readable reason.
func Validation(reason, msg string, fields ...string) *Error {
	return &Error{Code: CodeValidation, Message: msg, Reason: reason, Fields: fields}
}

// HasCode reports whether err is, or wraps, a domain error with the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Is is shorthand for HasCode.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf returns the code of err, or CodeInternal when err carries none.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code onto the HTTP status the transport layer responds with.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest, CodeValidation:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
