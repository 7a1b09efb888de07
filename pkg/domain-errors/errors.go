// Package domainerrors carries the error taxonomy shared by services and transport.
//
// Services return *Error values built with New or Wrap. The HTTP layer maps the
// Code to a status with ToHTTPStatus and renders the Message for client errors.
package domainerrors

import (
	"errors"
	"net/http"
)

// Code is a short machine-readable error identifier surfaced to clients.
type Code string

const (
	CodeMalformedRequest     Code = "malformed_request"
	CodeValidation           Code = "validation_error"
	CodeRelativesConsistency Code = "invalid_relatives"
	CodeIdentifierConflict   Code = "identifier_conflict"
	CodeImmutableField       Code = "immutable_field"
	CodeNotFound             Code = "not_found"
	CodeUnavailable          Code = "service_unavailable"
	CodeInternal             Code = "internal_error"
)

// Error is a domain error with a code and a client-facing message.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds an error without an underlying cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// As extracts the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code Code) bool {
	de, ok := As(err)
	return ok && de.Code == code
}

// IsClientError reports whether the code describes a problem with the request.
func IsClientError(code Code) bool {
	status := ToHTTPStatus(code)
	return status >= 400 && status < 500
}

// ToHTTPStatus maps a code to its HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeMalformedRequest,
		CodeValidation,
		CodeRelativesConsistency,
		CodeIdentifierConflict,
		CodeImmutableField:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
