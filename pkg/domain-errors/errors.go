// Package domainerrors defines the coded error type shared across the
// application. Services attach a stable machine-readable code and an
// operator-facing message; the HTTP layer maps codes to status codes
// without inspecting error text.
package domainerrors

import (
	"errors"
	"net/http"
)

const (
	CodeBadRequest    = "bad_request"
	CodeValidation    = "validation_error"
	CodeInvalidInput  = "invalid_input"
	CodeNotFound      = "not_found"
	CodeConflict      = "conflict"
	CodeDataIntegrity = "data_integrity"
	CodeInternal      = "internal_error"
	CodeTimeout       = "timeout"
)

// Error is a domain error with a stable code, a human-readable message,
// and optional structured details safe to expose to API clients.
type Error struct {
	Code    string
	Message string
	Details map[string]any
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// New creates a domain error with no underlying cause.
func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates a domain error that preserves the underlying cause for
// errors.Is / errors.As chains.
func Wrap(cause error, code, message string) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// WithDetail attaches a key to the error's detail map and returns the
// error for chaining.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// HasCode reports whether err or anything it wraps is a domain error
// carrying the given code.
func HasCode(err error, code string) bool {
	var de *Error
	return errors.As(err, &de) && de.Code == code
}

// CodeOf extracts the code from err, defaulting to CodeInternal for
// plain errors.
func CodeOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// DetailsOf extracts the detail map from err, or nil.
func DetailsOf(err error) map[string]any {
	var de *Error
	if errors.As(err, &de) {
		return de.Details
	}
	return nil
}

// HTTPStatus maps a domain error code to the HTTP status the transport
// layer responds with.
func HTTPStatus(code string) int {
	switch code {
	case CodeBadRequest, CodeValidation, CodeInvalidInput:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
