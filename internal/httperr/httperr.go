// Package httperr defines the typed error carried from services and
// repositories up to the terminal JSON renderer. Handlers never let a raw
// lower-level failure reach the response boundary: every failure is wrapped
// into an *Error with a fixed message and an HTTP status code.
package httperr

import (
	"errors"
	"net/http"
)

// Error pairs a user-facing message with the HTTP status code it should be
// rendered with.
type Error struct {
	Message string `json:"message"`
	Code    int    `json:"-"`
}

func (e *Error) Error() string { return e.Message }

// New returns an Error with the given message and status code.
func New(message string, code int) *Error {
	return &Error{Message: message, Code: code}
}

// NotFound returns a 404 error.
func NotFound(message string) *Error {
	return New(message, http.StatusNotFound)
}

// Internal returns a 500 error.
func Internal(message string) *Error {
	return New(message, http.StatusInternalServerError)
}

// Unauthorized returns a 401 error.
func Unauthorized(message string) *Error {
	return New(message, http.StatusUnauthorized)
}

// Invalid returns a 422 error for failed input validation.
func Invalid(message string) *Error {
	return New(message, http.StatusUnprocessableEntity)
}

// From extracts the typed error from err, or falls back to a generic 500 when
// err carries no status code.
func From(err error) *Error {
	var he *Error
	if errors.As(err, &he) {
		return he
	}
	return Internal("An unknown error occurred!")
}
