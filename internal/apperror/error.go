// Package apperror defines errors that carry the HTTP status they map to.
package apperror

import (
	"errors"
	"net/http"
)

// FieldError describes a rejected request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is an error with a client-facing message and HTTP status.
type Error struct {
	Status  int
	Message string
	Fields  []FieldError
	Err     error
}

// New creates an Error with the given status and message.
func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
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

// Wrap attaches an underlying cause that is logged but never shown to clients.
func (e *Error) Wrap(err error) *Error {
	e.Err = err
	return e
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func Conflict(message string) *Error     { return New(http.StatusConflict, message) }
func NotFound(message string) *Error     { return New(http.StatusNotFound, message) }
func BadRequest(message string) *Error   { return New(http.StatusBadRequest, message) }
func Forbidden(message string) *Error    { return New(http.StatusForbidden, message) }
func Unauthorized(message string) *Error { return New(http.StatusUnauthorized, message) }
func Internal(message string) *Error     { return New(http.StatusInternalServerError, message) }

// Delivery reports that a notification could not be sent.
func Delivery(message string) *Error { return New(http.StatusBadGateway, message) }

// Validation reports rejected request fields.
func Validation(fields []FieldError) *Error {
	return &Error{Status: http.StatusBadRequest, Message: "Validation failed", Fields: fields}
}
