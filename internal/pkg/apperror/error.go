// Package apperror normalises every failure the gateway can produce into a
// single typed error carrying the HTTP status and whether the message is safe
// to show to clients.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is the only error type the HTTP boundary renders.
type Error struct {
	Status      int
	Message     string
	Operational bool
	Err         error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an operational error with the given status.
func New(status int, message string) *Error {
	return &Error{Status: status, Message: message, Operational: true}
}

// WithCause records err as the reason for e without changing what the
// client sees, so callers can still match it with errors.Is.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

func Validation(message string) *Error {
	return New(http.StatusBadRequest, message)
}

func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, message)
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, message)
}

// Upstream marks a Content Store or Authentication Provider failure. The
// cause is kept for logging and never shown to the client.
func Upstream(message string, cause error) *Error {
	return &Error{
		Status:      http.StatusInternalServerError,
		Message:     message,
		Operational: false,
		Err:         cause,
	}
}

// Internal is for misconfiguration and bugs.
func Internal(message string, cause error) *Error {
	return &Error{
		Status:      http.StatusInternalServerError,
		Message:     message,
		Operational: false,
		Err:         cause,
	}
}

// From returns err as an *Error. Anything that is not already one becomes a
// 500 non-operational error.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("Internal Server Error", err)
}

// ClientMessage is the text that may be returned to the caller.
func (e *Error) ClientMessage(generic string) string {
	if e.Operational {
		return e.Message
	}
	return generic
}
