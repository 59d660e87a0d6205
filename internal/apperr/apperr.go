// Package apperr defines the application error taxonomy.
// Every error that is allowed to reach the HTTP layer is an *Error carrying an
// explicit status code; anything else is converted to ErrInternal at the
// transport boundary so internal detail never leaks to clients.
package apperr

import "errors"

// Error is an application error with an HTTP status code.
type Error struct {
	// Status is the HTTP status code returned to the client.
	Status int
	// Message is the user-visible error message.
	Message string
	// Data is optional structured detail attached to the response envelope.
	Data any
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// WithMessage returns a copy of e with the message replaced.
// The original value is left untouched so the predeclared errors stay constant.
func (e *Error) WithMessage(message string) *Error {
	c := *e
	c.Message = message

	return &c
}

// WithData returns a copy of e with detail data attached.
func (e *Error) WithData(data any) *Error {
	c := *e
	c.Data = data

	return &c
}

// From extracts the *Error from err, walking wrapped errors.
// It returns ErrInternal for anything outside the taxonomy.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}

	return ErrInternal
}
