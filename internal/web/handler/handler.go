// Package handler holds the response envelope and helpers shared by the web
// handler packages.
package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/GoRealm-Admin/GoRealm-Admin/internal/apperr"
)

// ErrNilACFatalLogMsg is the log message when a handler is initialized with a
// nil app or config.
const ErrNilACFatalLogMsg = "app and config cannot be nil"

// Envelope is the uniform JSON response shape.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// OK writes a success envelope.
func OK(c *fiber.Ctx, message string, data any) error {
	return c.JSON(Envelope{Success: true, Message: message, Data: data})
}

// Fail writes a failure envelope with the given status.
func Fail(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Envelope{Success: false, Message: message, Data: data})
}

// ValidationError converts the first failing field of a validator error into
// a bad-request application error. Other errors pass through unchanged.
func ValidationError(err error) error {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return apperr.ErrBadRequest.WithMessage("Invalid value for field " + verrs[0].Field())
	}

	return apperr.ErrBadRequest
}
