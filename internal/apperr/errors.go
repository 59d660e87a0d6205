package apperr

import "github.com/gofiber/fiber/v2"

// General errors.
var (
	// ErrInternal is the catch-all for unexpected failures from any layer.
	ErrInternal = &Error{Status: fiber.StatusInternalServerError, Message: "Internal Server Error"}

	// ErrBadRequest is returned for malformed or missing request fields.
	ErrBadRequest = &Error{Status: fiber.StatusBadRequest, Message: "Bad Request"}

	// ErrForbidden is returned when no valid credentials accompany the request.
	ErrForbidden = &Error{Status: fiber.StatusUnauthorized, Message: "Forbidden"}

	// ErrAccessDenied is returned when the caller lacks the required rights.
	ErrAccessDenied = &Error{Status: fiber.StatusForbidden, Message: "Access Denied"}

	// ErrFailedDependency is returned when the identity provider rejected an
	// admin operation with its own error message.
	ErrFailedDependency = &Error{Status: fiber.StatusFailedDependency, Message: "Failed Dependency"}
)

// User errors.
var (
	// ErrUserNotFound is returned when the requested user does not exist.
	ErrUserNotFound = &Error{Status: fiber.StatusNotFound, Message: "User not found"}

	// ErrUserAlreadyExists is returned when creating a user with a taken username.
	ErrUserAlreadyExists = &Error{Status: fiber.StatusBadRequest, Message: "User already exists"}

	// ErrPasswordsDoNotMatch is returned when password and confirmation differ.
	ErrPasswordsDoNotMatch = &Error{Status: fiber.StatusBadRequest, Message: "Passwords do not match"}

	// ErrEmailAlreadyExists is returned when creating a user with a taken email.
	ErrEmailAlreadyExists = &Error{Status: fiber.StatusBadRequest, Message: "Email already exists"}
)

// Role errors.
var (
	// ErrRoleNotFound is returned when the requested role does not exist.
	ErrRoleNotFound = &Error{Status: fiber.StatusNotFound, Message: "Role not found"}

	// ErrRoleAlreadyExists is returned when creating a role with a taken name.
	ErrRoleAlreadyExists = &Error{Status: fiber.StatusBadRequest, Message: "Role already exists"}

	// ErrRoleAssignFailed is returned when attaching a role to a user failed.
	ErrRoleAssignFailed = &Error{Status: fiber.StatusInternalServerError, Message: "Failed to assign role"}
)

// Auth errors.
var (
	// ErrInvalidCredentials is returned when the token exchange was rejected.
	ErrInvalidCredentials = &Error{Status: fiber.StatusUnauthorized, Message: "Invalid Credentials"}

	// ErrSamePassword is returned when the new password equals the current one.
	ErrSamePassword = &Error{Status: fiber.StatusConflict, Message: "Your new password must be different from your current password."}

	// ErrWrongPassword is returned when the current password check failed.
	ErrWrongPassword = &Error{Status: fiber.StatusConflict, Message: "Current password is incorrect"}

	// ErrUserDeactivated is returned when the account has been disabled.
	ErrUserDeactivated = &Error{Status: fiber.StatusUnauthorized, Message: "User has been deactivated"}

	// ErrRoleDeactivated is returned when the account's role has been disabled.
	ErrRoleDeactivated = &Error{Status: fiber.StatusUnauthorized, Message: "Role has been deactivated"}
)
