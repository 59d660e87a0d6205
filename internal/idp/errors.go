package idp

import (
	"errors"
	"fmt"
)

var (
	// ErrUpstreamAuth is returned when the admin service account token
	// exchange with the identity provider fails. Callers must treat it as
	// fatal for the current request.
	ErrUpstreamAuth = errors.New("identity provider admin token exchange failed")
)

// RequestError is the uniform failure shape for every admin API call.
// Status and Body carry the upstream response when one was received; a zero
// Status marks a transport level failure (provider unreachable, timeout).
type RequestError struct {
	// Op names the failed operation, e.g. "ListUsers".
	Op string
	// Status is the upstream HTTP status code, 0 if no response was received.
	Status int
	// Body is the raw upstream response body, or the transport error text.
	Body string
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("idp: %s: provider unreachable: %s", e.Op, e.Body)
	}

	return fmt.Sprintf("idp: %s: provider returned status %d: %s", e.Op, e.Status, e.Body)
}

// IsNotFound reports whether err is a RequestError for a 404 response.
func IsNotFound(err error) bool {
	var reqErr *RequestError

	return errors.As(err, &reqErr) && reqErr.Status == 404
}

// IsConflict reports whether err is a RequestError for a 409 response.
func IsConflict(err error) bool {
	var reqErr *RequestError

	return errors.As(err, &reqErr) && reqErr.Status == 409
}
