package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel outcomes callers branch on with errors.Is. Public pages map
// ErrNotFound to a "not found" view; admin pages treat ErrUnauthorized as an
// expired session and force a logout.
var (
	// ErrNotFound indicates the backend could not locate the resource.
	ErrNotFound = errors.New("api: not found")
	// ErrUnauthorized indicates the bearer token was missing, invalid or expired.
	ErrUnauthorized = errors.New("api: unauthorized")
)

// StatusError reports a non-2xx backend response that is neither a 404 nor a 401.
type StatusError struct {
	Status int
	Body   string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("api: backend status %d: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("api: backend status %d: %s", e.Status, http.StatusText(e.Status))
}
