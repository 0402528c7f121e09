// internal/client/errors.go
package client

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned on 401/403. The client clears the stored token
// before returning it, so callers only need to route to re-authentication.
var ErrUnauthorized = errors.New("authentication required")

// APIError is a non-2xx response from a backend service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is an APIError with a 404 status.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 404
}
