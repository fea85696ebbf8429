package promptly

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned for 401/403 responses, usually an expired
// launch token.
var ErrUnauthorized = errors.New("promptly: unauthorized")

// APIError is a non-2xx response from the prompt API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("promptly: status %d: %s", e.StatusCode, body)
}

func (e *APIError) Unwrap() error {
	if e.StatusCode == 401 || e.StatusCode == 403 {
		return ErrUnauthorized
	}
	return nil
}
