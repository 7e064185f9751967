package api

import (
	"errors"
	"fmt"
)

// ErrInvalidTotal rejects a checkout total locally, before any request is
// sent to the backend.
var ErrInvalidTotal = errors.New("invalid total amount")

// APIError carries a non-2xx backend response. Message holds the backend's
// own message field when it sent one, otherwise it is empty.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend responded %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend responded %d", e.StatusCode)
}

// UserMessage maps err to a user-facing string: the backend's message when
// err carries one, the fallback otherwise. Local and transport failures have
// no message a user should see verbatim.
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
