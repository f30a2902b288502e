package chat

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyMessages is returned when no messages remain after the
	// optional leading system message is consumed.
	ErrEmptyMessages = errors.New("messages array cannot be empty")

	// ErrInvalidUpstreamResponse is returned when the provider answers
	// with a success status but the body violates the completion
	// contract. This indicates a contract break, not a transient fault.
	ErrInvalidUpstreamResponse = errors.New("invalid response from AI service")

	// ErrUpstreamTimeout is returned when the provider does not answer
	// within the request deadline. Requests are never retried; the user
	// may resend manually.
	ErrUpstreamTimeout = errors.New("request timeout: AI service took too long to respond")
)

// UpstreamError carries a non-success status reported by the provider.
// The handler forwards the status code to the client unchanged.
type UpstreamError struct {
	StatusCode int
	Status     string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("AI service error: %s", e.Status)
}
