package chatclient

import (
	"context"
	"errors"
	"strings"
)

// friendlyMessage maps a failed exchange to the text shown in the
// transcript. Classification only selects wording; it never changes
// control flow.
func friendlyMessage(err error) string {
	var reqErr *RequestError

	switch {
	case errors.As(err, &reqErr):
		if strings.Contains(reqErr.Message, "not configured") {
			return "API configuration required. Please contact support or download the desktop app for offline access."
		}
		if strings.Contains(reqErr.Message, "timeout") {
			return "Request timed out. The AI service is taking too long to respond. Please try again."
		}
		return "Sorry, I encountered an error. " + reqErr.Error()

	case errors.Is(err, ErrInvalidResponse):
		return "Received invalid response from AI service. Please try again."

	case errors.Is(err, context.DeadlineExceeded):
		return "Request timed out. The AI service is taking too long to respond. Please try again."

	default:
		return "Network error. Please check your internet connection and try again."
	}
}
