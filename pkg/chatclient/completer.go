package chatclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Message is the wire shape of one conversation message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer produces one assistant reply for a conversation. The
// gateway-backed implementation is HTTPCompleter; tests substitute
// their own.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// ErrInvalidResponse is returned when the gateway answers with a
// success status but the body is not a completion.
var ErrInvalidResponse = errors.New("invalid response from AI service")

// RequestError is a non-success status reported by the gateway.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("API Error: %d", e.StatusCode)
}

// HTTPCompleter talks to the gateway's completion proxy.
type HTTPCompleter struct {
	baseURL string
	client  *http.Client
}

// NewHTTPCompleter builds a completer for the gateway at baseURL. A nil
// client gets a default with a timeout slightly above the server's own
// 30s bound, so the server-side timeout is reported first.
func NewHTTPCompleter(baseURL string, client *http.Client) *HTTPCompleter {
	if client == nil {
		client = &http.Client{Timeout: 35 * time.Second}
	}
	return &HTTPCompleter{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

func (c *HTTPCompleter) Complete(ctx context.Context, messages []Message) (string, error) {
	payload, err := json.Marshal(struct {
		Messages []Message `json:"messages"`
	}{Messages: messages})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errBody struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		return "", &RequestError{StatusCode: resp.StatusCode, Message: errBody.Error}
	}

	var completion struct {
		Mode    string `json:"mode"`
		Choices []struct {
			Message Message `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", ErrInvalidResponse
	}

	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return "", ErrInvalidResponse
	}

	return completion.Choices[0].Message.Content, nil
}
