package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/codaipro/gateway/internal/infrastructure/upstream"
	"github.com/codaipro/gateway/internal/services/chat/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestUpstream points the upstream service at a mock completion API.
func newTestUpstream(t *testing.T, handler http.HandlerFunc) *upstream.Service {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	t.Setenv("SAMBANOVA_API_KEY", "test-key")
	t.Setenv("SAMBANOVA_BASE_URL", server.URL)

	up := upstream.NewService()
	require.NotNil(t, up)
	return up
}

func completionBody(content string) map[string]any {
	return map[string]any{
		"id":      "upstream-1",
		"object":  "chat.completion",
		"created": time.Now().Unix(),
		"model":   "Meta-Llama-3.1-8B-Instruct",
		"choices": []map[string]any{
			{
				"index":         0,
				"finish_reason": "stop",
				"message": map[string]any{
					"role":    "assistant",
					"content": content,
				},
			},
		},
		"usage": map[string]any{
			"prompt_tokens":     12,
			"completion_tokens": 4,
			"total_tokens":      16,
		},
	}
}

func TestProcessChatSuccess(t *testing.T) {
	var receivedMessages []map[string]string

	up := newTestUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []map[string]string `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		receivedMessages = req.Messages

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(completionBody("Hi there"))
	})

	svc := NewService(up)
	resp, err := svc.ProcessChat(context.Background(), []models.ChatMessage{
		{Role: "user", Content: "Hello"},
	})

	require.NoError(t, err)
	require.Len(t, resp.Choices, 1)
	assert.Equal(t, "Hi there", resp.Choices[0].Message.Content)
	assert.Equal(t, models.RoleAssistant, resp.Choices[0].Message.Role)
	assert.Equal(t, models.ModeLive, resp.Mode)
	assert.Equal(t, 16, resp.Usage.TotalTokens)
	assert.NotEmpty(t, resp.ID)

	// A synthetic system message is always prefixed server-side
	require.NotEmpty(t, receivedMessages)
	assert.Equal(t, "system", receivedMessages[0]["role"])
	assert.Contains(t, receivedMessages[0]["content"], "CodaiPro")
	assert.Equal(t, "Hello", receivedMessages[1]["content"])
}

func TestProcessChatSanitizesBeforeForwarding(t *testing.T) {
	var forwarded []map[string]string

	up := newTestUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []map[string]string `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		forwarded = req.Messages

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(completionBody("ok"))
	})

	svc := NewService(up)
	_, err := svc.ProcessChat(context.Background(), []models.ChatMessage{
		{Role: "operator", Content: "<script>alert(1)</script>"},
	})

	require.NoError(t, err)
	require.Len(t, forwarded, 2)
	assert.Equal(t, "user", forwarded[1]["role"])
	assert.NotContains(t, forwarded[1]["content"], "<")
	assert.NotContains(t, forwarded[1]["content"], ">")
}

func TestProcessChatEmptyMessages(t *testing.T) {
	svc := NewService(nil)

	_, err := svc.ProcessChat(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyMessages)

	// A lone system message leaves nothing to send
	_, err = svc.ProcessChat(context.Background(), []models.ChatMessage{
		{Role: "system", Content: "be nice"},
	})
	assert.ErrorIs(t, err, ErrEmptyMessages)
}

func TestProcessChatDemoMode(t *testing.T) {
	svc := NewService(nil)

	resp, err := svc.ProcessChat(context.Background(), []models.ChatMessage{
		{Role: "user", Content: "Hello"},
	})

	require.NoError(t, err)
	assert.Equal(t, models.ModeDemo, resp.Mode)
	require.Len(t, resp.Choices, 1)
	assert.Contains(t, resp.Choices[0].Message.Content, "Demo mode")
	assert.Contains(t, resp.Choices[0].Message.Content, "Hello")
}

func TestProcessChatDemoModeWithoutUserMessage(t *testing.T) {
	svc := NewService(nil)

	resp, err := svc.ProcessChat(context.Background(), []models.ChatMessage{
		{Role: "assistant", Content: "an earlier reply"},
	})

	require.NoError(t, err)
	assert.Equal(t, models.ModeDemo, resp.Mode)
	require.Len(t, resp.Choices, 1)
	assert.Contains(t, resp.Choices[0].Message.Content, "Demo mode")
	assert.NotContains(t, resp.Choices[0].Message.Content, "You said")
}

func TestProcessChatUpstreamError(t *testing.T) {
	up := newTestUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"message": "rate limit exceeded",
				"type":    "requests",
			},
		})
	})

	svc := NewService(up)
	_, err := svc.ProcessChat(context.Background(), []models.ChatMessage{
		{Role: "user", Content: "Hello"},
	})

	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, http.StatusTooManyRequests, upErr.StatusCode)
	assert.Contains(t, upErr.Error(), "AI service error")
}

func TestProcessChatInvalidUpstreamResponse(t *testing.T) {
	up := newTestUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "upstream-1",
			"choices": []any{},
		})
	})

	svc := NewService(up)
	_, err := svc.ProcessChat(context.Background(), []models.ChatMessage{
		{Role: "user", Content: "Hello"},
	})

	assert.ErrorIs(t, err, ErrInvalidUpstreamResponse)
}

func TestProcessChatTimeout(t *testing.T) {
	release := make(chan struct{})

	up := newTestUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		// Stall until the test finishes
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	// Registered after newTestUpstream so LIFO cleanup releases the
	// handler before the test server's Close waits on it.
	t.Cleanup(func() { close(release) })

	svc := NewService(up)
	svc.timeout = 100 * time.Millisecond

	start := time.Now()
	_, err := svc.ProcessChat(context.Background(), []models.ChatMessage{
		{Role: "user", Content: "Hello"},
	})

	assert.ErrorIs(t, err, ErrUpstreamTimeout)
	assert.Less(t, time.Since(start), 5*time.Second, "timeout must be bounded")
}
