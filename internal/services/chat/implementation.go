package chat

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/codaipro/gateway/internal/infrastructure/upstream"
	"github.com/codaipro/gateway/internal/services/chat/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"
)

// requestTimeout is the hard wall-clock bound on one upstream call,
// measured from send. There is no retry: the request is user-interactive
// and a retry would double perceived latency.
const requestTimeout = 30 * time.Second

type Implementation struct {
	mu       sync.RWMutex
	upstream *upstream.Service
	timeout  time.Duration
}

// NewService builds the chat service. A nil upstream service puts the
// chat into demo mode: every request is answered locally with a canned
// response so the page stays usable in unconfigured environments.
func NewService(up *upstream.Service) *Implementation {
	if up == nil {
		log.Warn().Msg("Chat service running in demo mode - no upstream credential configured")
	}

	return &Implementation{
		upstream: up,
		timeout:  requestTimeout,
	}
}

func (s *Implementation) ProcessChat(ctx context.Context, messages []models.ChatMessage) (*models.ChatResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	log.Debug().Int("message_count", len(messages)).Msg("Processing chat request")

	if len(messages) == 0 {
		return nil, ErrEmptyMessages
	}

	messages = sanitizeMessages(messages)

	// A leading client system message supplements the server prompt
	prompt := models.DefaultSystemPrompt()
	if messages[0].Role == models.RoleSystem {
		prompt.SetCustom(messages[0].Content)
		messages = messages[1:]
		if len(messages) == 0 {
			return nil, ErrEmptyMessages
		}
	}

	if s.upstream == nil {
		return demoResponse(messages), nil
	}

	openaiMessages := make([]openai.ChatCompletionMessage, len(messages)+1)
	openaiMessages[0] = openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: prompt.String(),
	}
	for i, msg := range messages {
		openaiMessages[i+1] = openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model:    s.upstream.Model(),
		Messages: openaiMessages,
	}

	resp, err := s.upstream.GetClient().CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, classifyUpstreamError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, ErrInvalidUpstreamResponse
	}

	message := resp.Choices[0].Message
	if message.Role != openai.ChatMessageRoleAssistant || message.Content == "" {
		return nil, ErrInvalidUpstreamResponse
	}

	return &models.ChatResponse{
		ID:      fmt.Sprintf("codai-%s", uuid.New().String()[:8]),
		Created: time.Now().Unix(),
		Mode:    models.ModeLive,
		Choices: []models.Choice{{
			Message: models.ChatMessage{
				Role:    message.Role,
				Content: message.Content,
			},
		}},
		Usage: models.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

func classifyUpstreamError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		log.Error().Msg("Upstream completion request timed out")
		return ErrUpstreamTimeout
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		log.Error().
			Int("status", apiErr.HTTPStatusCode).
			Str("message", apiErr.Message).
			Msg("Upstream completion request failed")
		return &UpstreamError{
			StatusCode: apiErr.HTTPStatusCode,
			Status:     apiErr.Message,
		}
	}

	log.Error().Err(err).Msg("Failed to get chat completion")
	return fmt.Errorf("failed to get chat completion: %w", err)
}

// demoResponse echoes the last user message so the page remains usable
// without a provider credential.
func demoResponse(messages []models.ChatMessage) *models.ChatResponse {
	lastUser := ""
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == models.RoleUser {
			lastUser = messages[i].Content
			break
		}
	}

	content := "**Demo mode** - the live AI service is not configured on this deployment.\n\n"
	if lastUser != "" {
		content += fmt.Sprintf("You said: %q\n\n", lastUser)
	}
	content += "Set SAMBANOVA_API_KEY to enable real responses, or download the desktop app for offline access."

	return &models.ChatResponse{
		ID:      fmt.Sprintf("codai-demo-%s", uuid.New().String()[:8]),
		Created: time.Now().Unix(),
		Mode:    models.ModeDemo,
		Choices: []models.Choice{{
			Message: models.ChatMessage{
				Role:    models.RoleAssistant,
				Content: content,
			},
		}},
	}
}
