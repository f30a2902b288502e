package chat

import (
	"context"

	"github.com/codaipro/gateway/internal/services/chat/models"
)

// Service defines the interface for chat operations
type Service interface {
	// ProcessChat sanitizes a conversation, forwards it to the upstream
	// provider and returns the completed response. When no provider
	// credential is configured it returns a demo-mode response instead
	// of failing.
	ProcessChat(ctx context.Context, messages []models.ChatMessage) (*models.ChatResponse, error)
}
