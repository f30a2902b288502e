package chat

import (
	"strings"

	"github.com/codaipro/gateway/internal/services/chat/models"
)

// maxContentLength bounds the size of any single message forwarded
// upstream.
const maxContentLength = 10000

var markupEscaper = strings.NewReplacer("<", "&lt;", ">", "&gt;")

// sanitizeContent escapes angle brackets and truncates to the content
// cap. Escaping happens first so the cap applies to the escaped text.
func sanitizeContent(content string) string {
	escaped := markupEscaper.Replace(content)

	runes := []rune(escaped)
	if len(runes) > maxContentLength {
		return string(runes[:maxContentLength])
	}
	return escaped
}

// normalizeRole coerces unrecognised roles to user
func normalizeRole(role string) string {
	switch role {
	case models.RoleSystem, models.RoleUser, models.RoleAssistant:
		return role
	default:
		return models.RoleUser
	}
}

// sanitizeMessages returns a cleaned copy of messages. The input slice
// is never mutated.
func sanitizeMessages(messages []models.ChatMessage) []models.ChatMessage {
	sanitized := make([]models.ChatMessage, len(messages))
	for i, msg := range messages {
		sanitized[i] = models.ChatMessage{
			Role:    normalizeRole(msg.Role),
			Content: sanitizeContent(msg.Content),
		}
	}
	return sanitized
}
