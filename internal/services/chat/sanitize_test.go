package chat

import (
	"strings"
	"testing"

	"github.com/codaipro/gateway/internal/services/chat/models"
	"github.com/stretchr/testify/assert"
)

func TestSanitizeContentEscapesMarkup(t *testing.T) {
	out := sanitizeContent(`<script>alert("hi")</script>`)

	assert.NotContains(t, out, "<")
	assert.NotContains(t, out, ">")
	assert.Equal(t, `&lt;script&gt;alert("hi")&lt;/script&gt;`, out)
}

func TestSanitizeContentTruncates(t *testing.T) {
	long := strings.Repeat("a", maxContentLength+500)

	out := sanitizeContent(long)
	assert.Len(t, []rune(out), maxContentLength)
}

func TestSanitizeContentShortPassthrough(t *testing.T) {
	assert.Equal(t, "hello world", sanitizeContent("hello world"))
}

func TestNormalizeRole(t *testing.T) {
	tests := []struct {
		role     string
		expected string
	}{
		{models.RoleSystem, models.RoleSystem},
		{models.RoleUser, models.RoleUser},
		{models.RoleAssistant, models.RoleAssistant},
		{"tool", models.RoleUser},
		{"SYSTEM", models.RoleUser},
		{"", models.RoleUser},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalizeRole(tt.role))
		})
	}
}

func TestSanitizeMessagesDoesNotMutateInput(t *testing.T) {
	in := []models.ChatMessage{{Role: "hacker", Content: "<b>bold</b>"}}

	out := sanitizeMessages(in)

	assert.Equal(t, "hacker", in[0].Role)
	assert.Equal(t, "<b>bold</b>", in[0].Content)
	assert.Equal(t, models.RoleUser, out[0].Role)
	assert.Equal(t, "&lt;b&gt;bold&lt;/b&gt;", out[0].Content)
}
