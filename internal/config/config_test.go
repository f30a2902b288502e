package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("CONFIG_TEST_KEY", "set")
	assert.Equal(t, "set", GetEnvOrDefault("CONFIG_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", GetEnvOrDefault("CONFIG_TEST_MISSING", "fallback"))
}

func TestGetUpstreamDefaults(t *testing.T) {
	t.Setenv("SAMBANOVA_BASE_URL", "")
	t.Setenv("CHAT_MODEL", "")

	assert.Equal(t, "https://api.sambanova.ai/v1", GetUpstreamBaseURL())
	assert.Equal(t, "Meta-Llama-3.1-8B-Instruct", GetChatModel())
}

func TestGetRateLimitConfig(t *testing.T) {
	t.Setenv("RATELIMIT_ENABLED", "true")
	t.Setenv("RATELIMIT_CHAT_COMPLETION", "5")

	cfg := GetRateLimitConfig("chat_completion")
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 5, cfg.MaxHits)
	assert.Equal(t, time.Minute, cfg.Window)

	unknown := GetRateLimitConfig("nope")
	assert.False(t, unknown.Enabled)
}

func TestGetRateLimitConfigInvalidInt(t *testing.T) {
	t.Setenv("RATELIMIT_RELEASES", "not-a-number")

	cfg := GetRateLimitConfig("releases")
	assert.Equal(t, 60, cfg.MaxHits)
}

func TestSetSessionCookieName(t *testing.T) {
	original := GetSessionCookieName()

	restore := SetSessionCookieName("test_cookie")
	assert.Equal(t, "test_cookie", GetSessionCookieName())

	restore()
	assert.Equal(t, original, GetSessionCookieName())
}
