package config

import "github.com/rs/zerolog/log"

// GetUpstreamAPIKey returns the credential for the hosted completion API.
// An empty value is not fatal: the chat service degrades to demo mode.
func GetUpstreamAPIKey() string {
	value := GetEnvOrDefault("SAMBANOVA_API_KEY", "")
	if value == "" {
		log.Warn().Msg("SAMBANOVA_API_KEY environment variable not set - chat will run in demo mode")
	}
	return value
}

// GetUpstreamBaseURL returns the base URL of the hosted completion API
func GetUpstreamBaseURL() string {
	return GetEnvOrDefault("SAMBANOVA_BASE_URL", "https://api.sambanova.ai/v1")
}

// GetChatModel returns the model identifier sent with completion requests
func GetChatModel() string {
	return GetEnvOrDefault("CHAT_MODEL", "Meta-Llama-3.1-8B-Instruct")
}
