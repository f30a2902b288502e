package config

import "github.com/rs/zerolog/log"

var (
	// SessionCookieName is the name of the widget session cookie
	// Default to "codai_session" if not set in environment
	SessionCookieName = GetEnvOrDefault("SESSION_COOKIE_NAME", "codai_session")
)

// GetSessionCookieName returns the configured session cookie name
func GetSessionCookieName() string {
	return SessionCookieName
}

// SetSessionCookieName temporarily changes the session cookie name and returns a function to restore it
// This is primarily used for testing
func SetSessionCookieName(name string) func() {
	previous := SessionCookieName
	SessionCookieName = name

	return func() {
		SessionCookieName = previous
	}
}

// GetJWTSecret returns the key used to sign session cookies
func GetJWTSecret() []byte {
	value := GetEnvOrDefault("JWT_SECRET", "")
	if value == "" {
		log.Warn().Msg("JWT_SECRET environment variable not set - widget sessions will not survive restarts")
		return []byte("codai-dev-secret")
	}
	return []byte(value)
}
