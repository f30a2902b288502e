package config

import (
	"strings"

	"github.com/rs/zerolog"
)

// GetListenAddr returns the address the HTTP server binds to
func GetListenAddr() string {
	return ":" + GetEnvOrDefault("PORT", "8080")
}

// GetLogLevel maps the LOG_LEVEL environment variable to a zerolog level
func GetLogLevel() zerolog.Level {
	switch strings.ToLower(GetEnvOrDefault("LOG_LEVEL", "info")) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
