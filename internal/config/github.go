package config

import "github.com/rs/zerolog/log"

func GetGitHubToken() string {
	value := GetEnvOrDefault("GITHUB_TOKEN", "")
	if value == "" {
		log.Debug().Msg("GITHUB_TOKEN environment variable not set - release lookups will be unauthenticated")
	}
	return value
}

// GetGitHubRepo returns the owner/name of the repository release
// metadata is served from.
func GetGitHubRepo() string {
	return GetEnvOrDefault("GITHUB_REPO", "Luckyyaduvanshiofficial/Codai")
}

// GetGitHubAPIURL returns the GitHub API base URL. Overridable for tests.
func GetGitHubAPIURL() string {
	return GetEnvOrDefault("GITHUB_API_URL", "https://api.github.com")
}
