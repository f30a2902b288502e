package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/codaipro/gateway/internal/config"
	"github.com/rs/zerolog/log"
)

type Service struct {
	mu      sync.RWMutex
	client  *http.Client
	baseURL string
	headers map[string]string
}

// Release is the subset of the GitHub release payload the gateway uses.
type Release struct {
	TagName     string  `json:"tag_name"`
	Name        string  `json:"name"`
	PublishedAt string  `json:"published_at"`
	Body        string  `json:"body"`
	Assets      []Asset `json:"assets"`
}

type Asset struct {
	Name               string `json:"name"`
	Size               int64  `json:"size"`
	BrowserDownloadURL string `json:"browser_download_url"`
	DownloadCount      int64  `json:"download_count"`
}

func NewService() *Service {
	baseURL := config.GetGitHubAPIURL()

	headers := map[string]string{
		"Accept":               "application/vnd.github.v3+json",
		"X-GitHub-Api-Version": "2022-11-28",
	}

	// Anonymous access works for public release listings; a token just
	// raises the rate limit.
	if token := config.GetGitHubToken(); token != "" {
		headers["Authorization"] = fmt.Sprintf("Bearer %s", token)
	}

	s := &Service{
		mu:      sync.RWMutex{},
		client:  &http.Client{},
		baseURL: baseURL,
		headers: headers,
	}

	log.Info().
		Str("base_url", baseURL).
		Msg("GitHub service initialized successfully")

	return s
}

// GetLatestRelease fetches the most recent published release for repo
// ("owner/name").
func (s *Service) GetLatestRelease(ctx context.Context, repo string) (*Release, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	url := fmt.Sprintf("%s/repos/%s/releases/latest", s.baseURL, repo)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range s.headers {
		req.Header.Set(key, value)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		log.Error().
			Err(err).
			Str("repo", repo).
			Msg("Critical failure fetching GitHub release")
		return nil, fmt.Errorf("github release fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Try to read error response body for debugging
		body, readErr := io.ReadAll(resp.Body)
		if readErr == nil {
			log.Debug().Str("body", string(body)).Msg("GitHub error response")
		}

		return nil, fmt.Errorf("github API returned status %d", resp.StatusCode)
	}

	var release Release
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	log.Info().
		Str("repo", repo).
		Str("tag", release.TagName).
		Int("assets", len(release.Assets)).
		Msg("GitHub release fetched successfully")

	return &release, nil
}
