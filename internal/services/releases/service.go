package releases

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/codaipro/gateway/internal/infrastructure/github"
	"github.com/codaipro/gateway/internal/infrastructure/redis"
	"github.com/rs/zerolog/log"
)

// CacheTTL is the lifetime of a cached release lookup.
const CacheTTL = time.Hour

const cacheKey = "releases:latest"

// Release is the client-facing shape of the latest product release.
type Release struct {
	Version     string  `json:"version"`
	Name        string  `json:"name"`
	PublishedAt string  `json:"published_at"`
	Body        string  `json:"body"`
	Assets      []Asset `json:"assets"`
}

type Asset struct {
	Name          string `json:"name"`
	Size          int64  `json:"size"`
	DownloadURL   string `json:"download_url"`
	DownloadCount int64  `json:"download_count"`
}

// Service serves release metadata for the product repository, cached
// for CacheTTL. Redis backs the cache when configured so replicas share
// lookups; otherwise each instance keeps its own copy in memory.
type Service struct {
	github *github.Service
	redis  *redis.Service
	repo   string

	mu        sync.RWMutex
	cached    *Release
	fetchedAt time.Time
	now       func() time.Time
}

func NewService(githubService *github.Service, redisService *redis.Service, repo string) *Service {
	return &Service{
		github: githubService,
		redis:  redisService,
		repo:   repo,
		now:    time.Now,
	}
}

// Latest returns the most recent release, consulting the cache first.
func (s *Service) Latest(ctx context.Context) (*Release, error) {
	if release := s.fromCache(ctx); release != nil {
		return release, nil
	}

	raw, err := s.github.GetLatestRelease(ctx, s.repo)
	if err != nil {
		return nil, err
	}

	release := reshape(raw)
	s.store(ctx, release)
	return release, nil
}

func (s *Service) fromCache(ctx context.Context) *Release {
	if s.redis != nil {
		data, err := s.redis.Get(ctx, cacheKey)
		if err != nil {
			log.Warn().Err(err).Msg("Release cache read failed")
		} else if data != "" {
			var release Release
			if err := json.Unmarshal([]byte(data), &release); err == nil {
				return &release
			}
		}
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cached != nil && s.now().Sub(s.fetchedAt) < CacheTTL {
		return s.cached
	}
	return nil
}

func (s *Service) store(ctx context.Context, release *Release) {
	if s.redis != nil {
		data, err := json.Marshal(release)
		if err == nil {
			if err := s.redis.Set(ctx, cacheKey, string(data), CacheTTL); err != nil {
				log.Warn().Err(err).Msg("Release cache write failed")
			}
		}
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cached = release
	s.fetchedAt = s.now()
}

func reshape(raw *github.Release) *Release {
	assets := make([]Asset, len(raw.Assets))
	for i, a := range raw.Assets {
		assets[i] = Asset{
			Name:          a.Name,
			Size:          a.Size,
			DownloadURL:   a.BrowserDownloadURL,
			DownloadCount: a.DownloadCount,
		}
	}

	return &Release{
		Version:     raw.TagName,
		Name:        raw.Name,
		PublishedAt: raw.PublishedAt,
		Body:        raw.Body,
		Assets:      assets,
	}
}
