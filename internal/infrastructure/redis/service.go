package redis

import (
	"context"
	"time"

	"github.com/codaipro/gateway/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Service wraps the Redis client used for release caching and widget
// session storage. A nil *Service means Redis is not configured and
// callers fall back to in-memory behaviour.
type Service struct {
	client *redis.Client
}

func NewService() *Service {
	url := config.GetRedisURL()

	if url == "" {
		log.Warn().Msg("Redis URL not configured - service will be unavailable")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     url,
		Password: config.GetRedisPassword(),
		DB:       0,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Error().
			Err(err).
			Str("addr", url).
			Msg("Failed to establish Redis connection")
		return nil
	}

	log.Info().Str("addr", url).Msg("Redis connection established")

	return &Service{
		client: client,
	}
}

func (s *Service) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Service) Set(ctx context.Context, key, value string, expiry time.Duration) error {
	return s.client.Set(ctx, key, value, expiry).Err()
}

// Get returns the value for key, or an empty string when the key is
// missing or expired.
func (s *Service) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *Service) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}
