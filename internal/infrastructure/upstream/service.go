package upstream

import (
	"sync"

	"github.com/codaipro/gateway/internal/config"
	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"
)

// Service holds the client for the hosted completion API. The provider
// speaks the OpenAI chat-completion wire format, so the stock client is
// pointed at the provider's base URL. A nil *Service means no credential
// is configured and the chat service answers in demo mode.
type Service struct {
	mu     sync.RWMutex
	client *openai.Client
	model  string
}

func NewService() *Service {
	log.Info().Msg("Initialising upstream completion service")
	key := config.GetUpstreamAPIKey()

	if key == "" {
		return nil
	}

	cfg := openai.DefaultConfig(key)
	cfg.BaseURL = config.GetUpstreamBaseURL()

	log.Info().
		Str("base_url", cfg.BaseURL).
		Str("model", config.GetChatModel()).
		Msg("Upstream completion service initialised")

	return &Service{
		mu:     sync.RWMutex{},
		client: openai.NewClientWithConfig(cfg),
		model:  config.GetChatModel(),
	}
}

func (s *Service) GetClient() *openai.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.client
}

func (s *Service) Model() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model
}
