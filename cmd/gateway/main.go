package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/codaipro/gateway/internal/api/v1/routes"
	"github.com/codaipro/gateway/internal/config"
	"github.com/codaipro/gateway/internal/infrastructure/github"
	"github.com/codaipro/gateway/internal/infrastructure/redis"
	"github.com/codaipro/gateway/internal/infrastructure/upstream"
	"github.com/codaipro/gateway/internal/services/chat"
	"github.com/codaipro/gateway/internal/services/releases"
	"github.com/codaipro/gateway/internal/services/session"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Local development keeps secrets in a .env file; absence is fine
	_ = godotenv.Load()

	zerolog.SetGlobalLevel(config.GetLogLevel())

	redisService := redis.NewService()
	upstreamService := upstream.NewService()
	githubService := github.NewService()

	chatService := chat.NewService(upstreamService)
	releaseService := releases.NewService(githubService, redisService, config.GetGitHubRepo())
	sessionService := session.NewService(redisService)

	router := routes.NewRouter(chatService, releaseService, sessionService)

	server := &http.Server{
		Addr:              config.GetListenAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe error")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info().Msg("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}
