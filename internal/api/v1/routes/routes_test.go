package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/codaipro/gateway/internal/infrastructure/github"
	"github.com/codaipro/gateway/internal/services/chat/models"
	"github.com/codaipro/gateway/internal/services/releases"
	"github.com/codaipro/gateway/internal/services/session"
	"github.com/stretchr/testify/assert"
)

type stubChatService struct{}

func (stubChatService) ProcessChat(ctx context.Context, messages []models.ChatMessage) (*models.ChatResponse, error) {
	return &models.ChatResponse{
		Mode: models.ModeDemo,
		Choices: []models.Choice{{
			Message: models.ChatMessage{Role: models.RoleAssistant, Content: "ok"},
		}},
	}, nil
}

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	releaseService := releases.NewService(github.NewService(), nil, "codaipro/codai")
	return NewRouter(stubChatService{}, releaseService, session.NewService(nil))
}

func TestHealthz(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/healthz", nil)

	newRouter(t).ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestChatCompletionsRequiresPost(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/chat/completions", nil)

	newRouter(t).ServeHTTP(w, r)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestChatCompletionsRoute(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/v1/chat/completions",
		strings.NewReader(`{"messages":[{"role":"user","content":"hi"}]}`))

	newRouter(t).ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "demo")
}

func TestLegacyChatRoute(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/chat",
		strings.NewReader(`{"messages":[{"role":"user","content":"hi"}]}`))

	newRouter(t).ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUnknownRoute(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil)

	newRouter(t).ServeHTTP(w, r)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
