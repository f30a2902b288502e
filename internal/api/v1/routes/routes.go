package routes

import (
	"net/http"

	chathandler "github.com/codaipro/gateway/internal/api/v1/handlers/chat"
	releaseshandler "github.com/codaipro/gateway/internal/api/v1/handlers/releases"
	supporthandler "github.com/codaipro/gateway/internal/api/v1/handlers/support"
	"github.com/codaipro/gateway/internal/api/v1/middleware"
	"github.com/codaipro/gateway/internal/services/chat"
	"github.com/codaipro/gateway/internal/services/releases"
	"github.com/codaipro/gateway/internal/services/session"
	"github.com/gorilla/mux"
)

// NewRouter wires the v1 API surface
func NewRouter(chatService chat.Service, releaseService *releases.Service, sessionService *session.Service) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()

	api.Handle("/chat/completions",
		middleware.RateLimit("chat_completion")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			chathandler.HandleChatCompletions(chatService, w, r)
		}))).Methods("POST")

	api.Handle("/releases/latest",
		middleware.RateLimit("releases")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			releaseshandler.HandleLatestRelease(releaseService, w, r)
		}))).Methods("GET")

	api.Handle("/support/ws",
		middleware.RateLimit("support")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			supporthandler.HandleSupportSocket(chatService, sessionService, w, r)
		}))).Methods("GET")

	// Legacy paths used by the deployed web front-end
	r.HandleFunc("/api/chat", func(w http.ResponseWriter, r *http.Request) {
		chathandler.HandleChatCompletions(chatService, w, r)
	}).Methods("POST")
	r.HandleFunc("/api/releases", func(w http.ResponseWriter, r *http.Request) {
		releaseshandler.HandleLatestRelease(releaseService, w, r)
	}).Methods("GET")

	return r
}
