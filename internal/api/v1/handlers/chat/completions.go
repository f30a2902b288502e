package chat

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/codaipro/gateway/internal/services/chat"
	"github.com/codaipro/gateway/internal/services/chat/models"
	"github.com/codaipro/gateway/pkg/httpext"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

// use a single instance of Validate, it caches struct info
var validate = validator.New(validator.WithRequiredStructEnabled())

// HandleChatCompletions handles chat completions requests
func HandleChatCompletions(chatService chat.Service, w http.ResponseWriter, r *http.Request) {
	var req models.ChatCompletionRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn().Err(err).Msg("Client sent malformed JSON request")
		httpext.JsonError(w, "Invalid request: messages array is required", http.StatusBadRequest)
		return
	}

	// Validate request against model constraints. First failure wins and
	// no upstream call is made.
	if err := validate.Struct(req); err != nil {
		httpext.JsonError(w, validationMessage(err), http.StatusBadRequest)
		return
	}

	log.Info().
		Int("message_count", len(req.Messages)).
		Str("client_ip", r.RemoteAddr).
		Msg("Received chat completions request")

	resp, err := chatService.ProcessChat(r.Context(), req.Messages)
	if err != nil {
		writeChatError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
		httpext.JsonError(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}

	log.Info().
		Str("client_ip", r.RemoteAddr).
		Str("mode", resp.Mode).
		Int("status", http.StatusOK).
		Msg("Chat completions request processed successfully")
}

// validationMessage maps the first validation failure to the message
// the web client expects.
func validationMessage(err error) string {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		fe := errs[0]
		if fe.Field() == "Messages" {
			switch fe.Tag() {
			case "required":
				return "Invalid request: messages array is required"
			case "min":
				return "Invalid request: messages array cannot be empty"
			}
		}
		return "Invalid message format"
	}
	return "Invalid request format"
}

func writeChatError(w http.ResponseWriter, err error) {
	var upErr *chat.UpstreamError

	switch {
	case errors.Is(err, chat.ErrEmptyMessages):
		log.Warn().Msg("Client sent empty messages array")
		httpext.JsonError(w, "Invalid request: messages array cannot be empty", http.StatusBadRequest)

	case errors.Is(err, chat.ErrUpstreamTimeout):
		log.Error().Msg("Upstream completion timed out")
		httpext.JsonError(w, "Request timeout: AI service took too long to respond", http.StatusGatewayTimeout)

	case errors.As(err, &upErr):
		// Forward the provider's own status code
		code := upErr.StatusCode
		if code == 0 {
			code = http.StatusBadGateway
		}
		log.Error().Int("status", code).Msg("Upstream reported an error")
		httpext.JsonError(w, upErr.Error(), code)

	case errors.Is(err, chat.ErrInvalidUpstreamResponse):
		log.Error().Msg("Upstream response violated the completion contract")
		httpext.JsonError(w, "Invalid response from AI service", http.StatusInternalServerError)

	default:
		log.Error().Err(err).Msg("Failed to process chat")
		httpext.JsonError(w, "Failed to process chat", http.StatusInternalServerError)
	}
}
