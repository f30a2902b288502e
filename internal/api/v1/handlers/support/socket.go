package support

import (
	"net/http"
	"time"

	"github.com/codaipro/gateway/internal/services/chat"
	"github.com/codaipro/gateway/internal/services/chat/models"
	"github.com/codaipro/gateway/internal/services/session"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// The widget is served from the same origin as the gateway
		return true
	},
}

// Frame types sent to the widget.
const (
	frameGreeting = "greeting"
	frameChunk    = "chunk"
	frameDone     = "done"
	frameError    = "error"
)

const (
	greeting = "Hi! 👋 How can I help you with CodaiPro today?"

	// chunkSize and chunkInterval pace the reply so the widget shows a
	// typing effect without any client-side timer.
	chunkSize     = 24
	chunkInterval = 30 * time.Millisecond

	// historyLimit caps how much conversation one socket accumulates
	historyLimit = 20
)

type inboundFrame struct {
	Message string `json:"message"`
}

type outboundFrame struct {
	Type    string `json:"type"`
	Content string `json:"content,omitempty"`
}

// HandleSupportSocket runs one support-widget conversation over a
// WebSocket. Each inbound message is answered through the chat service
// and streamed back in paced chunks.
func HandleSupportSocket(chatService chat.Service, sessionService *session.Service, w http.ResponseWriter, r *http.Request) {
	sess, err := sessionService.ValidateSession(r)
	if err != nil {
		log.Error().Err(err).Msg("Failed to validate widget session")
		http.Error(w, "session error", http.StatusInternalServerError)
		return
	}

	// The handshake response is written by the upgrader, so a fresh
	// session cookie has to travel in the handshake headers.
	var respHeader http.Header
	if sess == nil {
		var cookie *http.Cookie
		sess, cookie, err = sessionService.NewSession(r.Context())
		if err != nil {
			log.Error().Err(err).Msg("Failed to establish widget session")
			http.Error(w, "session error", http.StatusInternalServerError)
			return
		}
		respHeader = http.Header{"Set-Cookie": {cookie.String()}}
	}

	conn, err := upgrader.Upgrade(w, r, respHeader)
	if err != nil {
		return
	}
	defer conn.Close()

	log.Info().Str("session_id", sess.ID).Msg("Support socket connected")

	if err := conn.WriteJSON(outboundFrame{Type: frameGreeting, Content: greeting}); err != nil {
		return
	}

	history := make([]models.ChatMessage, 0, historyLimit)

	for {
		var frame inboundFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn().Err(err).Str("session_id", sess.ID).Msg("Unexpected support socket closure")
			}
			return
		}

		if frame.Message == "" {
			continue
		}

		history = appendBounded(history, models.ChatMessage{
			Role:    models.RoleUser,
			Content: frame.Message,
		})

		resp, err := chatService.ProcessChat(r.Context(), history)
		if err != nil {
			log.Error().Err(err).Str("session_id", sess.ID).Msg("Support chat processing failed")
			msg := "Sorry, I encountered an error. Please try again or contact us at support@codai.pro"
			if err := conn.WriteJSON(outboundFrame{Type: frameError, Content: msg}); err != nil {
				return
			}
			continue
		}

		reply := resp.Choices[0].Message.Content
		history = appendBounded(history, models.ChatMessage{
			Role:    models.RoleAssistant,
			Content: reply,
		})

		if err := streamReply(conn, reply); err != nil {
			return
		}
	}
}

// streamReply writes the reply in fixed-size chunks with a short pause
// between each, then a done frame.
func streamReply(conn *websocket.Conn, reply string) error {
	runes := []rune(reply)
	for start := 0; start < len(runes); start += chunkSize {
		end := start + chunkSize
		if end > len(runes) {
			end = len(runes)
		}

		if err := conn.WriteJSON(outboundFrame{Type: frameChunk, Content: string(runes[start:end])}); err != nil {
			return err
		}

		if end < len(runes) {
			time.Sleep(chunkInterval)
		}
	}

	return conn.WriteJSON(outboundFrame{Type: frameDone})
}

func appendBounded(history []models.ChatMessage, msg models.ChatMessage) []models.ChatMessage {
	history = append(history, msg)
	if len(history) > historyLimit {
		history = history[len(history)-historyLimit:]
	}
	return history
}
