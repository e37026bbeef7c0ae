// Package webchat serves the browser chat widget over a web socket.
package webchat

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/net/websocket"

	"github.com/wolfman30/clinicdesk-ai/internal/conversation"
	"github.com/wolfman30/clinicdesk-ai/pkg/logging"
)

const (
	typeMessage = "message"
	typePing    = "ping"
	typePong    = "pong"
	typeSession = "session"
	typeError   = "error"

	// maxFrameBytes bounds one inbound JSON frame.
	maxFrameBytes = 16 << 10

	errorReply = "Sorry, something went wrong. Please try again."
)

// InboundMessage is what the widget sends.
type InboundMessage struct {
	Type string `json:"type"` // "message", "ping"
	Text string `json:"text"`
}

// OutboundMessage is what we send to the widget.
type OutboundMessage struct {
	Type      string `json:"type"` // "message", "session", "pong", "error"
	Role      string `json:"role,omitempty"`
	Text      string `json:"text,omitempty"`
	Intent    string `json:"intent,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

// Handler runs one chat session per web socket connection.
type Handler struct {
	engine conversation.TurnHandler
	logger *logging.Logger
	open   atomic.Int64
}

// NewHandler creates a web chat handler.
func NewHandler(engine conversation.TurnHandler, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{engine: engine, logger: logger}
}

// OpenConnections reports the number of live sockets.
func (h *Handler) OpenConnections() int64 {
	return h.open.Load()
}

// HandleWebSocket upgrades GET /ws/chat. ?session= resumes an existing
// conversation; otherwise a new session id is minted for the connection.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	server := websocket.Server{
		// Browsers on other origins are gated by CORS on the HTTP routes.
		Handshake: func(*websocket.Config, *http.Request) error { return nil },
		Handler: func(conn *websocket.Conn) {
			conn.MaxPayloadBytes = maxFrameBytes
			h.serve(r.Context(), conn, r.URL.Query().Get("session"))
		},
	}
	server.ServeHTTP(w, r)
}

func (h *Handler) serve(ctx context.Context, conn *websocket.Conn, sessionID string) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	h.open.Add(1)
	defer h.open.Add(-1)

	log := h.logger.With("session_id", sessionID)
	log.Info("webchat: connection opened")

	if err := websocket.JSON.Send(conn, OutboundMessage{Type: typeSession, SessionID: sessionID}); err != nil {
		log.Debug("webchat: send session failed", "error", err)
		return
	}

	for {
		var msg InboundMessage
		if err := websocket.JSON.Receive(conn, &msg); err != nil {
			log.Debug("webchat: connection closed", "error", err)
			return
		}

		var reply OutboundMessage
		switch msg.Type {
		case typePing:
			reply = OutboundMessage{Type: typePong}
		case typeMessage:
			if strings.TrimSpace(msg.Text) == "" {
				continue
			}
			reply = h.answer(ctx, log, sessionID, msg.Text)
		default:
			continue
		}

		if err := websocket.JSON.Send(conn, reply); err != nil {
			log.Debug("webchat: send failed", "error", err)
			return
		}
	}
}

func (h *Handler) answer(ctx context.Context, log *logging.Logger, sessionID, text string) OutboundMessage {
	result, err := h.engine.HandleTurn(ctx, conversation.TurnRequest{SessionID: sessionID, Message: text})
	if err != nil {
		if !errors.Is(err, conversation.ErrInvalidMessage) {
			log.Error("webchat: turn failed", "error", err)
		}
		return OutboundMessage{Type: typeError, Text: errorReply}
	}
	return OutboundMessage{
		Type:      typeMessage,
		Role:      conversation.RoleAssistant,
		Text:      result.Response,
		Intent:    string(result.Intent),
		SessionID: result.SessionID,
	}
}
