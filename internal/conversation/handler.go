package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wolfman30/clinicdesk-ai/pkg/logging"
)

// TurnHandler answers chat turns.
type TurnHandler interface {
	HandleTurn(ctx context.Context, req TurnRequest) (*TurnResult, error)
}

// Handler wires HTTP requests to the turn engine.
type Handler struct {
	engine TurnHandler
	logger *logging.Logger
}

// NewHandler creates a chat handler.
func NewHandler(engine TurnHandler, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{engine: engine, logger: logger}
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// Chat handles POST /api/chat.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid message"})
		return
	}
	if req.SessionID == "" {
		req.SessionID = r.Header.Get("X-Session-ID")
	}

	result, err := h.engine.HandleTurn(r.Context(), TurnRequest{SessionID: req.SessionID, Message: req.Message})
	if errors.Is(err, ErrInvalidMessage) {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid message"})
		return
	}
	if err != nil {
		h.logger.Error("failed to process chat message", "error", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}
