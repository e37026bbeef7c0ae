package feedback

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/wolfman30/clinicdesk-ai/pkg/logging"
)

// Handler serves the admin feedback listing.
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates a new feedback handler
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// ListResponse is the response for listing feedback
type ListResponse struct {
	Feedbacks []Listing `json:"feedbacks"`
}

// List handles GET /api/feedback
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit := DefaultListLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if n, err := strconv.Atoi(limitStr); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	rows, err := h.repo.ListRecent(r.Context(), limit)
	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		h.logger.Error("failed to list feedback", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Internal server error"})
		return
	}
	_ = json.NewEncoder(w).Encode(ListResponse{Feedbacks: rows})
}
