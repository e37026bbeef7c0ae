package admin

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/wolfman30/clinicdesk-ai/pkg/logging"
)

// Handler serves GET /api/admin/summary.
type Handler struct {
	reporter Reporter
	now      func() time.Time
	logger   *logging.Logger
}

func NewHandler(reporter Reporter, now func() time.Time, logger *logging.Logger) *Handler {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{reporter: reporter, now: now, logger: logger}
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reporter.Summary(r.Context(), h.now())
	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		h.logger.Error("admin summary failed", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Internal server error"})
		return
	}
	_ = json.NewEncoder(w).Encode(summary)
}
