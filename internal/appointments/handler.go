package appointments

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/wolfman30/clinicdesk-ai/pkg/logging"
)

// Handler handles HTTP requests for appointments
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates a new appointments handler
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		repo:   repo,
		logger: logger,
	}
}

// ListResponse is the response for listing appointments
type ListResponse struct {
	Appointments []Listing `json:"appointments"`
}

// CreateResponse is returned after a manual booking.
type CreateResponse struct {
	Success       bool  `json:"success"`
	AppointmentID int64 `json:"appointmentId"`
}

// List handles GET /api/appointments?date=YYYY-MM-DD
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{Date: r.URL.Query().Get("date")}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 && limit <= 100 {
			filter.Limit = limit
		}
	}

	rows, err := h.repo.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list appointments", "error", err, "date", filter.Date)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, ListResponse{Appointments: rows})
}

// Create handles POST /api/appointments. Manual bookings are confirmed.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Status = StatusConfirmed

	appt, err := h.repo.Create(r.Context(), &req)
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusBadRequest, "Missing required fields")
			return
		}
		h.logger.Error("failed to create appointment", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.logger.Info("appointment created", "id", appt.ID, "patient_id", appt.PatientID, "date", appt.Date)
	writeJSON(w, http.StatusOK, CreateResponse{Success: true, AppointmentID: appt.ID})
}

func isValidationError(err error) bool {
	return errors.Is(err, ErrMissingPatient) || errors.Is(err, ErrMissingTime) || errors.Is(err, ErrInvalidDate)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
