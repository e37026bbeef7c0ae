package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/clinicdesk-ai/internal/appointments"
	"github.com/wolfman30/clinicdesk-ai/internal/conversation"
	"github.com/wolfman30/clinicdesk-ai/internal/feedback"
)

var lagos = time.FixedZone("WAT", 3600)

type apptSlice []appointments.Appointment

func (s apptSlice) All() []appointments.Appointment { return s }

type feedbackSlice []feedback.Feedback

func (s feedbackSlice) All() []feedback.Feedback { return s }

func logAt(t *testing.T, log *conversation.MemoryLog, session, role string, at time.Time) {
	t.Helper()
	require.NoError(t, log.Append(context.Background(), conversation.LogEntry{
		SessionID: session, Role: role, Message: "hi", CreatedAt: at,
	}))
}

func TestMemoryReporter_Summary(t *testing.T) {
	day := time.Date(2026, 10, 19, 12, 0, 0, 0, lagos)
	log := conversation.NewMemoryLog()
	// 09:xx local has two user messages, 14:xx one.
	logAt(t, log, "a", conversation.RoleUser, time.Date(2026, 10, 19, 8, 5, 0, 0, time.UTC))
	logAt(t, log, "a", conversation.RoleAssistant, time.Date(2026, 10, 19, 8, 5, 1, 0, time.UTC))
	logAt(t, log, "b", conversation.RoleUser, time.Date(2026, 10, 19, 8, 40, 0, 0, time.UTC))
	logAt(t, log, "c", conversation.RoleUser, time.Date(2026, 10, 19, 13, 0, 0, 0, time.UTC))
	// 23:30 UTC on the 18th is 00:30 on the 19th in Lagos.
	logAt(t, log, "d", conversation.RoleAssistant, time.Date(2026, 10, 18, 23, 30, 0, 0, time.UTC))
	logAt(t, log, "old", conversation.RoleUser, time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC))

	appts := apptSlice{
		{ID: 1, PatientID: 1, Date: "2026-01-15", Status: appointments.StatusConfirmed},
		{ID: 2, PatientID: 1, Date: "2026-10-19", Status: appointments.StatusConfirmed},
		{ID: 3, PatientID: 2, Date: "2026-10-19", Status: appointments.StatusConfirmed},
		{ID: 4, PatientID: 3, Date: "2026-10-19", Status: appointments.StatusPending},
		{ID: 5, PatientID: 3, Date: "2026-10-25", Status: appointments.StatusConfirmed},
	}
	fb := feedbackSlice{
		{ID: 1, CreatedAt: time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)},
		{ID: 2, CreatedAt: time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)},
	}

	summary, err := NewMemoryReporter(log, appts, fb, lagos).Summary(context.Background(), day)
	require.NoError(t, err)
	assert.Equal(t, &Summary{
		TotalConversations: 4,
		AppointmentsBooked: 3,
		ReturningPatients:  1,
		ComplaintsFlagged:  1,
		PeakInquiryTime:    "09:00",
	}, summary)
}

func TestMemoryReporter_EmptyDay(t *testing.T) {
	summary, err := NewMemoryReporter(conversation.NewMemoryLog(), apptSlice{}, feedbackSlice{}, nil).
		Summary(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, "N/A", summary.PeakInquiryTime)
	assert.Zero(t, summary.TotalConversations)
}

type stubReporter struct {
	summary *Summary
	err     error
	day     time.Time
}

func (s *stubReporter) Summary(ctx context.Context, day time.Time) (*Summary, error) {
	s.day = day
	return s.summary, s.err
}

func TestHandler_Summary(t *testing.T) {
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	reporter := &stubReporter{summary: &Summary{TotalConversations: 2, PeakInquiryTime: "10:00"}}
	h := NewHandler(reporter, func() time.Time { return now }, nil)

	rec := httptest.NewRecorder()
	h.Summary(rec, httptest.NewRequest(http.MethodGet, "/api/admin/summary", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(2), body["totalConversations"])
	assert.Equal(t, "10:00", body["peakInquiryTime"])
	assert.Equal(t, now, reporter.day)
}

func TestHandler_SummaryError(t *testing.T) {
	h := NewHandler(&stubReporter{err: errors.New("db down")}, nil, nil)
	rec := httptest.NewRecorder()
	h.Summary(rec, httptest.NewRequest(http.MethodGet, "/api/admin/summary", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
}
