// Package admin computes the daily clinic summary shown on the staff dashboard.
package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/wolfman30/clinicdesk-ai/internal/appointments"
	"github.com/wolfman30/clinicdesk-ai/internal/conversation"
	"github.com/wolfman30/clinicdesk-ai/internal/feedback"
)

const (
	dateLayout = "2006-01-02"
	noPeakHour = "N/A"
)

// Summary is the daily dashboard overview.
type Summary struct {
	TotalConversations int    `json:"totalConversations"`
	AppointmentsBooked int    `json:"appointmentsBooked"`
	ReturningPatients  int    `json:"returningPatients"`
	ComplaintsFlagged  int    `json:"complaintsFlagged"`
	PeakInquiryTime    string `json:"peakInquiryTime"`
}

// Reporter builds the summary for the calendar day containing day.
type Reporter interface {
	Summary(ctx context.Context, day time.Time) (*Summary, error)
}

func formatPeakHour(hour int, found bool) string {
	if !found {
		return noPeakHour
	}
	return fmt.Sprintf("%02d:00", hour)
}

type messageSource interface {
	Entries() []conversation.LogEntry
}

type appointmentSource interface {
	All() []appointments.Appointment
}

type feedbackSource interface {
	All() []feedback.Feedback
}

// MemoryReporter summarizes the in-memory stores.
type MemoryReporter struct {
	messages     messageSource
	appointments appointmentSource
	feedback     feedbackSource
	loc          *time.Location
}

// NewMemoryReporter groups timestamps by day in loc (UTC when nil).
func NewMemoryReporter(messages messageSource, appts appointmentSource, fb feedbackSource, loc *time.Location) *MemoryReporter {
	if loc == nil {
		loc = time.UTC
	}
	return &MemoryReporter{messages: messages, appointments: appts, feedback: fb, loc: loc}
}

func (r *MemoryReporter) sameDay(t time.Time, day string) bool {
	return t.In(r.loc).Format(dateLayout) == day
}

func (r *MemoryReporter) Summary(ctx context.Context, day time.Time) (*Summary, error) {
	today := day.In(r.loc).Format(dateLayout)
	out := &Summary{PeakInquiryTime: noPeakHour}

	sessions := make(map[string]struct{})
	var perHour [24]int
	for _, e := range r.messages.Entries() {
		if !r.sameDay(e.CreatedAt, today) {
			continue
		}
		sessions[e.SessionID] = struct{}{}
		if e.Role == conversation.RoleUser {
			perHour[e.CreatedAt.In(r.loc).Hour()]++
		}
	}
	out.TotalConversations = len(sessions)

	peak, best := 0, 0
	for h, n := range perHour {
		if n > best {
			peak, best = h, n
		}
	}
	out.PeakInquiryTime = formatPeakHour(peak, best > 0)

	all := r.appointments.All()
	perPatient := make(map[int64]int)
	for _, a := range all {
		perPatient[a.PatientID]++
	}
	returning := make(map[int64]struct{})
	for _, a := range all {
		if a.Date != today {
			continue
		}
		out.AppointmentsBooked++
		if a.Status == appointments.StatusConfirmed && perPatient[a.PatientID] > 1 {
			returning[a.PatientID] = struct{}{}
		}
	}
	out.ReturningPatients = len(returning)

	for _, f := range r.feedback.All() {
		if r.sameDay(f.CreatedAt, today) {
			out.ComplaintsFlagged++
		}
	}
	return out, nil
}
