// Package seed loads demo records for local development.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wolfman30/clinicdesk-ai/internal/appointments"
	"github.com/wolfman30/clinicdesk-ai/internal/conversation"
	"github.com/wolfman30/clinicdesk-ai/internal/feedback"
	"github.com/wolfman30/clinicdesk-ai/internal/patients"
	"github.com/wolfman30/clinicdesk-ai/pkg/logging"
)

const demoSessionID = "demo-seed"

type demoPatient struct {
	name       string
	phone      string
	firstVisit string
}

var demoPatients = []demoPatient{
	{name: "John Doe", phone: "08012345678", firstVisit: "2024-01-15"},
	{name: "Jane Smith", phone: "08023456789", firstVisit: "2024-02-10"},
	{name: "Michael Brown", phone: "08034567890", firstVisit: "2024-03-05"},
}

// Result counts what a run inserted.
type Result struct {
	Patients     int
	Appointments int
	Feedback     int
	Messages     int
}

// Seeder writes the demo data set through the record repositories.
type Seeder struct {
	patients     patients.Repository
	appointments appointments.Repository
	feedback     feedback.Repository
	log          conversation.ConversationLog
	logger       *logging.Logger
}

func New(p patients.Repository, a appointments.Repository, f feedback.Repository, log conversation.ConversationLog, logger *logging.Logger) *Seeder {
	if logger == nil {
		logger = logging.Default()
	}
	return &Seeder{patients: p, appointments: a, feedback: f, log: log, logger: logger}
}

// Run seeds patients, today's appointments, two feedback rows and a short
// sample conversation. Patients already on file are left alone and get no
// new records, so repeated runs do not duplicate data.
func (s *Seeder) Run(ctx context.Context, today time.Time) (*Result, error) {
	res := &Result{}
	created := make([]*patients.Patient, 0, len(demoPatients))

	for _, dp := range demoPatients {
		existing, err := s.patients.FindByPhone(ctx, dp.phone)
		if err == nil && existing != nil {
			s.logger.Debug("seed: patient exists", "phone", dp.phone)
			created = append(created, nil)
			continue
		}
		if err != nil && !errors.Is(err, patients.ErrPatientNotFound) {
			return nil, fmt.Errorf("seed: find patient: %w", err)
		}
		first, err := time.Parse("2006-01-02", dp.firstVisit)
		if err != nil {
			return nil, fmt.Errorf("seed: first visit: %w", err)
		}
		p, err := s.patients.Create(ctx, &patients.CreatePatientRequest{Name: dp.name, Phone: dp.phone, FirstVisit: &first})
		if err != nil {
			return nil, fmt.Errorf("seed: create patient: %w", err)
		}
		created = append(created, p)
		res.Patients++
	}

	date := today.Format("2006-01-02")
	visits := []struct {
		idx          int
		time, reason string
	}{
		{0, "10:00", "General checkup"},
		{1, "14:30", "Follow-up"},
	}
	for _, v := range visits {
		p := created[v.idx]
		if p == nil {
			continue
		}
		if _, err := s.appointments.Create(ctx, &appointments.CreateAppointmentRequest{
			PatientID: p.ID,
			Date:      date,
			Time:      v.time,
			Reason:    v.reason,
			Status:    appointments.StatusConfirmed,
		}); err != nil {
			return nil, fmt.Errorf("seed: create appointment: %w", err)
		}
		res.Appointments++
	}

	comments := []struct {
		idx                int
		sentiment, message string
	}{
		{0, feedback.SentimentPositive, "Great service, very professional staff!"},
		{1, feedback.SentimentNegative, "Had to wait too long for my appointment."},
	}
	for _, c := range comments {
		p := created[c.idx]
		if p == nil {
			continue
		}
		id := p.ID
		if _, err := s.feedback.Create(ctx, &feedback.CreateFeedbackRequest{
			PatientID: &id,
			SessionID: demoSessionID,
			Sentiment: c.sentiment,
			Message:   c.message,
		}); err != nil {
			return nil, fmt.Errorf("seed: create feedback: %w", err)
		}
		res.Feedback++
	}

	if s.log != nil && res.Patients > 0 {
		sample := []conversation.LogEntry{
			{Role: conversation.RoleAssistant, Message: "Hello! Welcome to the clinic. How can I help you today?"},
			{Role: conversation.RoleUser, Message: "What are your operating hours?"},
			{Role: conversation.RoleAssistant, Message: "Our clinic is open Monday to Friday from 8am to 6pm, and Saturday from 9am to 2pm."},
		}
		for _, e := range sample {
			e.SessionID = demoSessionID
			if err := s.log.Append(ctx, e); err != nil {
				return nil, fmt.Errorf("seed: append message: %w", err)
			}
			res.Messages++
		}
	}

	s.logger.Info("seed complete",
		"patients", res.Patients,
		"appointments", res.Appointments,
		"feedback", res.Feedback,
		"messages", res.Messages,
	)
	return res, nil
}
