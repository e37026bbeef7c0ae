package conversation

import (
	"context"

	"github.com/wolfman30/clinicdesk-ai/internal/appointments"
	"github.com/wolfman30/clinicdesk-ai/internal/feedback"
	"github.com/wolfman30/clinicdesk-ai/internal/patients"
)

// AppointmentStore is the part of the appointment repository chat needs.
type AppointmentStore interface {
	Create(ctx context.Context, req *appointments.CreateAppointmentRequest) (*appointments.Appointment, error)
	FindRecentByPatient(ctx context.Context, patientID int64, limit int) ([]appointments.Appointment, error)
	CountByPatient(ctx context.Context, patientID int64) (int, error)
}

// FeedbackStore persists tagged feedback.
type FeedbackStore interface {
	Create(ctx context.Context, req *feedback.CreateFeedbackRequest) (*feedback.Feedback, error)
}

// FeedbackAlerter notifies clinic staff about urgent feedback.
type FeedbackAlerter interface {
	AlertUrgentFeedback(ctx context.Context, fb *feedback.Feedback, patient *patients.Patient) error
}
