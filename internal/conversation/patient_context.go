package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wolfman30/clinicdesk-ai/internal/patients"
)

const (
	newPatientContext      = "New patient - no prior history"
	recentAppointmentLimit = 3
)

// PatientContextBuilder summarises a patient's history for prompts.
type PatientContextBuilder struct {
	patients     patients.Repository
	appointments AppointmentStore
}

func NewPatientContextBuilder(patientRepo patients.Repository, appts AppointmentStore) *PatientContextBuilder {
	return &PatientContextBuilder{patients: patientRepo, appointments: appts}
}

// ForPhone describes the patient registered with phone.
func (b *PatientContextBuilder) ForPhone(ctx context.Context, phone string) (string, error) {
	p, err := b.patients.FindByPhone(ctx, phone)
	if errors.Is(err, patients.ErrPatientNotFound) {
		return newPatientContext, nil
	}
	if err != nil {
		return "", err
	}
	return b.ForPatient(ctx, p)
}

// ForPatient describes a known patient and their latest appointments.
func (b *PatientContextBuilder) ForPatient(ctx context.Context, p *patients.Patient) (string, error) {
	total, err := b.appointments.CountByPatient(ctx, p.ID)
	if err != nil {
		return "", err
	}
	recent, err := b.appointments.FindRecentByPatient(ctx, p.ID, recentAppointmentLimit)
	if err != nil {
		return "", err
	}

	firstVisit := "unknown"
	if p.FirstVisit != nil {
		firstVisit = p.FirstVisit.Format(isoDate)
	}
	visits := make([]string, 0, len(recent))
	for _, a := range recent {
		visits = append(visits, fmt.Sprintf("%s %s (%s, %s)", a.Date, a.Time, a.Reason, a.Status))
	}
	summary := "none"
	if len(visits) > 0 {
		summary = strings.Join(visits, "; ")
	}
	return fmt.Sprintf("Patient: %s, Phone: %s, First visit: %s, Total appointments: %d. Recent appointments: %s",
		p.Name, p.Phone, firstVisit, total, summary), nil
}
