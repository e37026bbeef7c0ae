package conversation

import (
	"context"
	"errors"
	"fmt"

	"github.com/wolfman30/clinicdesk-ai/internal/appointments"
	"github.com/wolfman30/clinicdesk-ai/internal/patients"
)

// handleAppointment merges this turn's fields into the draft and books once
// every required field is present.
func (e *Engine) handleAppointment(ctx context.Context, t *turn) (string, error) {
	sess := t.session
	if sess.Draft == nil {
		sess.Draft = &AppointmentDraft{}
	}
	e.slots.Fill(sess.Draft, t.message, t.lookback)

	if !sess.Draft.Complete() {
		sess.State = StateAwaitingAppointmentDetails
		return MissingFieldsPrompt(sess.Draft), nil
	}

	draft := *sess.Draft
	patient, err := e.findOrCreatePatient(ctx, draft.Name, draft.Phone)
	if err != nil {
		return "", err
	}
	reason := draft.Reason
	if reason == "" {
		reason = appointments.DefaultReason
	}
	appt, err := e.appointments.Create(ctx, &appointments.CreateAppointmentRequest{
		PatientID: patient.ID,
		Date:      draft.Date,
		Time:      draft.Time,
		Reason:    reason,
		Status:    appointments.StatusConfirmed,
	})
	if err != nil {
		return "", fmt.Errorf("conversation: book appointment: %w", err)
	}

	e.logger.Info("appointment booked from chat",
		"session_id", t.sessionID,
		"appointment_id", appt.ID,
		"patient_id", patient.ID,
		"date", appt.Date,
	)
	e.metrics.ObserveBooking()

	sess.State = StateIdle
	sess.Draft = nil
	sess.PatientID = &patient.ID
	return BookingConfirmation(&draft), nil
}

// findOrCreatePatient matches on the exact phone number only.
func (e *Engine) findOrCreatePatient(ctx context.Context, name, phone string) (*patients.Patient, error) {
	p, err := e.patients.FindByPhone(ctx, phone)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, patients.ErrPatientNotFound) {
		return nil, fmt.Errorf("conversation: find patient: %w", err)
	}

	p, err = e.patients.Create(ctx, &patients.CreatePatientRequest{Name: name, Phone: phone})
	if errors.Is(err, patients.ErrDuplicatePhone) {
		// registered concurrently by another session
		return e.patients.FindByPhone(ctx, phone)
	}
	if err != nil {
		return nil, fmt.Errorf("conversation: create patient: %w", err)
	}
	return p, nil
}
