package conversation

import (
	"context"
	"fmt"
)

const (
	askPhoneForResults = "To check your test results, I need your phone number. Please provide it."
	resultsNotFound    = "No test results found for this phone number yet. Please check back later or contact the clinic directly. Expected turnaround time is usually 24-48 hours after your visit."
	resultsReady       = "Your test results are ready for collection. Please visit the clinic during our operating hours (Monday-Friday 8am-6pm, Saturday 9am-2pm). For any questions about your results, please speak directly with our medical staff."
)

// handleTestResult never reveals result content. It only says whether the
// patient has results waiting. Asking for a phone is the one reply that
// keeps the lookup pending.
func (e *Engine) handleTestResult(ctx context.Context, t *turn) (string, error) {
	sess := t.session

	var patientID int64
	switch {
	case t.signals.Phone:
		if t.phonePatient == nil {
			sess.State = StateIdle
			return resultsNotFound, nil
		}
		patientID = t.phonePatient.ID
	case sess.PatientID != nil:
		patientID = *sess.PatientID
	default:
		sess.State = StateAwaitingTestResultPhone
		return askPhoneForResults, nil
	}

	sess.State = StateIdle
	recent, err := e.appointments.FindRecentByPatient(ctx, patientID, 1)
	if err != nil {
		return "", fmt.Errorf("conversation: lookup appointments: %w", err)
	}
	if len(recent) == 0 {
		return resultsNotFound, nil
	}
	return resultsReady, nil
}
