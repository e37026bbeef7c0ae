package conversation

import "context"

const (
	hoursReply         = "Our clinic is open Monday to Friday from 8am to 6pm, and Saturday from 9am to 2pm."
	servicesReply      = "We offer general consultations, health checkups, lab tests, vaccinations, and basic medical care. How can I help you today?"
	greetingReply      = "Hello! Welcome to the clinic. How can I help you today?"
	genericReply       = "How can I help you today?"
	degradedModeNotice = "Note: our assistant is running in limited mode right now, so I can only share standard clinic information."
)

func (e *Engine) handleInquiry(ctx context.Context, t *turn) (string, error) {
	if !t.generationUp {
		return inquiryFallback(t.signals) + "\n\n" + degradedModeNotice, nil
	}

	var patientContext string
	switch {
	case t.session.PatientID != nil:
		patientContext = e.patientContext(ctx, *t.session.PatientID)
	case t.signals.Phone:
		summary, err := e.contexts.ForPhone(ctx, t.signals.PhoneNumber)
		if err != nil {
			e.logger.Warn("patient context unavailable", "error", err)
		}
		patientContext = summary
	}
	gen := e.generate(ctx, "inquiry", InquirySystemPrompt(e.cfg.AssistantName, patientContext), t.message)
	if gen.Available {
		return gen.Text, nil
	}
	return inquiryFallback(t.signals), nil
}

func inquiryFallback(sig Signals) string {
	switch {
	case sig.HoursQuestion:
		return hoursReply
	case sig.ServiceQuestion:
		return servicesReply
	case sig.Greeting:
		return greetingReply
	default:
		return genericReply
	}
}

// patientContext is best effort; a lookup failure just drops the context.
func (e *Engine) patientContext(ctx context.Context, patientID int64) string {
	p, err := e.patients.GetByID(ctx, patientID)
	if err != nil {
		e.logger.Warn("patient context unavailable", "patient_id", patientID, "error", err)
		return ""
	}
	summary, err := e.contexts.ForPatient(ctx, p)
	if err != nil {
		e.logger.Warn("patient context unavailable", "patient_id", patientID, "error", err)
		return ""
	}
	return summary
}
