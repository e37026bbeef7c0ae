package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wolfman30/clinicdesk-ai/internal/feedback"
	"github.com/wolfman30/clinicdesk-ai/internal/patients"
	"github.com/wolfman30/clinicdesk-ai/pkg/logging"
)

// StaffAlerter emails clinic staff when a patient leaves urgent feedback.
type StaffAlerter struct {
	sender     EmailSender
	to         string
	clinicName string
	logger     *logging.Logger
}

// NewStaffAlerter returns nil when no recipient or sender is configured.
func NewStaffAlerter(sender EmailSender, to, clinicName string, logger *logging.Logger) *StaffAlerter {
	if sender == nil || strings.TrimSpace(to) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if clinicName == "" {
		clinicName = "the clinic"
	}
	return &StaffAlerter{sender: sender, to: to, clinicName: clinicName, logger: logger}
}

// AlertUrgentFeedback sends one alert email. patient may be nil for
// anonymous feedback.
func (a *StaffAlerter) AlertUrgentFeedback(ctx context.Context, fb *feedback.Feedback, patient *patients.Patient) error {
	if a == nil {
		return errors.New("notify: staff alerter not configured")
	}
	if fb == nil {
		return errors.New("notify: feedback is required")
	}

	who := "Anonymous patient"
	if patient != nil {
		who = fmt.Sprintf("%s (%s)", patient.Name, patient.Phone)
	}
	var body strings.Builder
	fmt.Fprintf(&body, "Urgent feedback was received by the %s chat assistant.\n\n", a.clinicName)
	fmt.Fprintf(&body, "Patient: %s\n", who)
	fmt.Fprintf(&body, "Sentiment: %s\n", fb.Sentiment)
	fmt.Fprintf(&body, "Received: %s\n", fb.CreatedAt.UTC().Format(time.RFC1123))
	if fb.SessionID != "" {
		fmt.Fprintf(&body, "Conversation: %s\n", fb.SessionID)
	}
	fmt.Fprintf(&body, "\nMessage:\n%s\n", fb.Message)

	err := a.sender.Send(ctx, EmailMessage{
		To:      a.to,
		Subject: fmt.Sprintf("[%s] Urgent patient feedback #%d", a.clinicName, fb.ID),
		Body:    body.String(),
	})
	if err != nil {
		return fmt.Errorf("notify: urgent feedback alert: %w", err)
	}
	a.logger.Info("urgent feedback alert sent", "feedback_id", fb.ID)
	return nil
}
