package conversation

import (
	"context"
	"fmt"

	"github.com/wolfman30/clinicdesk-ai/internal/feedback"
)

const (
	positiveFeedbackReply = "Thank you for your feedback. We appreciate your kind words. Your feedback has been recorded and will be reviewed by our team."
	concernFeedbackReply  = "Thank you for sharing your feedback. We're sorry about your experience, and your concern has been recorded and will be shared with our clinic team to help improve our service."
)

func (e *Engine) handleFeedback(ctx context.Context, t *turn) (string, error) {
	sentiment := t.signals.Sentiment
	fb, err := e.feedback.Create(ctx, &feedback.CreateFeedbackRequest{
		PatientID: t.session.PatientID,
		SessionID: t.sessionID,
		Sentiment: string(sentiment),
		Message:   t.message,
		Urgent:    t.signals.Urgent,
	})
	if err != nil {
		return "", fmt.Errorf("conversation: store feedback: %w", err)
	}
	if fb.Urgent {
		t.urgentFeedback = fb
	}

	if e.cfg.FeedbackGeneration && t.generationUp {
		gen := e.generate(ctx, "feedback", FeedbackSystemPrompt(e.cfg.AssistantName, sentiment), t.message)
		if gen.Available {
			return gen.Text, nil
		}
	}
	return feedbackReply(sentiment), nil
}

func feedbackReply(s Sentiment) string {
	if s == SentimentPositive {
		return positiveFeedbackReply
	}
	return concernFeedbackReply
}
