package feedback

import (
	"strings"
	"time"
)

// Sentiment labels stored with each feedback row.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// Feedback is a patient comment captured by the assistant.
type Feedback struct {
	ID        int64     `json:"id"`
	PatientID *int64    `json:"patientId,omitempty"`
	SessionID string    `json:"sessionId,omitempty"`
	Sentiment string    `json:"sentiment"`
	Message   string    `json:"message"`
	Urgent    bool      `json:"urgent"`
	CreatedAt time.Time `json:"createdAt"`
}

// Listing is a feedback row joined with its patient, if any.
type Listing struct {
	Feedback
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// CreateFeedbackRequest holds a new feedback row.
type CreateFeedbackRequest struct {
	PatientID *int64
	SessionID string
	Sentiment string
	Message   string
	Urgent    bool
}

// Validate validates the create feedback request
func (r *CreateFeedbackRequest) Validate() error {
	if strings.TrimSpace(r.Message) == "" {
		return ErrEmptyMessage
	}
	switch r.Sentiment {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
	default:
		return ErrInvalidSentiment
	}
	return nil
}
