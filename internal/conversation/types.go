package conversation

import (
	"errors"
	"time"
)

// Intent is the flow a turn was routed to.
type Intent string

const (
	IntentInquiry     Intent = "inquiry"
	IntentAppointment Intent = "appointment"
	IntentTestResult  Intent = "test_result"
	IntentFeedback    Intent = "feedback"
	IntentUnknown     Intent = "unknown"
)

// FlowState names the multi-turn flow a session is waiting on.
type FlowState string

const (
	StateIdle                       FlowState = "idle"
	StateAwaitingAppointmentDetails FlowState = "awaiting_appointment_details"
	StateAwaitingTestResultPhone    FlowState = "awaiting_test_result_phone"
)

// Message roles stored in the conversation log.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrInvalidMessage is returned for a blank or missing message.
var ErrInvalidMessage = errors.New("conversation: message is required")

// AppointmentDraft holds the booking fields collected so far.
type AppointmentDraft struct {
	Name   string `json:"name,omitempty"`
	Phone  string `json:"phone,omitempty"`
	Date   string `json:"date,omitempty"`
	Time   string `json:"time,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// Complete reports whether every required booking field is present.
func (d *AppointmentDraft) Complete() bool {
	return d != nil && d.Name != "" && d.Phone != "" && d.Date != "" && d.Time != ""
}

// Missing lists the absent required fields in prompt order.
func (d *AppointmentDraft) Missing() []string {
	if d == nil {
		d = &AppointmentDraft{}
	}
	var missing []string
	if d.Name == "" {
		missing = append(missing, "name")
	}
	if d.Phone == "" {
		missing = append(missing, "phone number")
	}
	if d.Date == "" {
		missing = append(missing, "preferred date")
	}
	if d.Time == "" {
		missing = append(missing, "preferred time")
	}
	return missing
}

// Session is the per-conversation state carried between turns.
type Session struct {
	Key       string            `json:"key"`
	State     FlowState         `json:"state"`
	Draft     *AppointmentDraft `json:"draft,omitempty"`
	PatientID *int64            `json:"patient_id,omitempty"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func newSession(key string) *Session {
	return &Session{Key: key, State: StateIdle}
}

// Empty reports whether the session carries nothing worth keeping.
func (s *Session) Empty() bool {
	return (s.State == "" || s.State == StateIdle) && s.Draft == nil && s.PatientID == nil
}

func (s *Session) clone() *Session {
	out := *s
	if s.Draft != nil {
		d := *s.Draft
		out.Draft = &d
	}
	if s.PatientID != nil {
		id := *s.PatientID
		out.PatientID = &id
	}
	return &out
}

// TurnRequest is one inbound chat message.
type TurnRequest struct {
	SessionID string
	Message   string
}

// TurnResult is the assistant's reply to a turn.
type TurnResult struct {
	SessionID string `json:"session_id"`
	Response  string `json:"response"`
	Intent    Intent `json:"intent"`
}
