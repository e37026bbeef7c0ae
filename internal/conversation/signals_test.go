package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractSignals_Appointment(t *testing.T) {
	tests := []struct {
		name    string
		message string
		pending FlowState
		want    bool
	}{
		{name: "keyword", message: "Can I book for Friday?", pending: StateIdle, want: true},
		{name: "see doctor", message: "I need to see a doctor", pending: StateIdle, want: true},
		{name: "clock time", message: "maybe 14:30", pending: StateIdle, want: true},
		{name: "am pm time", message: "10 am works", pending: StateIdle, want: true},
		{name: "numeric date", message: "on 12/11 please", pending: StateIdle, want: true},
		{name: "phone while idle", message: "08012345678", pending: StateIdle, want: false},
		{name: "phone while booking", message: "08012345678", pending: StateAwaitingAppointmentDetails, want: true},
		{name: "intro while idle", message: "I am Ada", pending: StateIdle, want: false},
		{name: "intro while booking", message: "my name is Ada", pending: StateAwaitingAppointmentDetails, want: true},
		{name: "unrelated", message: "do you sell vitamins", pending: StateAwaitingAppointmentDetails, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractSignals(tt.message, tt.pending).Appointment)
		})
	}
}

func TestExtractSignals_PhoneAndContinuation(t *testing.T) {
	sig := ExtractSignals("it's 08012345678", StateIdle)
	assert.True(t, sig.Phone)
	assert.Equal(t, "08012345678", sig.PhoneNumber)
	assert.True(t, sig.TestResultContinuation)

	sig = ExtractSignals("My number is coming, one sec", StateAwaitingTestResultPhone)
	assert.False(t, sig.Phone)
	assert.True(t, sig.TestResultContinuation)

	sig = ExtractSignals("maybe tomorrow at 3pm", StateAwaitingTestResultPhone)
	assert.False(t, sig.TestResultContinuation)

	assert.False(t, ExtractSignals("call 123456789", StateIdle).Phone)
	assert.False(t, ExtractSignals("ref 080123456789", StateIdle).Phone)
}

func TestExtractSignals_Sentiment(t *testing.T) {
	tests := []struct {
		message string
		want    Sentiment
	}{
		{"the waiting time was terrible", SentimentNegative},
		{"I am not happy with the nurse", SentimentNegative},
		{"thank you, great service", SentimentPositive},
		{"the badge reader at reception", SentimentNeutral},
		{"feedback about parking", SentimentNeutral},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExtractSignals(tt.message, StateIdle).Sentiment, tt.message)
	}
}

func TestExtractSignals_UrgentAndInquiryFlags(t *testing.T) {
	assert.True(t, ExtractSignals("This is urgent, the ward was unsafe", StateIdle).Urgent)
	assert.False(t, ExtractSignals("the waiting time was terrible", StateIdle).Urgent)

	sig := ExtractSignals("Hello there", StateIdle)
	assert.True(t, sig.Greeting)
	assert.False(t, sig.HoursQuestion)

	assert.True(t, ExtractSignals("what services do you offer", StateIdle).ServiceQuestion)
	assert.True(t, ExtractSignals("are you open on sunday", StateIdle).HoursQuestion)
}
