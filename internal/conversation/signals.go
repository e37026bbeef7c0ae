package conversation

import (
	"regexp"
	"strings"
)

// Sentiment is the tone assigned to a feedback message.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Signals are the lexical cues found in one message.
type Signals struct {
	Appointment            bool
	Phone                  bool
	PhoneNumber            string
	TestResultContinuation bool
	Greeting               bool
	ServiceQuestion        bool
	HoursQuestion          bool
	Sentiment              Sentiment
	Urgent                 bool
}

var (
	phonePattern = regexp.MustCompile(`\b\d{10,11}\b`)

	appointmentKeywordPattern = regexp.MustCompile(`\b(appointment|book|booking|schedule|today|tomorrow|next week|monday|tuesday|wednesday|thursday|friday|saturday|sunday|come in)\b|\b(see|visit)\s+(a\s+|the\s+)?doctor\b`)
	timeOfDayPattern          = regexp.MustCompile(`\b\d{1,2}:\d{2}|\b\d{1,2}\s?(am|pm)\b`)
	numericDatePattern        = regexp.MustCompile(`\b\d{1,2}[-/]\d{1,2}\b`)
	selfIntroPattern          = regexp.MustCompile(`\b(my name is|i'm|i am)\b|\bname:`)

	phoneReferencePattern = regexp.MustCompile(`my number is|here is my phone|phone number is|my phone|contact number`)

	greetingPattern = regexp.MustCompile(`^\s*(hi|hello|hey|good morning|good afternoon|good evening)\b`)
	servicePattern  = regexp.MustCompile(`\b(service|services|offer|provide|treatment|treatments|vaccination|vaccinations|consultation|checkup)\b`)
	hoursPattern    = regexp.MustCompile(`\b(open|opening|close|closing|hours|time|saturday|sunday|weekend|weekends)\b`)

	negativeSentimentPattern = regexp.MustCompile(`\b(bad|terrible|awful|worst|unhappy|disappointed|angry|complaint)\b|\bnot happy\b`)
	positiveSentimentPattern = regexp.MustCompile(`\b(good|great|excellent|satisfied|happy|love|thank|thanks|appreciate)\b`)
	urgentPattern            = regexp.MustCompile(`\b(emergency|urgent|immediate|immediately|serious|critical|unsafe)\b`)
)

// ExtractSignals scans a message for routing and tagging cues. pending is
// the flow the session is currently waiting on.
func ExtractSignals(message string, pending FlowState) Signals {
	text := strings.ToLower(message)

	sig := Signals{
		PhoneNumber:     phonePattern.FindString(text),
		Greeting:        greetingPattern.MatchString(text),
		ServiceQuestion: servicePattern.MatchString(text),
		HoursQuestion:   hoursPattern.MatchString(text),
		Sentiment:       classifySentiment(text),
		Urgent:          urgentPattern.MatchString(text),
	}
	sig.Phone = sig.PhoneNumber != ""
	sig.TestResultContinuation = sig.Phone || phoneReferencePattern.MatchString(text)

	sig.Appointment = appointmentKeywordPattern.MatchString(text) ||
		timeOfDayPattern.MatchString(text) ||
		numericDatePattern.MatchString(text)
	if !sig.Appointment && pending == StateAwaitingAppointmentDetails {
		sig.Appointment = sig.Phone || selfIntroPattern.MatchString(text)
	}
	return sig
}

// Negative cues win so "not happy" never reads as praise.
func classifySentiment(text string) Sentiment {
	switch {
	case negativeSentimentPattern.MatchString(text):
		return SentimentNegative
	case positiveSentimentPattern.MatchString(text):
		return SentimentPositive
	default:
		return SentimentNeutral
	}
}
