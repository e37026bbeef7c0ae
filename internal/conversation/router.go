package conversation

// RouteRule names the transition the router applied.
type RouteRule string

const (
	RuleTestResultContinue  RouteRule = "test_result_continue"
	RuleTestResultAbandoned RouteRule = "test_result_abandoned"
	RuleAppointmentContinue RouteRule = "appointment_continue"
	RuleClassified          RouteRule = "classified"
)

// Decision is the router's verdict for one turn.
type Decision struct {
	Intent Intent
	Rule   RouteRule
	// ClearAppointment drops a pending booking and its draft.
	ClearAppointment bool
	// ClearTestResult drops a pending test-result lookup.
	ClearTestResult bool
}

type transition struct {
	from FlowState
	when func(Signals) bool
	rule RouteRule
	// to is empty when the message must be reclassified.
	to Intent
}

// transitions is evaluated top to bottom for the session's current state.
// A state with no matching row falls through to classification.
var transitions = []transition{
	{
		from: StateAwaitingTestResultPhone,
		when: func(s Signals) bool { return s.TestResultContinuation },
		rule: RuleTestResultContinue,
		to:   IntentTestResult,
	},
	{
		from: StateAwaitingTestResultPhone,
		when: func(Signals) bool { return true },
		rule: RuleTestResultAbandoned,
	},
	{
		from: StateAwaitingAppointmentDetails,
		when: func(s Signals) bool { return s.Appointment },
		rule: RuleAppointmentContinue,
		to:   IntentAppointment,
	},
}

// Route picks the flow for a turn from the session state, the message
// signals and, when no pending flow claims the turn, the classifier.
func Route(state FlowState, sig Signals, message string) Decision {
	d := Decision{Rule: RuleClassified}
	for _, t := range transitions {
		if t.from != state || !t.when(sig) {
			continue
		}
		d.Rule = t.rule
		d.Intent = t.to
		break
	}

	abandoned := d.Rule == RuleTestResultAbandoned
	if d.Intent == "" {
		d.Intent = Classify(message)
	}
	if d.Intent == IntentUnknown {
		d.Intent = IntentInquiry
	}

	d.ClearAppointment = d.Intent != IntentAppointment || !sig.Appointment
	d.ClearTestResult = abandoned || d.Intent != IntentTestResult || !sig.TestResultContinuation
	return d
}

// Apply resets the pending flow state the decision abandons.
func (d Decision) Apply(s *Session) {
	if d.ClearAppointment {
		if s.State == StateAwaitingAppointmentDetails {
			s.State = StateIdle
		}
		s.Draft = nil
	}
	if d.ClearTestResult && s.State == StateAwaitingTestResultPhone {
		s.State = StateIdle
	}
}
