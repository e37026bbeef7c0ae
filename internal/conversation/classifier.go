package conversation

import (
	"regexp"
	"strings"
)

type intentRule struct {
	intent   Intent
	patterns []*regexp.Regexp
}

// Rules are evaluated in order; the first rule with a matching pattern wins.
// Feedback sits above inquiry so complaints are never answered as questions.
var intentRules = []intentRule{
	{
		intent: IntentAppointment,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\b(book|booking|appointment|appointments|schedule|reschedule|cancel|checkup|check-up)\b`),
			regexp.MustCompile(`\b(see|visit)\s+(a\s+|the\s+)?doctor\b`),
			regexp.MustCompile(`\bcome\s+in\b`),
		},
	},
	{
		intent: IntentTestResult,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\b(test|tests|result|results|lab|labs|report|reports|ready|status)\b`),
		},
	},
	{
		intent: IntentFeedback,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\b(not happy|unhappy|complaint|complain|bad service|poor service|waiting time|delay|delayed|frustrated|angry|dissatisfied|unsatisfied)\b`),
			regexp.MustCompile(`\b(feedback|review|rating|bad|terrible|awful|worst|disappointed)\b`),
		},
	},
	{
		intent: IntentInquiry,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\b(question|what|where|when|how|price|prices|cost|costs|hours|location|service|services|open|opening|close|closing|time)\b`),
			regexp.MustCompile(`\b(weekday|weekdays|weekend|weekends|saturday|saturdays|sunday|sundays|today|tomorrow|available|availability)\b`),
			regexp.MustCompile(`\b(working|office)\s+hours\b`),
		},
	},
}

// Classify maps a message to an intent using the ordered rule table. It
// returns IntentUnknown when no rule matches.
func Classify(message string) Intent {
	text := strings.ToLower(message)
	for _, rule := range intentRules {
		for _, p := range rule.patterns {
			if p.MatchString(text) {
				return rule.intent
			}
		}
	}
	return IntentUnknown
}
