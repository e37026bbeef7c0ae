package conversation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const isoDate = "2006-01-02"

var (
	nameIsPattern = regexp.MustCompile(`(?i)\b(?:name\s+is|name\s*:)\s*([a-z][a-z'\-]*(?:[ \t]+[a-z][a-z'\-]*)*)`)
	iAmPattern    = regexp.MustCompile(`(?i)\b(?:i'm|i\s+am)\s+([a-z][a-z'\-]*(?:[ \t]+[a-z][a-z'\-]*)*)`)

	slotTimePattern = regexp.MustCompile(`(?i)\b(\d{1,2}:\d{2}(?:\s?[ap]m)?|\d{1,2}\s?[ap]m)\b`)

	isoDatePattern      = regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`)
	dayFirstPattern     = regexp.MustCompile(`\b(\d{1,2})[/-](\d{1,2})(?:[/-](\d{4}|\d{2}))?\b`)
	dayMonthNamePattern = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+(?:of\s+)?(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sept?(?:ember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?(?:,?\s+(\d{4}))?\b`)
	monthNameDayPattern = regexp.MustCompile(`(?i)\b(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sept?(?:ember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?\s+(\d{1,2})(?:st|nd|rd|th)?(?:,?\s+(\d{4}))?\b`)
	dayAfterPattern     = regexp.MustCompile(`(?i)\bday\s+after\s+tomorrow\b`)
	tomorrowPattern     = regexp.MustCompile(`(?i)\btomorrow\b`)
	todayPattern        = regexp.MustCompile(`(?i)\btoday\b`)

	reasonRules = []struct {
		pattern *regexp.Regexp
		reason  string
	}{
		{regexp.MustCompile(`(?i)\bcheck[\s-]?up\b`), "General checkup"},
		{regexp.MustCompile(`(?i)\bfollow`), "Follow-up"},
		{regexp.MustCompile(`(?i)\bconsultation\b`), "General consultation"},
	}
)

var months = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March, "apr": time.April,
	"may": time.May, "jun": time.June, "jul": time.July, "aug": time.August,
	"sep": time.September, "oct": time.October, "nov": time.November, "dec": time.December,
}

// Words that end a captured name.
var nameStopWords = map[string]bool{
	"and": true, "my": true, "phone": true, "number": true, "at": true, "on": true,
	"for": true, "tomorrow": true, "today": true, "i": true, "want": true, "would": true,
	"like": true, "to": true, "please": true, "call": true, "with": true, "book": true,
	"booking": true, "appointment": true, "from": true, "is": true, "the": true,
	"next": true, "this": true, "by": true, "contact": true, "it": true, "can": true,
	"could": true, "need": true, "who": true, "here": true, "but": true,
	"or": true, "so": true, "am": true, "pm": true,
}

// First words after "I'm"/"I am" that mean the phrase is not a name.
var notNameWords = map[string]bool{
	"looking": true, "trying": true, "interested": true, "not": true, "here": true,
	"calling": true, "available": true, "free": true, "sick": true, "unwell": true,
	"fine": true, "good": true, "okay": true, "ok": true, "well": true, "going": true,
	"wondering": true, "hoping": true, "writing": true, "asking": true, "booking": true,
	"a": true, "an": true, "the": true, "so": true, "very": true, "just": true,
	"still": true, "also": true, "new": true, "back": true, "coming": true,
	"planning": true, "feeling": true, "having": true, "in": true, "at": true,
	"on": true, "sorry": true, "glad": true, "happy": true, "unable": true,
	"able": true, "checking": true, "following": true, "worried": true, "afraid": true,
	"pregnant": true, "waiting": true, "unhappy": true, "disappointed": true, "angry": true,
	"frustrated": true, "satisfied": true, "done": true, "ready": true, "from": true,
	"with": true, "to": true, "currently": true, "really": true, "too": true,
}

const maxNameWords = 4

// SlotFiller extracts appointment fields from free text.
type SlotFiller struct {
	now func() time.Time
	loc *time.Location
}

// NewSlotFiller resolves relative dates against now in loc. A nil loc means UTC.
func NewSlotFiller(now func() time.Time, loc *time.Location) *SlotFiller {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return &SlotFiller{now: now, loc: loc}
}

// Fill sets the draft's absent fields from message. Name, date and time
// fall back to lookback, the session's earlier user messages newest first.
// Present fields are never overwritten.
func (f *SlotFiller) Fill(draft *AppointmentDraft, message string, lookback []string) {
	sources := append([]string{message}, lookback...)

	if draft.Name == "" {
		draft.Name = firstMatch(sources, extractName)
	}
	if draft.Phone == "" {
		draft.Phone = phonePattern.FindString(message)
	}
	if draft.Date == "" {
		draft.Date = firstMatch(sources, f.extractDate)
	}
	if draft.Time == "" {
		draft.Time = firstMatch(sources, extractTime)
	}
	if draft.Reason == "" {
		draft.Reason = extractReason(message)
	}
}

func firstMatch(sources []string, extract func(string) string) string {
	for _, s := range sources {
		if v := extract(s); v != "" {
			return v
		}
	}
	return ""
}

func extractName(text string) string {
	if m := nameIsPattern.FindStringSubmatch(text); m != nil {
		if name := cleanName(m[1]); name != "" {
			return name
		}
	}
	if m := iAmPattern.FindStringSubmatch(text); m != nil {
		words := strings.Fields(m[1])
		if len(words) > 0 && !notNameWords[strings.ToLower(words[0])] {
			return cleanName(m[1])
		}
	}
	return ""
}

func cleanName(raw string) string {
	var kept []string
	for _, w := range strings.Fields(raw) {
		lw := strings.ToLower(w)
		if nameStopWords[lw] || len(kept) == maxNameWords {
			break
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}

func extractTime(text string) string {
	if m := slotTimePattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

func extractReason(text string) string {
	for _, r := range reasonRules {
		if r.pattern.MatchString(text) {
			return r.reason
		}
	}
	return ""
}

// extractDate returns the first resolvable date in text as YYYY-MM-DD.
// Weekday names are not resolved.
func (f *SlotFiller) extractDate(text string) string {
	today := f.today()

	if m := isoDatePattern.FindStringSubmatch(text); m != nil {
		if d, ok := buildDate(atoi(m[1]), atoi(m[2]), atoi(m[3])); ok {
			return d.Format(isoDate)
		}
	}
	for _, m := range dayFirstPattern.FindAllStringSubmatch(text, -1) {
		if d, ok := f.resolve(today, atoi(m[1]), atoi(m[2]), m[3]); ok {
			return d.Format(isoDate)
		}
	}
	if m := dayMonthNamePattern.FindStringSubmatch(text); m != nil {
		if d, ok := f.resolve(today, atoi(m[1]), monthNumber(m[2]), m[3]); ok {
			return d.Format(isoDate)
		}
	}
	if m := monthNameDayPattern.FindStringSubmatch(text); m != nil {
		if d, ok := f.resolve(today, atoi(m[2]), monthNumber(m[1]), m[3]); ok {
			return d.Format(isoDate)
		}
	}
	switch {
	case dayAfterPattern.MatchString(text):
		return today.AddDate(0, 0, 2).Format(isoDate)
	case tomorrowPattern.MatchString(text):
		return today.AddDate(0, 0, 1).Format(isoDate)
	case todayPattern.MatchString(text):
		return today.Format(isoDate)
	}
	return ""
}

// resolve builds a day/month date. Without a year the date is taken in the
// current year, or next year when it has already passed.
func (f *SlotFiller) resolve(today time.Time, day, month int, year string) (time.Time, bool) {
	if year != "" {
		y := atoi(year)
		if y < 100 {
			y += 2000
		}
		return buildDate(y, month, day)
	}
	d, ok := buildDate(today.Year(), month, day)
	if !ok {
		return d, false
	}
	if d.Before(today) {
		return buildDate(today.Year()+1, month, day)
	}
	return d, true
}

func (f *SlotFiller) today() time.Time {
	now := f.now().In(f.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func buildDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Month() != time.Month(month) || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

func monthNumber(name string) int {
	return int(months[strings.ToLower(name)[:3]])
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// MissingFieldsPrompt asks for the fields the draft still lacks.
func MissingFieldsPrompt(draft *AppointmentDraft) string {
	return fmt.Sprintf("I need a few more details to book your appointment: %s. Please provide these.",
		strings.Join(draft.Missing(), ", "))
}

// BookingConfirmation confirms a committed appointment.
func BookingConfirmation(draft *AppointmentDraft) string {
	return fmt.Sprintf("Appointment confirmed! Your appointment is scheduled for %s at %s. We look forward to seeing you, %s!",
		draft.Date, draft.Time, draft.Name)
}
