package conversation

import (
	"regexp"
	"strings"
)

type guardPattern struct {
	re     *regexp.Regexp
	reason string
}

// Inbound messages matching any of these never reach the generator.
var injectionPatterns = []guardPattern{
	{regexp.MustCompile(`(?i)(ignore|disregard|forget)\s+(all\s+)?(previous|prior|above|earlier|your)\s+(instructions?|rules?|prompts?|guidelines?)`), "override_instructions"},
	{regexp.MustCompile(`(?i)new\s+instructions?\s*:|system\s*prompt\s*:|<<\s*sys(tem)?\s*>>`), "new_instructions"},
	{regexp.MustCompile(`(?i)(pretend|imagine|assume)\s+(that\s+)?you\s+(have|are)\s+(no|without)\s+(rules?|restrictions?|limits?|guidelines?)`), "pretend_no_rules"},
	{regexp.MustCompile(`(?i)jailbreak|DAN\s*mode|developer\s*mode|unrestricted\s*mode`), "jailbreak"},
	{regexp.MustCompile(`(?i)(reveal|show|print|repeat|tell\s+me)\s+(your\s+)?(system\s+prompt|instructions|hidden\s+prompt|initial\s+prompt)`), "prompt_exfiltration"},
	{regexp.MustCompile(`(?i)(list|show|give|tell)\s+(me\s+)?(all\s+)?(the\s+)?other\s+patients?'?\s*(data|names?|numbers?|records?|details?|appointments?)`), "patient_exfiltration"},
	{regexp.MustCompile(`(?i)\[/?INST\]|<\|im_start\|>|<\|im_end\|>|<\|system\|>|###\s*(system|assistant)\s*:`), "special_tokens"},
}

// Markup stripped from messages that pass screening.
var markupPattern = regexp.MustCompile(`(?i)<\s*(script|img|iframe|object|embed|style|svg|form)\b[^>]*>|!\[[^\]]*\]\(https?://[^)]+\)`)

// Generated replies matching any of these are discarded.
var leakPatterns = []guardPattern{
	{regexp.MustCompile(`(?i)my (system\s+)?(prompt|instructions?)\s+(is|are|says|say|tells?)`), "prompt_disclosure"},
	{regexp.MustCompile(`(?i)(api[_\s]?key|secret|access[_\s]?token|password)\s*[:=]\s*\S+`), "credential"},
	{regexp.MustCompile(`AKIA[A-Z0-9]{16}|gsk_[A-Za-z0-9]{20,}`), "provider_key"},
	{regexp.MustCompile(`(?i)(postgres|postgresql|redis)://\S+`), "connection_string"},
	{regexp.MustCompile(`(?i)other patient'?s?\s+(name|phone|appointment|record)`), "other_patient"},
}

// screenMessage returns the message to send to the generator, or the
// reasons it must not be sent.
func screenMessage(message string) (string, []string) {
	if reasons := matchGuard(injectionPatterns, message); len(reasons) > 0 {
		return "", reasons
	}
	return strings.TrimSpace(markupPattern.ReplaceAllString(message, "")), nil
}

// screenReply reports why a generated reply must be dropped, if at all.
func screenReply(reply string) []string {
	return matchGuard(leakPatterns, reply)
}

func matchGuard(patterns []guardPattern, text string) []string {
	var reasons []string
	for _, p := range patterns {
		if p.re.MatchString(text) {
			reasons = append(reasons, p.reason)
		}
	}
	return reasons
}
