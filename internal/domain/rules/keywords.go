package rules

import "strings"

// CrisisKeywords trigger the crisis-resource response in mental-health chat.
var CrisisKeywords = []string{
	"suicide", "suicidal", "kill myself", "end my life", "want to die",
	"self-harm", "cutting myself", "no reason to live", "overdose",
	"hurt myself", "ending it all", "don't want to live",
}

// EmergencyKeywords trigger the emergency banner in health chat.
var EmergencyKeywords = []string{
	"chest pain", "heart attack", "can't breathe", "breathing difficulty",
	"unconscious", "severe bleeding", "stroke", "seizure", "anaphylaxis",
	"choking",
}

// HighRiskTriage are triage levels counted as high severity by the health
// summary.
var HighRiskTriage = map[string]struct{}{
	"emergency": {},
	"urgent":    {},
	"high":      {},
}

// AlertTriage are triage levels that push a real-time alert when a symptom
// entry is stored: HighRiskTriage plus the top level the severity engine
// assigns.
var AlertTriage = map[string]struct{}{
	"emergency":        {},
	"urgent":           {},
	"high":             {},
	"high / emergency": {},
}

// MatchKeywords returns, in list order, every keyword that occurs in text as
// a case-insensitive substring.
func MatchKeywords(text string, keywords []string) []string {
	lower := strings.ToLower(text)
	matched := []string{}
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			matched = append(matched, kw)
		}
	}
	return matched
}

// ContainsAny reports whether text contains any of words, case-insensitively.
func ContainsAny(text string, words ...string) bool {
	lower := strings.ToLower(text)
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
