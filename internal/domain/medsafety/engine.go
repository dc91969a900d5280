// Package medsafety checks a list of medications against a user's allergies,
// existing conditions and recent medication log.
package medsafety

import (
	"fmt"
	"strings"

	"github.com/healthintel/healthintel/internal/domain/rules"
	"github.com/healthintel/healthintel/pkg/normalize"
)

// HighFrequencyThreshold is the number of logged doses in the trailing week
// at or above which a medication is flagged.
const HighFrequencyThreshold = 5

// FrequencyWindowDays is the trailing window counted for HighFrequency.
const FrequencyWindowDays = 7

// RiskLevel is the overall verdict of a safety check.
type RiskLevel string

const (
	RiskSafe     RiskLevel = "safe"
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

var riskRank = map[RiskLevel]int{
	RiskSafe: 0, RiskLow: 1, RiskModerate: 2, RiskHigh: 3, RiskCritical: 4,
}

// Rank orders levels from safe (0) to critical (4).
func (r RiskLevel) Rank() int { return riskRank[r] }

type AllergyWarning struct {
	Medication     string `json:"medication"`
	MatchedAllergy string `json:"matched_allergy"`
	Severity       string `json:"severity"`
	Message        string `json:"message"`
}

type ConditionConflict struct {
	Medication string `json:"medication"`
	Condition  string `json:"condition"`
	Reason     string `json:"reason"`
}

type HighFrequency struct {
	Medication    string `json:"medication"`
	TimesThisWeek int    `json:"times_this_week"`
}

type InteractionWarning struct {
	Type   string `json:"type"`
	Detail string `json:"detail"`
}

// Report is the result of a safety check.
type Report struct {
	RiskLevel           RiskLevel            `json:"risk_level"`
	InteractionWarnings []InteractionWarning `json:"interaction_warnings"`
	AllergyWarnings     []AllergyWarning     `json:"allergy_warnings"`
	ConditionConflicts  []ConditionConflict  `json:"condition_conflicts"`
	Recommendation      string               `json:"recommendation"`
}

// distinct returns the normalized medication names in input order without
// repeats or blanks.
func distinct(meds []string) []string {
	return normalize.FromList(meds).Strings()
}

// Duplicates returns every normalized name that occurs more than once, in the
// order its second occurrence appears.
func Duplicates(meds []string) []string {
	seen := map[string]int{}
	out := []string{}
	for _, m := range normalize.Names(meds) {
		if m == "" {
			continue
		}
		seen[m]++
		if seen[m] == 2 {
			out = append(out, m)
		}
	}
	return out
}

// HighFrequencyMeds flags every medication in the current list whose count in
// counts, keyed by normalized name, reaches the threshold.
func HighFrequencyMeds(counts map[string]int, meds []string, threshold int) []HighFrequency {
	out := []HighFrequency{}
	for _, m := range distinct(meds) {
		if n := counts[m]; n >= threshold {
			out = append(out, HighFrequency{Medication: m, TimesThisWeek: n})
		}
	}
	return out
}

// AllergyCheck emits one warning per medication and declared allergy term
// that covers it, either directly or through an allergy class.
func AllergyCheck(meds []string, allergies normalize.TermSet) []AllergyWarning {
	out := []AllergyWarning{}
	if len(allergies) == 0 {
		return out
	}
	covers := make([]map[string]struct{}, len(allergies))
	for i, a := range allergies {
		covers[i] = map[string]struct{}{}
		for _, d := range rules.AllergyCovers(a) {
			covers[i][d] = struct{}{}
		}
	}
	for _, m := range distinct(meds) {
		for i, a := range allergies {
			if _, ok := covers[i][m]; !ok {
				continue
			}
			out = append(out, AllergyWarning{
				Medication:     m,
				MatchedAllergy: a,
				Severity:       "high",
				Message:        fmt.Sprintf("Patient has a known allergy to %s.", m),
			})
		}
	}
	return out
}

// ConditionConflicts lists medications that may worsen one of the user's
// conditions, in condition order then medication order.
func ConditionConflicts(meds []string, conditions normalize.TermSet) []ConditionConflict {
	out := []ConditionConflict{}
	names := distinct(meds)
	for _, cond := range conditions {
		bad, ok := rules.ConditionConflicts[cond]
		if !ok {
			continue
		}
		for _, m := range names {
			if reason, ok := bad[m]; ok {
				out = append(out, ConditionConflict{Medication: m, Condition: cond, Reason: reason})
			}
		}
	}
	return out
}

// Assess turns the individual findings into a risk level and recommendation.
// Any allergy warning is critical regardless of the rest.
func Assess(allergy []AllergyWarning, conflicts []ConditionConflict, highFreq []HighFrequency, duplicates []string) (RiskLevel, string) {
	if len(allergy) > 0 {
		return RiskCritical, "STOP — allergy match detected. Do not administer without physician review."
	}
	danger := len(conflicts)*3 + len(highFreq)*2 + len(duplicates)
	switch {
	case danger >= 6:
		return RiskHigh, "Multiple safety concerns found. Consult a healthcare provider before proceeding."
	case danger >= 3:
		return RiskModerate, "Some concerns detected. Review medication list with a pharmacist."
	case danger >= 1:
		return RiskLow, "Minor flags noted. Continue with caution."
	}
	return RiskSafe, "No safety concerns detected."
}

// InteractionWarnings renders duplicate and high-frequency findings as
// user-facing messages.
func InteractionWarnings(duplicates []string, highFreq []HighFrequency) []InteractionWarning {
	out := []InteractionWarning{}
	if len(duplicates) > 0 {
		out = append(out, InteractionWarning{
			Type:   "duplicate",
			Detail: "Duplicate medications in list: " + strings.Join(duplicates, ", "),
		})
	}
	for _, hf := range highFreq {
		out = append(out, InteractionWarning{
			Type:   "high_frequency",
			Detail: fmt.Sprintf("%s taken %d times this week.", hf.Medication, hf.TimesThisWeek),
		})
	}
	return out
}

// Evaluate runs every rule over the inputs.
func Evaluate(meds []string, allergies, conditions normalize.TermSet, counts map[string]int) *Report {
	dups := Duplicates(meds)
	freq := HighFrequencyMeds(counts, meds, HighFrequencyThreshold)
	allergy := AllergyCheck(meds, allergies)
	conflicts := ConditionConflicts(meds, conditions)
	level, rec := Assess(allergy, conflicts, freq, dups)
	return &Report{
		RiskLevel:           level,
		InteractionWarnings: InteractionWarnings(dups, freq),
		AllergyWarnings:     allergy,
		ConditionConflicts:  conflicts,
		Recommendation:      rec,
	}
}
