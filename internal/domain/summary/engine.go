// Package summary builds the weekly health snapshot: profile, symptom
// trends, nutrition, active medications, lab abnormalities and risk flags.
package summary

import (
	"fmt"
	"strings"

	"github.com/healthintel/healthintel/internal/domain/healthlog"
	"github.com/healthintel/healthintel/internal/domain/rules"
	"github.com/healthintel/healthintel/pkg/mathutil"
	"github.com/healthintel/healthintel/pkg/normalize"
)

const (
	SymptomWindowDays    = 30
	NutritionWindowDays  = 7
	MedicationWindowDays = 7
	LatestLabs           = 5
	TopSymptoms          = 5

	highTriageThreshold   = 3
	lowCalorieLimit       = 1200
	polypharmacyThreshold = 5
	maxListedSymptoms     = 5
)

type LabAbnormal struct {
	Report         string `json:"report"`
	AbnormalValues string `json:"abnormal_values"`
}

// RecurringConditions lists predicted diseases seen more than twice, in
// first-seen order.
func RecurringConditions(entries []*healthlog.SymptomEntry) []string {
	var order []string
	counts := map[string]int{}
	for _, e := range entries {
		if e.PredictedDisease == nil || strings.TrimSpace(*e.PredictedDisease) == "" {
			continue
		}
		d := *e.PredictedDisease
		if counts[d] == 0 {
			order = append(order, d)
		}
		counts[d]++
	}
	out := []string{}
	for _, d := range order {
		if counts[d] > 2 {
			out = append(out, d)
		}
	}
	return out
}

// RecentDiseases returns the distinct non-empty predicted diseases.
func RecentDiseases(entries []*healthlog.SymptomEntry) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, e := range entries {
		if e.PredictedDisease == nil || *e.PredictedDisease == "" {
			continue
		}
		if _, ok := seen[*e.PredictedDisease]; ok {
			continue
		}
		seen[*e.PredictedDisease] = struct{}{}
		out = append(out, *e.PredictedDisease)
	}
	return out
}

// ActiveMedications returns the distinct normalized medication names.
func ActiveMedications(entries []*healthlog.MedicationEntry) []string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.MedicationName)
	}
	return normalize.FromList(names).Strings()
}

// LabAbnormals keeps the reports that carry abnormal values.
func LabAbnormals(labs []*healthlog.LabReportEntry) []LabAbnormal {
	out := []LabAbnormal{}
	for _, l := range labs {
		if l.AbnormalValues == nil || *l.AbnormalValues == "" {
			continue
		}
		out = append(out, LabAbnormal{Report: l.ReportName, AbnormalValues: *l.AbnormalValues})
	}
	return out
}

func countHighTriage(entries []*healthlog.SymptomEntry) int {
	n := 0
	for _, e := range entries {
		if e.TriageLevel == nil {
			continue
		}
		if _, ok := rules.HighRiskTriage[strings.ToLower(*e.TriageLevel)]; ok {
			n++
		}
	}
	return n
}

// RiskFlags evaluates every rule independently, in a fixed order.
func RiskFlags(symptoms []*healthlog.SymptomEntry, nutrition healthlog.NutritionSummary, activeMeds []string, labs []LabAbnormal, recurring []string) []string {
	flags := []string{}
	if n := countHighTriage(symptoms); n >= highTriageThreshold {
		flags = append(flags, fmt.Sprintf("Frequent high-severity symptoms (%d in last 30 days)", n))
	}
	if nutrition.TotalEntries > 0 && nutrition.AvgDailyCalories < lowCalorieLimit {
		flags = append(flags, fmt.Sprintf("Low calorie intake (%s kcal/day avg)", mathutil.Decimal(nutrition.AvgDailyCalories)))
	}
	if len(activeMeds) >= polypharmacyThreshold {
		flags = append(flags, fmt.Sprintf("Polypharmacy risk (%d active medications)", len(activeMeds)))
	}
	if len(labs) > 0 {
		flags = append(flags, fmt.Sprintf("%d lab report(s) with abnormal values", len(labs)))
	}
	if len(recurring) > 0 {
		flags = append(flags, "Recurring conditions: "+strings.Join(recurring, ", "))
	}
	return flags
}

// WeeklyText renders the summary sentences.
func WeeklyText(name string, symptoms []*healthlog.SymptomEntry, nutrition healthlog.NutritionSummary, flags []string) string {
	lines := []string{fmt.Sprintf("Health Summary for %s:", name)}

	if len(symptoms) == 0 {
		lines = append(lines, "No symptoms reported this week.")
	} else {
		var tokens []string
		for _, e := range symptoms {
			tokens = append(tokens, e.Symptoms...)
		}
		unique := normalize.FromList(tokens).Strings()
		if len(unique) > maxListedSymptoms {
			unique = unique[:maxListedSymptoms]
		}
		lines = append(lines, fmt.Sprintf("Reported %d symptom entries involving: %s.", len(symptoms), strings.Join(unique, ", ")))
	}

	if nutrition.AvgDailyCalories > 0 {
		lines = append(lines, fmt.Sprintf("Average daily intake: %s kcal.", mathutil.Decimal(nutrition.AvgDailyCalories)))
	} else {
		lines = append(lines, "No nutrition data logged.")
	}

	if len(flags) > 0 {
		lines = append(lines, fmt.Sprintf("Attention needed: %s.", strings.Join(flags, "; ")))
	} else {
		lines = append(lines, "No significant risk factors detected.")
	}
	return strings.Join(lines, " ")
}
