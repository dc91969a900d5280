// Package intelligence derives recurring conditions, nutrition and
// medication patterns and a composite risk score from a user's logs.
package intelligence

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/healthintel/healthintel/internal/domain/healthlog"
	"github.com/healthintel/healthintel/pkg/mathutil"
	"github.com/healthintel/healthintel/pkg/normalize"
)

const (
	RecurringWindowDays  = 90
	NutritionWindowDays  = 30
	MedicationWindowDays = 30
	MinOccurrences       = 3
	TopMedicationCount   = 5
)

type RecurringCondition struct {
	Condition   string `json:"condition"`
	Occurrences int    `json:"occurrences"`
}

// RecurringConditions counts non-blank predicted diseases and returns those
// seen at least min times, in first-seen order.
func RecurringConditions(entries []*healthlog.SymptomEntry, min int) []RecurringCondition {
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
	out := []RecurringCondition{}
	for _, d := range order {
		if counts[d] >= min {
			out = append(out, RecurringCondition{Condition: d, Occurrences: counts[d]})
		}
	}
	return out
}

type NutritionPattern struct {
	AvgCalories float64  `json:"avg_calories"`
	AvgProtein  float64  `json:"avg_protein"`
	AvgCarbs    float64  `json:"avg_carbs"`
	AvgFats     float64  `json:"avg_fats"`
	Flags       []string `json:"flags"`
}

type nutritionRule struct {
	flag  string
	value func(NutritionPattern) float64
	above bool
	limit float64
}

var nutritionRules = []nutritionRule{
	{"high_calories", func(p NutritionPattern) float64 { return p.AvgCalories }, true, 2500},
	{"low_protein", func(p NutritionPattern) float64 { return p.AvgProtein }, false, 30},
	{"high_fats", func(p NutritionPattern) float64 { return p.AvgFats }, true, 90},
	{"low_calories", func(p NutritionPattern) float64 { return p.AvgCalories }, false, 1200},
	{"high_carbs", func(p NutritionPattern) float64 { return p.AvgCarbs }, true, 350},
}

// NutritionPatternOf averages macros over windowDays, not over the number of
// entries, and applies each threshold rule independently. No entries means
// zero averages and no flags.
func NutritionPatternOf(entries []*healthlog.NutritionEntry, windowDays int) NutritionPattern {
	p := NutritionPattern{Flags: []string{}}
	if len(entries) == 0 || windowDays <= 0 {
		return p
	}
	var cal, pro, carb, fat float64
	for _, e := range entries {
		cal += healthlog.Value(e.Calories)
		pro += healthlog.Value(e.Protein)
		carb += healthlog.Value(e.Carbs)
		fat += healthlog.Value(e.Fats)
	}
	days := float64(windowDays)
	p.AvgCalories = mathutil.Round(cal/days, 1)
	p.AvgProtein = mathutil.Round(pro/days, 1)
	p.AvgCarbs = mathutil.Round(carb/days, 1)
	p.AvgFats = mathutil.Round(fat/days, 1)

	for _, r := range nutritionRules {
		v := r.value(p)
		if (r.above && v > r.limit) || (!r.above && v < r.limit) {
			p.Flags = append(p.Flags, r.flag)
		}
	}
	return p
}

type MedicationCount struct {
	Medication string `json:"medication"`
	Count      int    `json:"count"`
}

type MedicationPattern struct {
	TotalEntries   int               `json:"total_entries"`
	TopMedications []MedicationCount `json:"top_medications"`
}

// MostCommon counts normalized names and returns the n most frequent,
// breaking ties by first appearance.
func MostCommon(names []string, n int) []MedicationCount {
	var order []string
	counts := map[string]int{}
	for _, name := range names {
		if counts[name] == 0 {
			order = append(order, name)
		}
		counts[name]++
	}
	out := make([]MedicationCount, 0, len(order))
	for _, name := range order {
		out = append(out, MedicationCount{Medication: name, Count: counts[name]})
	}
	slices.SortStableFunc(out, func(a, b MedicationCount) int {
		return cmp.Compare(b.Count, a.Count)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func MedicationPatternOf(entries []*healthlog.MedicationEntry) MedicationPattern {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, normalize.Name(e.MedicationName))
	}
	return MedicationPattern{
		TotalEntries:   len(entries),
		TopMedications: MostCommon(names, TopMedicationCount),
	}
}

// RiskScore adds 12 per recurring condition, 8 per nutrition flag and a
// medication volume penalty, capped at 100.
func RiskScore(recurring []RecurringCondition, flags []string, medTotal int) int {
	score := 12*len(recurring) + 8*len(flags)
	switch {
	case medTotal > 20:
		score += 15
	case medTotal > 10:
		score += 8
	}
	return mathutil.Clamp(score, 0, 100)
}

func SummaryText(name string, recurring []RecurringCondition, nutrition NutritionPattern, meds MedicationPattern, score int) string {
	parts := []string{fmt.Sprintf("Health Intelligence Report for %s.", name)}

	switch {
	case score >= 60:
		parts = append(parts, fmt.Sprintf("Overall risk score is %d/100 — elevated risk detected.", score))
	case score >= 30:
		parts = append(parts, fmt.Sprintf("Overall risk score is %d/100 — moderate attention recommended.", score))
	default:
		parts = append(parts, fmt.Sprintf("Overall risk score is %d/100 — looking good.", score))
	}

	if len(recurring) > 0 {
		conds := make([]string, len(recurring))
		for i, r := range recurring {
			conds[i] = r.Condition
		}
		parts = append(parts, fmt.Sprintf("Recurring conditions detected: %s.", strings.Join(conds, ", ")))
	} else {
		parts = append(parts, "No recurring conditions detected.")
	}

	if len(nutrition.Flags) > 0 {
		flags := make([]string, len(nutrition.Flags))
		for i, f := range nutrition.Flags {
			flags[i] = strings.ReplaceAll(f, "_", " ")
		}
		parts = append(parts, fmt.Sprintf("Nutrition concerns: %s.", strings.Join(flags, ", ")))
	} else {
		parts = append(parts, "Nutrition intake appears balanced.")
	}

	if len(meds.TopMedications) > 0 {
		top := meds.TopMedications
		if len(top) > 3 {
			top = top[:3]
		}
		names := make([]string, len(top))
		for i, m := range top {
			names[i] = m.Medication
		}
		parts = append(parts, fmt.Sprintf("Most used medications: %s.", strings.Join(names, ", ")))
	} else {
		parts = append(parts, "No medication logs recorded recently.")
	}

	return strings.Join(parts, " ")
}
