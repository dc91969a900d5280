// Package nutrition computes personalized daily macro targets and compares
// them with the user's recent intake.
package nutrition

import (
	"fmt"

	"github.com/healthintel/healthintel/internal/domain/healthlog"
	"github.com/healthintel/healthintel/internal/domain/rules"
	"github.com/healthintel/healthintel/pkg/mathutil"
	"github.com/healthintel/healthintel/pkg/normalize"
)

// CurrentWindowDays is the intake period compared against the targets.
const CurrentWindowDays = 7

const suggestionsPerNutrient = 2

// DailyTargets scales the gender baseline by the age multiplier and then
// applies each condition's adjustments, rounding to one decimal after every
// step.
func DailyTargets(age *int, gender string, conditions normalize.TermSet) rules.Macros {
	mult := rules.AgeMultiplier(age)
	t := rules.Baseline(gender).Map(func(v float64) float64 {
		return mathutil.Round(v*mult, 1)
	})
	for _, cond := range conditions {
		for _, d := range rules.ConditionAdjustments[normalize.Name(cond)] {
			p := field(&t, d.Nutrient)
			if p == nil {
				continue
			}
			*p = mathutil.Round(*p+d.Delta, 1)
		}
	}
	return t
}

func field(m *rules.Macros, nutrient string) *float64 {
	switch nutrient {
	case "calories":
		return &m.Calories
	case "protein":
		return &m.Protein
	case "carbs":
		return &m.Carbs
	case "fats":
		return &m.Fats
	}
	return nil
}

type Status string

const (
	StatusSurplus  Status = "surplus"
	StatusDeficit  Status = "deficit"
	StatusOnTarget Status = "on_target"
)

type NutrientAnalysis struct {
	Nutrient   string  `json:"nutrient"`
	Target     float64 `json:"target"`
	Current    float64 `json:"current"`
	Difference float64 `json:"difference"`
	Status     Status  `json:"status"`
}

func current(s healthlog.NutritionSummary) rules.Macros {
	return rules.Macros{
		Calories: s.AvgDailyCalories,
		Protein:  s.AvgDailyProtein,
		Carbs:    s.AvgDailyCarbs,
		Fats:     s.AvgDailyFats,
	}
}

// Analyze compares the current averages with each target.
func Analyze(targets rules.Macros, avg healthlog.NutritionSummary) []NutrientAnalysis {
	cur := current(avg)
	out := make([]NutrientAnalysis, 0, len(rules.Nutrients))
	for _, n := range rules.Nutrients {
		diff := mathutil.Round(cur.Get(n)-targets.Get(n), 1)
		status := StatusOnTarget
		if diff > 0 {
			status = StatusSurplus
		} else if diff < 0 {
			status = StatusDeficit
		}
		out = append(out, NutrientAnalysis{
			Nutrient:   n,
			Target:     targets.Get(n),
			Current:    cur.Get(n),
			Difference: diff,
			Status:     status,
		})
	}
	return out
}

// Suggestions returns up to two foods per nutrient in deficit.
func Suggestions(analysis []NutrientAnalysis) []string {
	var raw []string
	for _, a := range analysis {
		if a.Status != StatusDeficit {
			continue
		}
		foods := rules.FoodSuggestions[a.Nutrient]
		for _, f := range foods[:min(suggestionsPerNutrient, len(foods))] {
			raw = append(raw, fmt.Sprintf("Increase %s: try %s", a.Nutrient, f))
		}
	}
	return dedupe(raw)
}

// FoodsToAvoid is the union of the avoid lists of the user's conditions.
func FoodsToAvoid(conditions normalize.TermSet) []string {
	var raw []string
	for _, c := range conditions {
		raw = append(raw, rules.FoodsToAvoid[normalize.Name(c)]...)
	}
	return dedupe(raw)
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := []string{}
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
