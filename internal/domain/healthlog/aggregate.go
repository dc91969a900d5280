package healthlog

import (
	"cmp"
	"slices"

	"github.com/healthintel/healthintel/pkg/mathutil"
	"github.com/healthintel/healthintel/pkg/normalize"
)

type SymptomCount struct {
	Symptom string `json:"symptom"`
	Count   int    `json:"count"`
}

// SymptomFrequency counts normalized symptom tokens across entries, most
// frequent first with ties in first-seen order.
func SymptomFrequency(entries []*SymptomEntry) []SymptomCount {
	var order []string
	counts := map[string]int{}
	for _, e := range entries {
		for _, s := range e.Symptoms {
			s = normalize.Name(s)
			if s == "" {
				continue
			}
			if counts[s] == 0 {
				order = append(order, s)
			}
			counts[s]++
		}
	}
	out := make([]SymptomCount, 0, len(order))
	for _, s := range order {
		out = append(out, SymptomCount{Symptom: s, Count: counts[s]})
	}
	slices.SortStableFunc(out, func(a, b SymptomCount) int {
		return cmp.Compare(b.Count, a.Count)
	})
	return out
}

// NutritionSummary is the average daily intake over a period.
type NutritionSummary struct {
	PeriodDays       int     `json:"period_days"`
	TotalEntries     int     `json:"total_entries"`
	AvgDailyCalories float64 `json:"avg_daily_calories"`
	AvgDailyProtein  float64 `json:"avg_daily_protein"`
	AvgDailyCarbs    float64 `json:"avg_daily_carbs"`
	AvgDailyFats     float64 `json:"avg_daily_fats"`
}

// SummarizeNutrition divides each macro total by days, rounded to one
// decimal. Missing macros count as zero.
func SummarizeNutrition(entries []*NutritionEntry, days int) NutritionSummary {
	s := NutritionSummary{PeriodDays: days, TotalEntries: len(entries)}
	if len(entries) == 0 || days <= 0 {
		return s
	}
	var cal, pro, carb, fat float64
	for _, e := range entries {
		cal += Value(e.Calories)
		pro += Value(e.Protein)
		carb += Value(e.Carbs)
		fat += Value(e.Fats)
	}
	d := float64(days)
	s.AvgDailyCalories = mathutil.Round(cal/d, 1)
	s.AvgDailyProtein = mathutil.Round(pro/d, 1)
	s.AvgDailyCarbs = mathutil.Round(carb/d, 1)
	s.AvgDailyFats = mathutil.Round(fat/d, 1)
	return s
}
