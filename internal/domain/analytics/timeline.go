package analytics

import (
	"slices"
	"strings"
	"time"

	"github.com/healthintel/healthintel/internal/domain/healthlog"
	"github.com/healthintel/healthintel/pkg/mathutil"
)

const (
	EventSymptom    = "symptom"
	EventNutrition  = "nutrition"
	EventMedication = "medication"
	EventLabReport  = "lab_report"
)

type Event struct {
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Detail      *string   `json:"detail"`
	Timestamp   time.Time `json:"timestamp"`
}

func calorieDetail(cal *float64) *string {
	s := "0 kcal"
	if cal != nil {
		s = mathutil.Decimal(*cal) + " kcal"
	}
	return &s
}

// Timeline merges the four logs newest first and keeps at most limit
// events. Events at the same instant keep the symptom, nutrition,
// medication, lab order.
func Timeline(symptoms []*healthlog.SymptomEntry, nutrition []*healthlog.NutritionEntry, meds []*healthlog.MedicationEntry, labs []*healthlog.LabReportEntry, limit int) []Event {
	events := make([]Event, 0, len(symptoms)+len(nutrition)+len(meds)+len(labs))
	for _, e := range symptoms {
		events = append(events, Event{Type: EventSymptom, Description: strings.Join(e.Symptoms, ", "), Detail: e.PredictedDisease, Timestamp: e.Timestamp})
	}
	for _, e := range nutrition {
		events = append(events, Event{Type: EventNutrition, Description: e.FoodName, Detail: calorieDetail(e.Calories), Timestamp: e.Timestamp})
	}
	for _, e := range meds {
		events = append(events, Event{Type: EventMedication, Description: e.MedicationName, Timestamp: e.Timestamp})
	}
	for _, e := range labs {
		events = append(events, Event{Type: EventLabReport, Description: e.ReportName, Detail: e.AbnormalValues, Timestamp: e.Timestamp})
	}
	slices.SortStableFunc(events, func(a, b Event) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	if len(events) > limit {
		events = events[:limit]
	}
	return events
}
