// Package healthlog stores the append-only symptom, nutrition, medication
// and lab report logs every analysis engine reads from.
package healthlog

import (
	"time"

	"github.com/google/uuid"
)

// SymptomEntry maps to the symptom_logs table.
type SymptomEntry struct {
	ID               uuid.UUID `db:"id" json:"id"`
	UserID           uuid.UUID `db:"user_id" json:"user_id"`
	Symptoms         []string  `db:"symptoms" json:"symptoms"`
	PredictedDisease *string   `db:"predicted_disease" json:"predicted_disease"`
	TriageLevel      *string   `db:"triage_level" json:"triage_level"`
	Timestamp        time.Time `db:"logged_at" json:"timestamp"`
}

// NutritionEntry maps to the nutrition_logs table. Missing macros count as
// zero in every aggregate.
type NutritionEntry struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	FoodName  string    `db:"food_name" json:"food_name"`
	Calories  *float64  `db:"calories" json:"calories"`
	Protein   *float64  `db:"protein" json:"protein"`
	Carbs     *float64  `db:"carbs" json:"carbs"`
	Fats      *float64  `db:"fats" json:"fats"`
	Timestamp time.Time `db:"logged_at" json:"timestamp"`
}

// MedicationEntry maps to the medication_logs table.
type MedicationEntry struct {
	ID             uuid.UUID `db:"id" json:"id"`
	UserID         uuid.UUID `db:"user_id" json:"user_id"`
	MedicationName string    `db:"medication_name" json:"medication_name"`
	Timestamp      time.Time `db:"logged_at" json:"timestamp"`
}

// LabReportEntry maps to the lab_reports table.
type LabReportEntry struct {
	ID             uuid.UUID `db:"id" json:"id"`
	UserID         uuid.UUID `db:"user_id" json:"user_id"`
	ReportName     string    `db:"report_name" json:"report_name"`
	AbnormalValues *string   `db:"abnormal_values" json:"abnormal_values"`
	Timestamp      time.Time `db:"logged_at" json:"timestamp"`
}

// Value returns *p, or 0 when p is nil.
func Value(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
