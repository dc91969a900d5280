package healthlog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository is the log store. List methods return entries oldest first;
// a nil since returns the whole history. Page methods return newest first.
type Repository interface {
	CreateSymptom(ctx context.Context, e *SymptomEntry) error
	CreateNutrition(ctx context.Context, e *NutritionEntry) error
	CreateMedication(ctx context.Context, e *MedicationEntry) error
	CreateLab(ctx context.Context, e *LabReportEntry) error

	ListSymptoms(ctx context.Context, userID uuid.UUID, since *time.Time) ([]*SymptomEntry, error)
	ListNutrition(ctx context.Context, userID uuid.UUID, since *time.Time) ([]*NutritionEntry, error)
	ListMedications(ctx context.Context, userID uuid.UUID, since *time.Time) ([]*MedicationEntry, error)
	ListLabs(ctx context.Context, userID uuid.UUID, since *time.Time) ([]*LabReportEntry, error)

	// CountMedications returns, per lowercased medication name, how many
	// entries were logged at or after since.
	CountMedications(ctx context.Context, userID uuid.UUID, since time.Time) (map[string]int, error)

	PageSymptoms(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*SymptomEntry, int, error)
	PageNutrition(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*NutritionEntry, int, error)
	PageMedications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*MedicationEntry, int, error)
	PageLabs(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*LabReportEntry, int, error)
}

// Since returns a pointer to now minus days, for List filters.
func Since(now time.Time, days int) *time.Time {
	t := now.Add(-time.Duration(days) * 24 * time.Hour)
	return &t
}
