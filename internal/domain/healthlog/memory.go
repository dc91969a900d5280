package healthlog

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/healthintel/healthintel/pkg/normalize"
)

// MemoryRepository is an in-process Repository. Entries keep insertion
// order, which must be chronological for List results to be oldest first.
// Entries are copied on the way in and out.
type MemoryRepository struct {
	mu          sync.RWMutex
	symptoms    []*SymptomEntry
	nutrition   []*NutritionEntry
	medications []*MedicationEntry
	labs        []*LabReportEntry
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (m *MemoryRepository) CreateSymptom(_ context.Context, e *SymptomEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stamp(&e.ID, &e.Timestamp)
	m.symptoms = append(m.symptoms, cloneSymptom(e))
	return nil
}

func (m *MemoryRepository) CreateNutrition(_ context.Context, e *NutritionEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stamp(&e.ID, &e.Timestamp)
	m.nutrition = append(m.nutrition, clone(e))
	return nil
}

func (m *MemoryRepository) CreateMedication(_ context.Context, e *MedicationEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stamp(&e.ID, &e.Timestamp)
	m.medications = append(m.medications, clone(e))
	return nil
}

func (m *MemoryRepository) CreateLab(_ context.Context, e *LabReportEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stamp(&e.ID, &e.Timestamp)
	m.labs = append(m.labs, clone(e))
	return nil
}

func clone[T any](e *T) *T {
	cp := *e
	return &cp
}

func cloneSymptom(e *SymptomEntry) *SymptomEntry {
	cp := clone(e)
	cp.Symptoms = slices.Clone(e.Symptoms)
	return cp
}

func selectFor[T any](items []*T, userID uuid.UUID, since *time.Time, key func(*T) (uuid.UUID, time.Time), copyOf func(*T) *T) []*T {
	out := []*T{}
	for _, it := range items {
		uid, ts := key(it)
		if uid == userID && (since == nil || !ts.Before(*since)) {
			out = append(out, copyOf(it))
		}
	}
	return out
}

func symptomKey(e *SymptomEntry) (uuid.UUID, time.Time)       { return e.UserID, e.Timestamp }
func nutritionKey(e *NutritionEntry) (uuid.UUID, time.Time)   { return e.UserID, e.Timestamp }
func medicationKey(e *MedicationEntry) (uuid.UUID, time.Time) { return e.UserID, e.Timestamp }
func labKey(e *LabReportEntry) (uuid.UUID, time.Time)         { return e.UserID, e.Timestamp }

func (m *MemoryRepository) ListSymptoms(_ context.Context, userID uuid.UUID, since *time.Time) ([]*SymptomEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return selectFor(m.symptoms, userID, since, symptomKey, cloneSymptom), nil
}

func (m *MemoryRepository) ListNutrition(_ context.Context, userID uuid.UUID, since *time.Time) ([]*NutritionEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return selectFor(m.nutrition, userID, since, nutritionKey, clone[NutritionEntry]), nil
}

func (m *MemoryRepository) ListMedications(_ context.Context, userID uuid.UUID, since *time.Time) ([]*MedicationEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return selectFor(m.medications, userID, since, medicationKey, clone[MedicationEntry]), nil
}

func (m *MemoryRepository) ListLabs(_ context.Context, userID uuid.UUID, since *time.Time) ([]*LabReportEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return selectFor(m.labs, userID, since, labKey, clone[LabReportEntry]), nil
}

func (m *MemoryRepository) CountMedications(ctx context.Context, userID uuid.UUID, since time.Time) (map[string]int, error) {
	meds, _ := m.ListMedications(ctx, userID, &since)
	out := map[string]int{}
	for _, e := range meds {
		out[normalize.Name(e.MedicationName)]++
	}
	return out, nil
}

func pageNewest[T any](items []*T, key func(*T) (uuid.UUID, time.Time), limit, offset int) ([]*T, int) {
	sorted := append([]*T(nil), items...)
	sort.SliceStable(sorted, func(i, j int) bool {
		_, a := key(sorted[i])
		_, b := key(sorted[j])
		return a.After(b)
	})
	total := len(sorted)
	start := min(max(offset, 0), total)
	end := min(start+max(limit, 0), total)
	return sorted[start:end], total
}

func (m *MemoryRepository) PageSymptoms(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*SymptomEntry, int, error) {
	all, _ := m.ListSymptoms(ctx, userID, nil)
	items, total := pageNewest(all, symptomKey, limit, offset)
	return items, total, nil
}

func (m *MemoryRepository) PageNutrition(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*NutritionEntry, int, error) {
	all, _ := m.ListNutrition(ctx, userID, nil)
	items, total := pageNewest(all, nutritionKey, limit, offset)
	return items, total, nil
}

func (m *MemoryRepository) PageMedications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*MedicationEntry, int, error) {
	all, _ := m.ListMedications(ctx, userID, nil)
	items, total := pageNewest(all, medicationKey, limit, offset)
	return items, total, nil
}

func (m *MemoryRepository) PageLabs(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*LabReportEntry, int, error) {
	all, _ := m.ListLabs(ctx, userID, nil)
	items, total := pageNewest(all, labKey, limit, offset)
	return items, total, nil
}
