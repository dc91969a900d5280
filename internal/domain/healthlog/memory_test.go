package healthlog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestMemoryRepository_ListSince(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	uid := uuid.New()
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

	for _, age := range []int{10, 7, 3, 0} {
		e := &MedicationEntry{UserID: uid, MedicationName: " Ibuprofen", Timestamp: now.AddDate(0, 0, -age)}
		if err := repo.CreateMedication(ctx, e); err != nil {
			t.Fatal(err)
		}
	}
	_ = repo.CreateMedication(ctx, &MedicationEntry{UserID: uuid.New(), MedicationName: "ibuprofen", Timestamp: now})

	got, _ := repo.ListMedications(ctx, uid, Since(now, 7))
	if len(got) != 3 {
		t.Fatalf("expected 3 entries at or after the cutoff, got %d", len(got))
	}
	if !got[0].Timestamp.Before(got[2].Timestamp) {
		t.Error("expected oldest first")
	}

	counts, _ := repo.CountMedications(ctx, uid, *Since(now, 7))
	if counts["ibuprofen"] != 3 {
		t.Errorf("expected 3 normalized ibuprofen entries, got %v", counts)
	}

	all, _ := repo.ListMedications(ctx, uid, nil)
	if len(all) != 4 {
		t.Errorf("expected full history, got %d", len(all))
	}
}

func TestMemoryRepository_Page(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	uid := uuid.New()
	base := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_ = repo.CreateLab(ctx, &LabReportEntry{UserID: uid, ReportName: "r", Timestamp: base.Add(time.Duration(i) * time.Hour)})
	}

	items, total, _ := repo.PageLabs(ctx, uid, 2, 4)
	if total != 5 || len(items) != 1 {
		t.Fatalf("expected last item of 5, got %d of %d", len(items), total)
	}
	if !items[0].Timestamp.Equal(base) {
		t.Errorf("expected the oldest entry on the last page")
	}

	items, _, _ = repo.PageLabs(ctx, uid, 10, 50)
	if len(items) != 0 {
		t.Errorf("expected empty page past the end")
	}
}

func TestMemoryRepository_EntriesAreCopied(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	uid := uuid.New()

	e := &SymptomEntry{UserID: uid, Symptoms: []string{"fever", "cough"}}
	if err := repo.CreateSymptom(ctx, e); err != nil {
		t.Fatal(err)
	}
	if e.ID == uuid.Nil || e.Timestamp.IsZero() {
		t.Fatal("expected the caller's entry to be stamped")
	}
	e.Symptoms[0] = "changed"
	e.UserID = uuid.New()

	got, _ := repo.ListSymptoms(ctx, uid, nil)
	if len(got) != 1 || got[0].Symptoms[0] != "fever" {
		t.Fatalf("stored entry changed through the caller's pointer: %+v", got)
	}

	got[0].Symptoms[1] = "mutated"
	got[0].UserID = uuid.New()
	again, _ := repo.ListSymptoms(ctx, uid, nil)
	if len(again) != 1 || again[0].Symptoms[1] != "cough" {
		t.Fatalf("stored entry changed through a listed entry: %+v", again)
	}

	med := &MedicationEntry{UserID: uid, MedicationName: "aspirin"}
	_ = repo.CreateMedication(ctx, med)
	med.MedicationName = "changed"
	meds, _ := repo.ListMedications(ctx, uid, nil)
	if meds[0].MedicationName != "aspirin" {
		t.Errorf("expected stored medication name aspirin, got %q", meds[0].MedicationName)
	}
}
