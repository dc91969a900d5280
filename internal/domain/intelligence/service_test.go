package intelligence

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/healthintel/healthintel/internal/domain/healthlog"
	"github.com/healthintel/healthintel/internal/domain/profile"
	"github.com/healthintel/healthintel/pkg/apperrors"
)

var fixedNow = time.Date(2026, 6, 30, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *healthlog.MemoryRepository, uuid.UUID) {
	t.Helper()
	uid := uuid.New()
	profiles := profile.NewMemoryRepository(&profile.Profile{UserID: uid, Name: "Dev"})
	logs := healthlog.NewMemoryRepository()
	svc := NewService(profiles, logs, zerolog.Nop())
	svc.now = func() time.Time { return fixedNow }
	return svc, logs, uid
}

func TestService_Generate_Windows(t *testing.T) {
	svc, logs, uid := newTestService(t)
	ctx := context.Background()

	// 100 days ago falls outside the 90 day window
	for _, age := range []int{100, 80, 40, 5} {
		_ = logs.CreateSymptom(ctx, &healthlog.SymptomEntry{
			UserID: uid, Symptoms: []string{"cough"}, PredictedDisease: strPtr("Bronchitis"),
			Timestamp: fixedNow.AddDate(0, 0, -age),
		})
	}
	for i := 0; i < 12; i++ {
		_ = logs.CreateMedication(ctx, &healthlog.MedicationEntry{UserID: uid, MedicationName: "salbutamol", Timestamp: fixedNow.AddDate(0, 0, -i)})
	}
	_ = logs.CreateMedication(ctx, &healthlog.MedicationEntry{UserID: uid, MedicationName: "old", Timestamp: fixedNow.AddDate(0, 0, -45)})

	r, err := svc.Generate(ctx, uid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.RecurringConditions) != 1 || r.RecurringConditions[0].Occurrences != 3 {
		t.Errorf("unexpected recurring %v", r.RecurringConditions)
	}
	if r.MedicationPattern.TotalEntries != 12 {
		t.Errorf("expected 12 medication entries in 30 days, got %d", r.MedicationPattern.TotalEntries)
	}
	// 12 recurring + 8 medication volume; no nutrition logs means no flags
	if r.RiskScore != 20 {
		t.Errorf("expected score 20, got %d", r.RiskScore)
	}
}

func TestService_Generate_UnknownUser(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Generate(context.Background(), uuid.New())
	if !apperrors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestHandler_Get(t *testing.T) {
	svc, _, uid := newTestService(t)
	h := NewHandler(svc)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues(uid.String())

	if err := h.Get(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got Report
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.SummaryText == "" || got.NutritionPattern.Flags == nil {
		t.Errorf("unexpected report %+v", got)
	}
}

func TestHandler_Get_InvalidID(t *testing.T) {
	svc, _, _ := newTestService(t)
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("abc")
	err := NewHandler(svc).Get(c)
	if he, ok := err.(*echo.HTTPError); !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}
