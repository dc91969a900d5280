package healthlog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/healthintel/healthintel/internal/domain/profile"
	"github.com/healthintel/healthintel/internal/domain/rules"
	"github.com/healthintel/healthintel/pkg/apperrors"
)

// SymptomEnricher fills in the predicted disease and triage level of a
// symptom entry when the caller did not supply them. Either result may be
// nil when no engine can answer.
type SymptomEnricher interface {
	Enrich(ctx context.Context, symptoms []string) (predictedDisease, triageLevel *string)
}

// AlertHighRiskSymptoms is published when a stored symptom entry carries a
// high-risk triage level.
const AlertHighRiskSymptoms = "symptoms.high_risk"

// AlertPublisher pushes an event to the live connections of one user.
type AlertPublisher interface {
	Publish(ctx context.Context, userID uuid.UUID, eventType string, data any) error
}

type Service struct {
	repo      Repository
	profiles  profile.Repository
	enricher  SymptomEnricher
	publisher AlertPublisher
}

func NewService(repo Repository, profiles profile.Repository) *Service {
	return &Service{repo: repo, profiles: profiles}
}

// SetEnricher installs the engine that annotates new symptom entries.
func (s *Service) SetEnricher(e SymptomEnricher) { s.enricher = e }

// SetPublisher installs the sink for high-risk symptom alerts.
func (s *Service) SetPublisher(p AlertPublisher) { s.publisher = p }

func (s *Service) requireUser(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return apperrors.Validation("user_id is required")
	}
	if _, err := s.profiles.Get(ctx, userID); err != nil {
		return err
	}
	return nil
}

func (s *Service) LogSymptoms(ctx context.Context, e *SymptomEntry) error {
	cleaned := make([]string, 0, len(e.Symptoms))
	for _, sym := range e.Symptoms {
		if sym = strings.TrimSpace(sym); sym != "" {
			cleaned = append(cleaned, sym)
		}
	}
	if len(cleaned) == 0 {
		return apperrors.Validation("symptoms are required")
	}
	e.Symptoms = cleaned
	if err := s.requireUser(ctx, e.UserID); err != nil {
		return err
	}
	if s.enricher != nil && (e.PredictedDisease == nil || e.TriageLevel == nil) {
		disease, triage := s.enricher.Enrich(ctx, e.Symptoms)
		if e.PredictedDisease == nil {
			e.PredictedDisease = disease
		}
		if e.TriageLevel == nil {
			e.TriageLevel = triage
		}
	}
	if err := s.repo.CreateSymptom(ctx, e); err != nil {
		return fmt.Errorf("log symptoms: %w", err)
	}
	if s.publisher != nil && isHighRisk(e.TriageLevel) {
		// Delivery is best effort; the entry is already stored.
		_ = s.publisher.Publish(ctx, e.UserID, AlertHighRiskSymptoms, e)
	}
	return nil
}

func isHighRisk(level *string) bool {
	if level == nil {
		return false
	}
	_, ok := rules.AlertTriage[strings.ToLower(strings.TrimSpace(*level))]
	return ok
}

func (s *Service) LogNutrition(ctx context.Context, e *NutritionEntry) error {
	e.FoodName = strings.TrimSpace(e.FoodName)
	if e.FoodName == "" {
		return apperrors.Validation("food_name is required")
	}
	for name, v := range map[string]*float64{"calories": e.Calories, "protein": e.Protein, "carbs": e.Carbs, "fats": e.Fats} {
		if v != nil && *v < 0 {
			return apperrors.Validation("%s must not be negative", name)
		}
	}
	if err := s.requireUser(ctx, e.UserID); err != nil {
		return err
	}
	if err := s.repo.CreateNutrition(ctx, e); err != nil {
		return fmt.Errorf("log nutrition: %w", err)
	}
	return nil
}

func (s *Service) LogMedication(ctx context.Context, e *MedicationEntry) error {
	e.MedicationName = strings.TrimSpace(e.MedicationName)
	if e.MedicationName == "" {
		return apperrors.Validation("medication_name is required")
	}
	if err := s.requireUser(ctx, e.UserID); err != nil {
		return err
	}
	if err := s.repo.CreateMedication(ctx, e); err != nil {
		return fmt.Errorf("log medication: %w", err)
	}
	return nil
}

func (s *Service) LogLabReport(ctx context.Context, e *LabReportEntry) error {
	e.ReportName = strings.TrimSpace(e.ReportName)
	if e.ReportName == "" {
		return apperrors.Validation("report_name is required")
	}
	if err := s.requireUser(ctx, e.UserID); err != nil {
		return err
	}
	if err := s.repo.CreateLab(ctx, e); err != nil {
		return fmt.Errorf("log lab report: %w", err)
	}
	return nil
}

func (s *Service) ListSymptoms(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*SymptomEntry, int, error) {
	return s.repo.PageSymptoms(ctx, userID, limit, offset)
}

func (s *Service) ListNutrition(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*NutritionEntry, int, error) {
	return s.repo.PageNutrition(ctx, userID, limit, offset)
}

func (s *Service) ListMedications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*MedicationEntry, int, error) {
	return s.repo.PageMedications(ctx, userID, limit, offset)
}

func (s *Service) ListLabReports(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*LabReportEntry, int, error) {
	return s.repo.PageLabs(ctx, userID, limit, offset)
}
