package medsafety

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/healthintel/healthintel/internal/domain/healthlog"
	"github.com/healthintel/healthintel/internal/domain/profile"
	"github.com/healthintel/healthintel/pkg/apperrors"
	"github.com/healthintel/healthintel/pkg/normalize"
)

var tracer = otel.Tracer("github.com/healthintel/healthintel/internal/domain/medsafety")

type Service struct {
	profiles profile.Repository
	logs     healthlog.Repository
	checker  *Checker
	logger   zerolog.Logger
	now      func() time.Time
}

func NewService(profiles profile.Repository, logs healthlog.Repository, checker *Checker, logger zerolog.Logger) *Service {
	return &Service{
		profiles: profiles,
		logs:     logs,
		checker:  checker,
		logger:   logger,
		now:      time.Now,
	}
}

func validateMeds(meds []string) error {
	if len(distinct(meds)) == 0 {
		return apperrors.Validation("medications are required")
	}
	return nil
}

// SafetyCheck evaluates meds for userID against the stored profile and the
// last week of medication logs.
func (s *Service) SafetyCheck(ctx context.Context, userID uuid.UUID, meds []string) (*Report, error) {
	ctx, span := tracer.Start(ctx, "medsafety.SafetyCheck")
	defer span.End()

	if err := validateMeds(meds); err != nil {
		return nil, err
	}
	p, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	cutoff := s.now().UTC().AddDate(0, 0, -FrequencyWindowDays)
	counts, err := s.logs.CountMedications(ctx, userID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("count medications: %w", err)
	}

	report := Evaluate(meds, p.Allergies, p.ExistingConditions, counts)
	span.SetAttributes(attribute.String("risk_level", string(report.RiskLevel)))
	s.logger.Info().
		Str("user_id", userID.String()).
		Str("risk_level", string(report.RiskLevel)).
		Int("allergy_warnings", len(report.AllergyWarnings)).
		Int("condition_conflicts", len(report.ConditionConflicts)).
		Int("interaction_warnings", len(report.InteractionWarnings)).
		Msg("medication safety check")
	return report, nil
}

// CheckInteractions runs the pairwise interaction rules.
func (s *Service) CheckInteractions(ctx context.Context, meds []string, allergies normalize.TermSet) (*InteractionReport, error) {
	_, span := tracer.Start(ctx, "medsafety.CheckInteractions")
	defer span.End()

	if err := validateMeds(meds); err != nil {
		return nil, err
	}
	return s.checker.Check(meds, allergies), nil
}
