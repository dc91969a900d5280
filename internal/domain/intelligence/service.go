package intelligence

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
)

var tracer = otel.Tracer("github.com/healthintel/healthintel/internal/domain/intelligence")

// Report is the health intelligence response.
type Report struct {
	RiskScore           int                  `json:"risk_score"`
	RecurringConditions []RecurringCondition `json:"recurring_conditions"`
	NutritionPattern    NutritionPattern     `json:"nutrition_pattern"`
	MedicationPattern   MedicationPattern    `json:"medication_pattern"`
	SummaryText         string               `json:"summary_text"`
}

type Service struct {
	profiles profile.Repository
	logs     healthlog.Repository
	logger   zerolog.Logger
	now      func() time.Time
}

func NewService(profiles profile.Repository, logs healthlog.Repository, logger zerolog.Logger) *Service {
	return &Service{profiles: profiles, logs: logs, logger: logger, now: time.Now}
}

func (s *Service) Generate(ctx context.Context, userID uuid.UUID) (*Report, error) {
	ctx, span := tracer.Start(ctx, "intelligence.Generate")
	defer span.End()

	p, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()

	symptoms, err := s.logs.ListSymptoms(ctx, userID, healthlog.Since(now, RecurringWindowDays))
	if err != nil {
		return nil, fmt.Errorf("list symptoms: %w", err)
	}
	nutrition, err := s.logs.ListNutrition(ctx, userID, healthlog.Since(now, NutritionWindowDays))
	if err != nil {
		return nil, fmt.Errorf("list nutrition: %w", err)
	}
	meds, err := s.logs.ListMedications(ctx, userID, healthlog.Since(now, MedicationWindowDays))
	if err != nil {
		return nil, fmt.Errorf("list medications: %w", err)
	}

	recurring := RecurringConditions(symptoms, MinOccurrences)
	np := NutritionPatternOf(nutrition, NutritionWindowDays)
	mp := MedicationPatternOf(meds)
	score := RiskScore(recurring, np.Flags, mp.TotalEntries)

	span.SetAttributes(attribute.Int("risk_score", score))
	s.logger.Info().Str("user_id", userID.String()).Int("risk_score", score).Msg("health intelligence generated")

	return &Report{
		RiskScore:           score,
		RecurringConditions: recurring,
		NutritionPattern:    np,
		MedicationPattern:   mp,
		SummaryText:         SummaryText(p.Name, recurring, np, mp, score),
	}, nil
}
