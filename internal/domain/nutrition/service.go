package nutrition

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"

	"github.com/healthintel/healthintel/internal/domain/healthlog"
	"github.com/healthintel/healthintel/internal/domain/profile"
	"github.com/healthintel/healthintel/internal/domain/rules"
)

var tracer = otel.Tracer("github.com/healthintel/healthintel/internal/domain/nutrition")

type Recommendation struct {
	UserID       uuid.UUID                  `json:"user_id"`
	DailyTargets rules.Macros               `json:"daily_targets"`
	Current      healthlog.NutritionSummary `json:"current_7d_avg"`
	Analysis     []NutrientAnalysis         `json:"analysis"`
	Suggestions  []string                   `json:"suggestions"`
	FoodsToAvoid []string                   `json:"foods_to_avoid"`
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

func (s *Service) Recommend(ctx context.Context, userID uuid.UUID) (*Recommendation, error) {
	ctx, span := tracer.Start(ctx, "nutrition.Recommend")
	defer span.End()

	p, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	entries, err := s.logs.ListNutrition(ctx, userID, healthlog.Since(s.now().UTC(), CurrentWindowDays))
	if err != nil {
		return nil, fmt.Errorf("list nutrition: %w", err)
	}

	targets := DailyTargets(p.Age, p.GenderValue(), p.ExistingConditions)
	avg := healthlog.SummarizeNutrition(entries, CurrentWindowDays)
	analysis := Analyze(targets, avg)

	s.logger.Info().Str("user_id", userID.String()).Msg("nutrition recommendations generated")
	return &Recommendation{
		UserID:       userID,
		DailyTargets: targets,
		Current:      avg,
		Analysis:     analysis,
		Suggestions:  Suggestions(analysis),
		FoodsToAvoid: FoodsToAvoid(p.ExistingConditions),
	}, nil
}
