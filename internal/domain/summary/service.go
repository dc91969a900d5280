package summary

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/healthintel/healthintel/internal/domain/healthlog"
	"github.com/healthintel/healthintel/internal/domain/profile"
)

var tracer = otel.Tracer("github.com/healthintel/healthintel/internal/domain/summary")

type SymptomTrends struct {
	TopSymptoms             []healthlog.SymptomCount `json:"top_symptoms"`
	RecentPredictedDiseases []string                 `json:"recent_predicted_diseases"`
	TotalLogs30d            int                      `json:"total_logs_30d"`
}

// Summary is the health summary response.
type Summary struct {
	UserID              uuid.UUID                  `json:"user_id"`
	Profile             profile.Snapshot           `json:"profile"`
	SymptomTrends       SymptomTrends              `json:"symptom_trends"`
	Nutrition7dAvg      healthlog.NutritionSummary `json:"nutrition_7d_avg"`
	ActiveMedications   []string                   `json:"active_medications"`
	LabAbnormals        []LabAbnormal              `json:"lab_abnormals"`
	RecurringConditions []string                   `json:"recurring_conditions"`
	WeeklySummaryText   string                     `json:"weekly_summary_text"`
	RiskFlags           []string                   `json:"risk_flags"`
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

func (s *Service) Generate(ctx context.Context, userID uuid.UUID) (*Summary, error) {
	ctx, span := tracer.Start(ctx, "summary.Generate")
	defer span.End()

	p, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()

	recent, err := s.logs.ListSymptoms(ctx, userID, healthlog.Since(now, SymptomWindowDays))
	if err != nil {
		return nil, fmt.Errorf("list symptoms: %w", err)
	}
	// newest first
	recent = slices.Clone(recent)
	slices.Reverse(recent)

	all, err := s.logs.ListSymptoms(ctx, userID, nil)
	if err != nil {
		return nil, fmt.Errorf("list symptom history: %w", err)
	}
	nutrition, err := s.logs.ListNutrition(ctx, userID, healthlog.Since(now, NutritionWindowDays))
	if err != nil {
		return nil, fmt.Errorf("list nutrition: %w", err)
	}
	meds, err := s.logs.ListMedications(ctx, userID, healthlog.Since(now, MedicationWindowDays))
	if err != nil {
		return nil, fmt.Errorf("list medications: %w", err)
	}
	labs, _, err := s.logs.PageLabs(ctx, userID, LatestLabs, 0)
	if err != nil {
		return nil, fmt.Errorf("list labs: %w", err)
	}

	top := healthlog.SymptomFrequency(all)
	if len(top) > TopSymptoms {
		top = top[:TopSymptoms]
	}
	avg := healthlog.SummarizeNutrition(nutrition, NutritionWindowDays)
	active := ActiveMedications(meds)
	abnormal := LabAbnormals(labs)
	recurring := RecurringConditions(recent)
	flags := RiskFlags(recent, avg, active, abnormal, recurring)

	span.SetAttributes(attribute.Int("risk_flags", len(flags)))
	s.logger.Info().Str("user_id", userID.String()).Int("risk_flags", len(flags)).Msg("health summary generated")

	return &Summary{
		UserID:  userID,
		Profile: p.Snapshot(),
		SymptomTrends: SymptomTrends{
			TopSymptoms:             top,
			RecentPredictedDiseases: RecentDiseases(recent),
			TotalLogs30d:            len(recent),
		},
		Nutrition7dAvg:      avg,
		ActiveMedications:   active,
		LabAbnormals:        abnormal,
		RecurringConditions: recurring,
		WeeklySummaryText:   WeeklyText(p.Name, recent, avg, flags),
		RiskFlags:           flags,
	}, nil
}
