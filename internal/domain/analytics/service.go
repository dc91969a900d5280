package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"github.com/healthintel/healthintel/internal/domain/healthlog"
)

var tracer = otel.Tracer("github.com/healthintel/healthintel/internal/domain/analytics")

const (
	DefaultNutritionDays = 7
	MaxNutritionDays     = 365
	DefaultTimelineLimit = 50
	MaxTimelineLimit     = 200
)

// SymptomChart is the symptom frequency in chart form.
type SymptomChart struct {
	Labels     []string                 `json:"labels"`
	Values     []int                    `json:"values"`
	Items      []healthlog.SymptomCount `json:"items"`
	MostCommon *string                  `json:"most_common"`
}

type Service struct {
	logs healthlog.Repository
	now  func() time.Time
}

func NewService(logs healthlog.Repository) *Service {
	return &Service{logs: logs, now: time.Now}
}

func (s *Service) Symptoms(ctx context.Context, userID uuid.UUID) (*SymptomChart, error) {
	ctx, span := tracer.Start(ctx, "analytics.Symptoms")
	defer span.End()

	entries, err := s.logs.ListSymptoms(ctx, userID, nil)
	if err != nil {
		return nil, fmt.Errorf("list symptoms: %w", err)
	}
	items := healthlog.SymptomFrequency(entries)
	chart := &SymptomChart{Labels: []string{}, Values: []int{}, Items: items}
	for _, it := range items {
		chart.Labels = append(chart.Labels, it.Symptom)
		chart.Values = append(chart.Values, it.Count)
	}
	if len(items) > 0 {
		chart.MostCommon = &items[0].Symptom
	}
	return chart, nil
}

func (s *Service) Nutrition(ctx context.Context, userID uuid.UUID, days int) (*healthlog.NutritionSummary, error) {
	ctx, span := tracer.Start(ctx, "analytics.Nutrition")
	defer span.End()

	entries, err := s.logs.ListNutrition(ctx, userID, healthlog.Since(s.now().UTC(), days))
	if err != nil {
		return nil, fmt.Errorf("list nutrition: %w", err)
	}
	sum := healthlog.SummarizeNutrition(entries, days)
	return &sum, nil
}

func (s *Service) Timeline(ctx context.Context, userID uuid.UUID, limit int) ([]Event, error) {
	ctx, span := tracer.Start(ctx, "analytics.Timeline")
	defer span.End()

	symptoms, err := s.logs.ListSymptoms(ctx, userID, nil)
	if err != nil {
		return nil, fmt.Errorf("list symptoms: %w", err)
	}
	nutrition, err := s.logs.ListNutrition(ctx, userID, nil)
	if err != nil {
		return nil, fmt.Errorf("list nutrition: %w", err)
	}
	meds, err := s.logs.ListMedications(ctx, userID, nil)
	if err != nil {
		return nil, fmt.Errorf("list medications: %w", err)
	}
	labs, err := s.logs.ListLabs(ctx, userID, nil)
	if err != nil {
		return nil, fmt.Errorf("list labs: %w", err)
	}
	return Timeline(symptoms, nutrition, meds, labs, limit), nil
}
