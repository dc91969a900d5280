// Package orchestrator runs every analysis a full-health request asks for
// concurrently and merges the results, translating in and out of the
// caller's language.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/healthintel/healthintel/internal/domain/analysis"
	"github.com/healthintel/healthintel/internal/platform/translation"
	"github.com/healthintel/healthintel/pkg/apperrors"
)

var tracer = otel.Tracer("github.com/healthintel/healthintel/internal/domain/orchestrator")

// Result keys.
const (
	KeySymptoms  = "symptom_analysis"
	KeyLab       = "lab_analysis"
	KeyDrugs     = "drug_analysis"
	KeyMental    = "mental_analysis"
	KeyNutrition = "nutrition_analysis"
	KeyRegional  = "regional_alerts"
)

// Engines are the single-purpose analyses the orchestrator dispatches to.
// *analysis.Engine satisfies it.
type Engines interface {
	Health(ctx context.Context, symptoms []string, userQuery string) *analysis.HealthReport
	Lab(values map[string]float64) (*analysis.LabReport, error)
	Drugs(meds []string) *analysis.DrugReport
	Mental(ctx context.Context, text string) *analysis.MentalState
	Food(name string) (*analysis.FoodFacts, error)
	RegionalAlerts(ctx context.Context, region string) *analysis.RegionalReport
}

type Request struct {
	Symptoms    []string           `json:"symptoms"`
	LabValues   map[string]float64 `json:"lab_values"`
	Medications []string           `json:"medications"`
	MentalText  string             `json:"mental_text"`
	Food        string             `json:"food"`
	UserQuery   string             `json:"user_query"`
	Location    string             `json:"location"`
	Language    string             `json:"language"`
}

// Response maps each requested analysis key to its result.
type Response map[string]any

type Service struct {
	engines    Engines
	translator translation.Translator
	logger     zerolog.Logger
}

func NewService(engines Engines, translator translation.Translator, logger zerolog.Logger) *Service {
	if translator == nil {
		translator = translation.Passthrough{}
	}
	return &Service{engines: engines, translator: translator, logger: logger}
}

type task struct {
	key string
	run func(ctx context.Context) (any, error)
	// fallback is the placeholder used when run fails
	fallback func(err error) any
}

func errorPlaceholder(err error) any {
	return map[string]any{"error": apperrors.PublicMessage(err)}
}

func (s *Service) tasks(req Request) []task {
	var tasks []task
	if len(req.Symptoms) > 0 {
		tasks = append(tasks, task{key: KeySymptoms, run: func(ctx context.Context) (any, error) {
			return s.engines.Health(ctx, req.Symptoms, req.UserQuery), nil
		}})
	}
	if len(req.LabValues) > 0 {
		tasks = append(tasks, task{key: KeyLab, run: func(context.Context) (any, error) {
			return s.engines.Lab(req.LabValues)
		}})
	}
	if len(req.Medications) > 0 {
		tasks = append(tasks, task{key: KeyDrugs, run: func(context.Context) (any, error) {
			return s.engines.Drugs(req.Medications), nil
		}})
	}
	if req.MentalText != "" {
		tasks = append(tasks, task{key: KeyMental, run: func(ctx context.Context) (any, error) {
			return s.engines.Mental(ctx, req.MentalText), nil
		}})
	}
	if req.Food != "" {
		tasks = append(tasks, task{key: KeyNutrition, run: func(context.Context) (any, error) {
			return s.engines.Food(req.Food)
		}})
	}
	if req.Location != "" {
		tasks = append(tasks, task{key: KeyRegional, run: func(ctx context.Context) (any, error) {
			return s.engines.RegionalAlerts(ctx, req.Location), nil
		}, fallback: func(error) any {
			return &analysis.RegionalReport{Status: analysis.RegionUnavailable, Region: req.Location, Alerts: []analysis.RegionalAlert{}}
		}})
	}
	return tasks
}

// Analyze runs the analyses for every present field. A failing analysis is
// replaced by a placeholder under its own key and never affects the others.
func (s *Service) Analyze(ctx context.Context, req Request) Response {
	ctx, span := tracer.Start(ctx, "orchestrator.Analyze")
	defer span.End()

	lang := strings.ToLower(strings.TrimSpace(req.Language))
	if lang == "" {
		lang = translation.English
	}
	span.SetAttributes(attribute.String("language", lang))
	if lang != translation.English {
		req = s.toEnglish(ctx, req, lang)
	}

	tasks := s.tasks(req)
	results := make([]any, len(tasks))

	g, gctx := errgroup.WithContext(ctx)
	for i, t := range tasks {
		g.Go(func() error {
			results[i] = s.run(gctx, t)
			return nil
		})
	}
	_ = g.Wait()

	resp := make(Response, len(tasks))
	for i, t := range tasks {
		resp[t.key] = results[i]
	}
	if lang != translation.English {
		s.fromEnglish(ctx, resp, lang)
	}
	return resp
}

func (s *Service) run(ctx context.Context, t task) (out any) {
	ctx, span := tracer.Start(ctx, "orchestrator."+t.key)
	defer span.End()

	fallback := t.fallback
	if fallback == nil {
		fallback = errorPlaceholder
	}
	defer func() {
		if r := recover(); r != nil {
			err := apperrors.Internal(t.key+" failed", fmt.Errorf("panic: %v", r))
			s.logger.Error().Err(err).Str("analysis", t.key).Msg("analysis panicked")
			span.RecordError(err)
			out = fallback(err)
		}
	}()

	v, err := t.run(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Str("analysis", t.key).Msg("analysis degraded")
		span.RecordError(err)
		return fallback(err)
	}
	return v
}

func (s *Service) toEnglish(ctx context.Context, req Request, lang string) Request {
	if len(req.Symptoms) > 0 {
		symptoms := make([]string, len(req.Symptoms))
		for i, sym := range req.Symptoms {
			symptoms[i] = translation.ToEnglish(ctx, s.translator, sym, lang)
		}
		req.Symptoms = symptoms
	}
	if req.MentalText != "" {
		req.MentalText = translation.ToEnglish(ctx, s.translator, req.MentalText, lang)
	}
	if req.UserQuery != "" {
		req.UserQuery = translation.ToEnglish(ctx, s.translator, req.UserQuery, lang)
	}
	if req.Food != "" {
		req.Food = translation.ToEnglish(ctx, s.translator, req.Food, lang)
	}
	return req
}

// fromEnglish translates the top-level string fields of every result.
// Nested values are left in English.
func (s *Service) fromEnglish(ctx context.Context, resp Response, lang string) {
	for key, v := range resp {
		fields, err := toFields(v)
		if err != nil {
			s.logger.Warn().Err(err).Str("analysis", key).Msg("result not translated")
			continue
		}
		for name, fv := range fields {
			if str, ok := fv.(string); ok {
				fields[name] = translation.FromEnglish(ctx, s.translator, str, lang)
			}
		}
		resp[key] = fields
	}
}

func toFields(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}
