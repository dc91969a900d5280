package analysis

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"

	"github.com/healthintel/healthintel/internal/platform/cache"
	"github.com/healthintel/healthintel/internal/platform/inference"
)

var tracer = otel.Tracer("github.com/healthintel/healthintel/internal/domain/analysis")

// Models are the ML sidecar collaborators. Any of them may be nil.
type Models struct {
	Triage   inference.TriageClassifier
	Emotions inference.EmotionClassifier
	QA       inference.QARetriever
}

// Engine runs the single-purpose analyses.
type Engine struct {
	data     *Datasets
	models   Models
	cache    cache.Cache
	cacheTTL time.Duration
	logger   zerolog.Logger
}

func NewEngine(data *Datasets, models Models, c cache.Cache, cacheTTL time.Duration, logger zerolog.Logger) *Engine {
	if c == nil {
		c = cache.Noop{}
	}
	return &Engine{data: data, models: models, cache: c, cacheTTL: cacheTTL, logger: logger}
}

// Datasets returns the reference data the engine reads.
func (e *Engine) Datasets() *Datasets { return e.data }

func (e *Engine) warnTransient(model string, status inference.Status, err error) {
	if status == inference.StatusTransientError {
		e.logger.Warn().Err(err).Str("model", model).Msg("model call failed")
	}
}

func (e *Engine) predictDisease(ctx context.Context, symptoms []string) (string, bool) {
	if e.models.Triage == nil {
		return "", false
	}
	res := e.models.Triage.PredictDisease(ctx, symptoms)
	if res.Status != inference.StatusOK {
		e.warnTransient("triage", res.Status, res.Err)
		return "", false
	}
	return res.Value, true
}
