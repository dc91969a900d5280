package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/healthintel/healthintel/internal/domain/rules"
	"github.com/healthintel/healthintel/internal/platform/inference"
	"github.com/healthintel/healthintel/pkg/mathutil"
)

const (
	qaMinConfidence         = 0.15
	fallbackConfidence      = 0.60
	emergencyConfidence     = 0.95
	crisisConfidence        = 0.98
	defaultMentalConfidence = 0.65
	unknownEmotionScore     = 0.5
)

// Engine picks a reply for a message. The classifiers are optional
// enrichments; nil or unavailable models fall back to templates.
type Engine struct {
	qa       inference.QARetriever
	emotions inference.EmotionClassifier
	logger   zerolog.Logger
}

func NewEngine(qa inference.QARetriever, emotions inference.EmotionClassifier, logger zerolog.Logger) *Engine {
	return &Engine{qa: qa, emotions: emotions, logger: logger}
}

// Reply dispatches on mode. Anything but mental is answered by the health
// assistant.
func (e *Engine) Reply(ctx context.Context, message, mode string) Reply {
	if mode == ModeMental {
		return e.mental(ctx, message)
	}
	return e.health(ctx, message)
}

func (e *Engine) health(ctx context.Context, message string) Reply {
	flags := rules.MatchKeywords(message, rules.EmergencyKeywords)

	text, confidence := HealthFallback(message), fallbackConfidence
	if e.qa != nil {
		res := e.qa.Answer(ctx, message)
		switch {
		case res.Status == inference.StatusOK && res.Value.Confidence > qaMinConfidence:
			text, confidence = res.Value.Answer, res.Value.Confidence
		case res.Status == inference.StatusTransientError:
			e.logger.Warn().Err(res.Err).Msg("medical QA unavailable")
		}
	}

	if len(flags) > 0 {
		text = fmt.Sprintf(emergencyBanner, strings.Join(flags, ", ")) + text
		confidence = emergencyConfidence
	}
	return Reply{Response: text, Confidence: mathutil.Round(confidence, 2), RiskFlags: flags}
}

// HealthFallback is the rule based health answer, chosen by the first
// matching topic.
func HealthFallback(message string) string {
	switch {
	case rules.ContainsAny(message, "headache", "head pain", "migraine"):
		return headacheAdvice
	case rules.ContainsAny(message, "fever", "temperature", "hot"):
		return feverAdvice
	case rules.ContainsAny(message, "cold", "cough", "sore throat", "runny nose"):
		return coldAdvice
	case rules.ContainsAny(message, "stomach", "nausea", "vomiting", "diarrhea"):
		return stomachAdvice
	case rules.ContainsAny(message, "medicine", "medication", "drug", "tablet", "pill"):
		return medicationAdvice
	default:
		return defaultHealthAdvice
	}
}

func (e *Engine) emotion(ctx context.Context, message string) (string, float64) {
	if e.emotions == nil {
		return "unknown", unknownEmotionScore
	}
	res := e.emotions.Classify(ctx, message)
	switch res.Status {
	case inference.StatusOK:
		return strings.ToLower(res.Value.Label), res.Value.Confidence
	case inference.StatusTransientError:
		e.logger.Warn().Err(res.Err).Msg("emotion classifier unavailable")
	}
	return "unknown", unknownEmotionScore
}

func (e *Engine) mental(ctx context.Context, message string) Reply {
	flags := rules.MatchKeywords(message, rules.CrisisKeywords)
	label, score := e.emotion(ctx, message)

	var (
		text       string
		confidence float64
	)
	switch {
	case len(flags) > 0:
		text, confidence = crisisResponse, crisisConfidence
	case label == "sadness" || label == "depression":
		text, confidence = sadnessResponse, mathutil.Round(score, 2)
	case label == "anger":
		text, confidence = angerResponse, mathutil.Round(score, 2)
	case label == "fear" || label == "anxiety":
		text, confidence = anxietyResponse, mathutil.Round(score, 2)
	default:
		text, confidence = defaultMentalResponse, defaultMentalConfidence
	}
	return Reply{Response: text, Confidence: confidence, RiskFlags: flags}
}
