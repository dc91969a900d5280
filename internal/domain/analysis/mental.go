package analysis

import (
	"context"

	"github.com/healthintel/healthintel/internal/platform/inference"
)

const modelMissing = "Unknown (Model missing)"

type MentalState struct {
	Emotion       string  `json:"emotion"`
	Confidence    float64 `json:"confidence"`
	SeverityLevel string  `json:"severity_level"`
}

// EmotionSeverity maps a classifier label to a severity level.
func EmotionSeverity(label string) string {
	switch label {
	case "sadness", "depression", "fear":
		return "High"
	case "anger":
		return "Moderate"
	default:
		return "Low"
	}
}

// Mental classifies the emotion in text. Without a classifier the result is
// a labelled placeholder at zero confidence.
func (e *Engine) Mental(ctx context.Context, text string) *MentalState {
	ctx, span := tracer.Start(ctx, "analysis.Mental")
	defer span.End()

	if e.models.Emotions == nil {
		return &MentalState{Emotion: modelMissing, SeverityLevel: "Low"}
	}
	res := e.models.Emotions.Classify(ctx, text)
	if res.Status != inference.StatusOK {
		e.warnTransient("emotion", res.Status, res.Err)
		return &MentalState{Emotion: modelMissing, SeverityLevel: "Low"}
	}
	return &MentalState{
		Emotion:       res.Value.Label,
		Confidence:    res.Value.Confidence,
		SeverityLevel: EmotionSeverity(res.Value.Label),
	}
}
