package analysis

import (
	"context"
	"strings"

	"github.com/healthintel/healthintel/internal/platform/inference"
)

const (
	diseaseUnavailable  = "Unknown (Model unavailable)"
	noDescription       = "No description available."
	knowledgeBaseAbsent = "Medical knowledge base unavailable."
)

// HealthReport combines triage, severity and the disease reference data
// for a symptom list.
type HealthReport struct {
	PredictedDisease string            `json:"predicted_disease"`
	Severity         *Severity         `json:"severity"`
	Description      string            `json:"description"`
	Precautions      []string          `json:"precautions"`
	ChatbotResponse  *inference.Answer `json:"chatbot_response"`
}

// Health runs the symptom triage composition. userQuery, when set, is also
// answered from the medical QA model.
func (e *Engine) Health(ctx context.Context, symptoms []string, userQuery string) *HealthReport {
	ctx, span := tracer.Start(ctx, "analysis.Health")
	defer span.End()

	report := &HealthReport{PredictedDisease: diseaseUnavailable, Description: noDescription, Precautions: []string{}}
	if disease, ok := e.predictDisease(ctx, symptoms); ok {
		report.PredictedDisease = disease
	}

	sev, err := e.Severity(symptoms)
	if err != nil {
		e.logger.Warn().Err(err).Msg("severity scoring skipped")
	}
	report.Severity = sev

	if desc, err := e.data.descriptions.Get(); err != nil {
		e.logger.Warn().Err(err).Msg("disease descriptions unavailable")
	} else if d, ok := desc[report.PredictedDisease]; ok {
		report.Description = d
	}
	if prec, err := e.data.precautions.Get(); err != nil {
		e.logger.Warn().Err(err).Msg("disease precautions unavailable")
	} else if p, ok := prec[report.PredictedDisease]; ok {
		report.Precautions = p
	}

	if strings.TrimSpace(userQuery) != "" {
		report.ChatbotResponse = e.answer(ctx, userQuery)
	}
	return report
}

func (e *Engine) answer(ctx context.Context, question string) *inference.Answer {
	if e.models.QA == nil {
		return &inference.Answer{Answer: knowledgeBaseAbsent}
	}
	res := e.models.QA.Answer(ctx, question)
	if res.Status != inference.StatusOK {
		e.warnTransient("qa", res.Status, res.Err)
		return &inference.Answer{Answer: knowledgeBaseAbsent}
	}
	return &res.Value
}

// Enrich annotates a new symptom log: the triage level from the severity
// weights and the predicted disease from the triage model. Either is nil
// when its source is unavailable.
func (e *Engine) Enrich(ctx context.Context, symptoms []string) (predictedDisease, triageLevel *string) {
	if sev, err := e.Severity(symptoms); err == nil {
		triageLevel = &sev.TriageLevel
	}
	if disease, ok := e.predictDisease(ctx, symptoms); ok && disease != "" {
		predictedDisease = &disease
	}
	return predictedDisease, triageLevel
}
