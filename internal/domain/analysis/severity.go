package analysis

import (
	"strings"

	"github.com/healthintel/healthintel/pkg/apperrors"
)

const (
	TriageMild     = "Mild"
	TriageModerate = "Moderate"
	TriageHigh     = "High / Emergency"
)

type Severity struct {
	TotalScore  int    `json:"total_severity_score"`
	TriageLevel string `json:"triage_level"`
}

// TriageFor buckets a summed severity weight.
func TriageFor(score int) string {
	switch {
	case score <= 5:
		return TriageMild
	case score <= 12:
		return TriageModerate
	default:
		return TriageHigh
	}
}

// Severity sums the weights of the known symptoms. Unknown symptoms add
// nothing.
func (e *Engine) Severity(symptoms []string) (*Severity, error) {
	weights, err := e.data.severity.Get()
	if err != nil {
		return nil, apperrors.Unavailable("symptom severity data unavailable", err)
	}
	total := 0
	for _, s := range symptoms {
		total += weights[strings.ToLower(strings.TrimSpace(s))]
	}
	return &Severity{TotalScore: total, TriageLevel: TriageFor(total)}, nil
}
