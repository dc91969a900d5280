package analysis

import (
	"github.com/healthintel/healthintel/pkg/apperrors"
)

const (
	LabLow    = "Low"
	LabHigh   = "High"
	LabNormal = "Normal"
)

type LabResult struct {
	Value          float64 `json:"value"`
	Status         string  `json:"status"`
	ReferenceRange Range   `json:"reference_range"`
}

type LabReport struct {
	DetailedResults map[string]LabResult `json:"detailed_results"`
	Summary         string               `json:"summary"`
}

// LabSummary describes how many values fell outside their ranges.
func LabSummary(abnormal int) string {
	switch {
	case abnormal == 0:
		return "All values normal"
	case abnormal <= 2:
		return "Mild abnormalities"
	default:
		return "Multiple abnormalities – consult doctor"
	}
}

// Lab compares each value with its reference range. Tests without a range
// are left out of the report.
func (e *Engine) Lab(values map[string]float64) (*LabReport, error) {
	ranges, err := e.data.ranges.Get()
	if err != nil {
		return nil, apperrors.Unavailable("lab reference ranges unavailable", err)
	}
	report := &LabReport{DetailedResults: map[string]LabResult{}}
	abnormal := 0
	for test, v := range values {
		ref, ok := ranges[test]
		if !ok {
			continue
		}
		status := LabNormal
		switch {
		case v < ref.Min:
			status = LabLow
		case v > ref.Max:
			status = LabHigh
		}
		if status != LabNormal {
			abnormal++
		}
		report.DetailedResults[test] = LabResult{Value: v, Status: status, ReferenceRange: ref}
	}
	report.Summary = LabSummary(abnormal)
	return report, nil
}
