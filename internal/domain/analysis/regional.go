package analysis

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
)

const (
	RegionDataUnavailable = "Data unavailable"
	RegionNoData          = "No data found"
	RegionRetrieved       = "Data retrieved"
	RegionUnavailable     = "unavailable"
)

type RegionalAlert struct {
	Disease   string `json:"disease"`
	Cases     int    `json:"cases"`
	RiskLevel string `json:"risk_level"`
	Year      int    `json:"year"`
}

type RegionalReport struct {
	Status string          `json:"status"`
	Region string          `json:"region,omitempty"`
	Alerts []RegionalAlert `json:"alerts"`
}

// CaseRisk buckets a yearly case count.
func CaseRisk(cases int) string {
	switch {
	case cases > 10000:
		return "High"
	case cases > 3000:
		return "Moderate"
	default:
		return "Low"
	}
}

// RegionalAlerts lists the diseases recorded for region in its latest year.
// Results are cached per region.
func (e *Engine) RegionalAlerts(ctx context.Context, region string) *RegionalReport {
	ctx, span := tracer.Start(ctx, "analysis.RegionalAlerts")
	defer span.End()
	span.SetAttributes(attribute.String("region", region))

	key := "regional:" + strings.ToLower(strings.TrimSpace(region))
	var cached RegionalReport
	if ok, err := e.cache.Get(ctx, key, &cached); err != nil {
		e.logger.Warn().Err(err).Str("region", region).Msg("regional alert cache read failed")
	} else if ok {
		return &cached
	}

	records, err := e.data.cases.Get()
	if err != nil {
		e.logger.Warn().Err(err).Msg("epidemiology data unavailable")
		return &RegionalReport{Status: RegionDataUnavailable, Alerts: []RegionalAlert{}}
	}

	report := regionalReport(records, region)
	if err := e.cache.Set(ctx, key, report, e.cacheTTL); err != nil {
		e.logger.Warn().Err(err).Str("region", region).Msg("regional alert cache write failed")
	}
	return report
}

func regionalReport(records []CaseRecord, region string) *RegionalReport {
	var matches []CaseRecord
	latest := 0
	for _, r := range records {
		if !strings.EqualFold(r.State, region) {
			continue
		}
		matches = append(matches, r)
		latest = max(latest, r.Year)
	}
	if len(matches) == 0 {
		return &RegionalReport{Status: RegionNoData, Alerts: []RegionalAlert{}}
	}
	alerts := []RegionalAlert{}
	for _, r := range matches {
		if r.Year != latest {
			continue
		}
		alerts = append(alerts, RegionalAlert{Disease: r.Disease, Cases: r.Cases, RiskLevel: CaseRisk(r.Cases), Year: latest})
	}
	return &RegionalReport{Status: RegionRetrieved, Region: region, Alerts: alerts}
}
