package analysis

import (
	"strings"
)

const (
	DrugDataMissing     = "Service unavailable (data missing)"
	DrugNoInteractions  = "No interactions found"
	DrugInteractionsHit = "Interactions detected"
)

type DrugInteraction struct {
	Drug1       string `json:"drug_1"`
	Drug2       string `json:"drug_2"`
	Interaction string `json:"interaction"`
	Severity    string `json:"severity"`
}

type DrugReport struct {
	Status  string            `json:"status"`
	Details []DrugInteraction `json:"details"`
}

// Drugs checks every unordered pair of the list, in list order, against the
// pair dataset. The first matching row in either orientation wins.
func (e *Engine) Drugs(meds []string) *DrugReport {
	pairs, err := e.data.drugPairs.Get()
	if err != nil {
		e.logger.Warn().Err(err).Msg("drug interaction data unavailable")
		return &DrugReport{Status: DrugDataMissing, Details: []DrugInteraction{}}
	}
	found := []DrugInteraction{}
	for i := 0; i < len(meds); i++ {
		for j := i + 1; j < len(meds); j++ {
			d1, d2 := strings.ToLower(meds[i]), strings.ToLower(meds[j])
			for _, p := range pairs {
				if (p.Drug1 == d1 && p.Drug2 == d2) || (p.Drug1 == d2 && p.Drug2 == d1) {
					found = append(found, DrugInteraction{Drug1: d1, Drug2: d2, Interaction: p.Interaction, Severity: p.Severity})
					break
				}
			}
		}
	}
	if len(found) == 0 {
		return &DrugReport{Status: DrugNoInteractions, Details: found}
	}
	return &DrugReport{Status: DrugInteractionsHit, Details: found}
}
