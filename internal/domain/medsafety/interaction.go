package medsafety

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/healthintel/healthintel/internal/domain/rules"
	"github.com/healthintel/healthintel/pkg/lazy"
	"github.com/healthintel/healthintel/pkg/normalize"
	"github.com/healthintel/healthintel/pkg/refdata"
)

// InteractionsFile is the pairwise rule dataset under DATA_DIR.
const InteractionsFile = "interactions.csv"

// InteractionRule is one row of the interaction dataset.
type InteractionRule struct {
	DrugA       string
	DrugB       string
	Severity    string
	Description string
}

type PairWarning struct {
	DrugA       string `json:"drug_a"`
	DrugB       string `json:"drug_b"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

type AllergyConflict struct {
	Medication string `json:"medication"`
	Allergy    string `json:"allergy"`
	Warning    string `json:"warning"`
}

// InteractionReport is the result of a pairwise interaction check.
type InteractionReport struct {
	Interactions     []PairWarning     `json:"interactions"`
	AllergyConflicts []AllergyConflict `json:"allergy_conflicts"`
	TotalWarnings    int               `json:"total_warnings"`
	Note             string            `json:"note,omitempty"`
}

// Checker matches medication lists against the interaction dataset. The
// dataset is read on first use.
type Checker struct {
	rules  *lazy.Value[[]InteractionRule]
	logger zerolog.Logger
}

func NewChecker(dataDir string, logger zerolog.Logger) *Checker {
	c := &Checker{logger: logger}
	c.rules = lazy.New(func() ([]InteractionRule, error) {
		return LoadInteractionRules(dataDir)
	})
	return c
}

// NewCheckerWithRules returns a Checker over a fixed rule list.
func NewCheckerWithRules(list []InteractionRule) *Checker {
	return &Checker{
		rules:  lazy.New(func() ([]InteractionRule, error) { return list, nil }),
		logger: zerolog.Nop(),
	}
}

// LoadInteractionRules reads the drug_a, drug_b, severity, description
// columns of the interaction dataset.
func LoadInteractionRules(dataDir string) ([]InteractionRule, error) {
	t, err := refdata.Open(dataDir, InteractionsFile)
	if err != nil {
		return nil, err
	}
	if err := t.Require("drug_a", "drug_b", "severity", "description"); err != nil {
		return nil, err
	}
	out := make([]InteractionRule, 0, len(t.Rows))
	for _, row := range t.Rows {
		out = append(out, InteractionRule{
			DrugA:       normalize.Name(t.Get(row, "drug_a")),
			DrugB:       normalize.Name(t.Get(row, "drug_b")),
			Severity:    normalize.Name(t.Get(row, "severity")),
			Description: t.Get(row, "description"),
		})
	}
	return out, nil
}

// Ready loads the dataset and reports the number of rules.
func (c *Checker) Ready() (int, error) {
	list, err := c.rules.Get()
	return len(list), err
}

// Check reports every rule whose two drugs are both present after class
// alias expansion, plus allergy conflicts. A missing dataset yields no pair
// warnings and a note.
func (c *Checker) Check(meds []string, allergies normalize.TermSet) *InteractionReport {
	report := &InteractionReport{Interactions: []PairWarning{}}
	present := rules.ExpandAliases(meds)

	list, err := c.rules.Get()
	if err != nil {
		c.logger.Warn().Err(err).Msg("interaction rules unavailable")
		report.Note = "Interaction data unavailable"
	}
	for _, r := range list {
		_, a := present[r.DrugA]
		_, b := present[r.DrugB]
		if a && b {
			report.Interactions = append(report.Interactions, PairWarning(r))
		}
	}
	report.AllergyConflicts = AllergyConflicts(meds, allergies)
	report.TotalWarnings = len(report.Interactions) + len(report.AllergyConflicts)

	c.logger.Debug().
		Int("medications", len(meds)).
		Int("interactions", len(report.Interactions)).
		Int("allergy_conflicts", len(report.AllergyConflicts)).
		Msg("interaction check")
	return report
}

// expandOrdered is ExpandAliases with a stable order: each medication
// followed by the members of its class.
func expandOrdered(meds []string) []string {
	seen := map[string]struct{}{}
	out := []string{}
	add := func(m string) {
		if _, ok := seen[m]; !ok {
			seen[m] = struct{}{}
			out = append(out, m)
		}
	}
	for _, m := range normalize.Names(meds) {
		if m == "" {
			continue
		}
		add(m)
		for _, member := range rules.DrugAliases[m] {
			add(member)
		}
	}
	return out
}

// AllergyConflicts flags expanded medications named directly by an allergy,
// then members of an allergy that names a drug class. A medication is
// reported at most once through the class rule.
func AllergyConflicts(meds []string, allergies normalize.TermSet) []AllergyConflict {
	out := []AllergyConflict{}
	expanded := expandOrdered(meds)
	present := make(map[string]struct{}, len(expanded))
	for _, m := range expanded {
		present[m] = struct{}{}
	}
	flagged := map[string]bool{}
	for _, m := range expanded {
		if allergies.Contains(m) {
			out = append(out, AllergyConflict{Medication: m, Allergy: m, Warning: "Patient is allergic to " + m})
			flagged[m] = true
		}
	}
	for _, a := range allergies {
		for _, member := range rules.DrugAliases[a] {
			if _, ok := present[member]; !ok || flagged[member] {
				continue
			}
			out = append(out, AllergyConflict{
				Medication: member,
				Allergy:    a,
				Warning:    fmt.Sprintf("Patient is allergic to %s class (includes %s)", a, member),
			})
			flagged[member] = true
		}
	}
	return out
}
