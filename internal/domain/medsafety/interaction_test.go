package medsafety

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/healthintel/healthintel/pkg/normalize"
)

var testRules = []InteractionRule{
	{DrugA: "warfarin", DrugB: "aspirin", Severity: "major", Description: "Increased bleeding risk."},
	{DrugA: "phenelzine", DrugB: "sertraline", Severity: "major", Description: "Serotonin syndrome."},
	{DrugA: "simvastatin", DrugB: "clarithromycin", Severity: "moderate", Description: "Myopathy risk."},
}

func TestChecker_PairsAfterAliasExpansion(t *testing.T) {
	c := NewCheckerWithRules(testRules)
	r := c.Check([]string{"Warfarin", "NSAID", "maoi", "sertraline"}, nil)

	if len(r.Interactions) != 2 {
		t.Fatalf("expected 2 interactions, got %v", r.Interactions)
	}
	if r.Interactions[0].DrugA != "warfarin" || r.Interactions[1].DrugB != "sertraline" {
		t.Errorf("interactions not in rule order: %v", r.Interactions)
	}
	if r.TotalWarnings != 2 || r.Note != "" {
		t.Errorf("unexpected totals %+v", r)
	}
}

func TestChecker_MissingDataset(t *testing.T) {
	c := NewChecker(t.TempDir(), zerolog.Nop())
	r := c.Check([]string{"aspirin"}, normalize.Parse("aspirin"))
	if len(r.Interactions) != 0 {
		t.Errorf("expected no interactions, got %v", r.Interactions)
	}
	if r.Note != "Interaction data unavailable" {
		t.Errorf("expected note, got %q", r.Note)
	}
	if r.TotalWarnings != 1 {
		t.Errorf("allergy conflicts must still be reported, got %d", r.TotalWarnings)
	}
	if _, err := c.Ready(); err == nil {
		t.Error("expected Ready to report the missing file")
	}
}

func TestLoadInteractionRules(t *testing.T) {
	dir := t.TempDir()
	csv := "drug_a,drug_b,severity,description\n Warfarin ,Aspirin,MAJOR,Bleeding risk.\n"
	if err := os.WriteFile(filepath.Join(dir, InteractionsFile), []byte(csv), 0o600); err != nil {
		t.Fatal(err)
	}
	got, err := LoadInteractionRules(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []InteractionRule{{DrugA: "warfarin", DrugB: "aspirin", Severity: "major", Description: "Bleeding risk."}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	c := NewChecker(dir, zerolog.Nop())
	if n, err := c.Ready(); err != nil || n != 1 {
		t.Fatalf("expected 1 rule, got %d (%v)", n, err)
	}
}

func TestLoadInteractionRules_MissingColumn(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, InteractionsFile), []byte("drug_a,drug_b\nx,y\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadInteractionRules(dir); err == nil {
		t.Fatal("expected missing column error")
	}
}

func TestAllergyConflicts(t *testing.T) {
	got := AllergyConflicts([]string{"ibuprofen", "nsaid"}, normalize.Parse("ibuprofen, nsaid"))
	want := []AllergyConflict{
		{Medication: "ibuprofen", Allergy: "ibuprofen", Warning: "Patient is allergic to ibuprofen"},
		{Medication: "nsaid", Allergy: "nsaid", Warning: "Patient is allergic to nsaid"},
		{Medication: "naproxen", Allergy: "nsaid", Warning: "Patient is allergic to nsaid class (includes naproxen)"},
		{Medication: "diclofenac", Allergy: "nsaid", Warning: "Patient is allergic to nsaid class (includes diclofenac)"},
		{Medication: "aspirin", Allergy: "nsaid", Warning: "Patient is allergic to nsaid class (includes aspirin)"},
		{Medication: "celecoxib", Allergy: "nsaid", Warning: "Patient is allergic to nsaid class (includes celecoxib)"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestAllergyConflicts_None(t *testing.T) {
	if got := AllergyConflicts([]string{"metformin"}, nil); len(got) != 0 {
		t.Fatalf("expected none, got %v", got)
	}
}
