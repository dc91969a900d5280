package medsafety

import (
	"reflect"
	"testing"

	"github.com/healthintel/healthintel/pkg/normalize"
)

func TestDuplicates(t *testing.T) {
	got := Duplicates([]string{"Aspirin", "ibuprofen", " aspirin", "IBUPROFEN", "aspirin", "", ""})
	want := []string{"aspirin", "ibuprofen"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if got := Duplicates([]string{"a", "b"}); len(got) != 0 {
		t.Fatalf("expected no duplicates, got %v", got)
	}
}

func TestDuplicates_SubsetWithCountAboveOne(t *testing.T) {
	inputs := [][]string{
		{"x", "X", "y"},
		{"a", "b", "c", "a", "b", "a"},
		{" m ", "m", "n", "N", "n"},
	}
	for _, in := range inputs {
		counts := map[string]int{}
		for _, m := range normalize.Names(in) {
			counts[m]++
		}
		for _, d := range Duplicates(in) {
			if counts[d] <= 1 {
				t.Errorf("%v: %q reported with count %d", in, d, counts[d])
			}
		}
	}
}

func TestHighFrequencyMeds(t *testing.T) {
	counts := map[string]int{"ibuprofen": 5, "aspirin": 4, "paracetamol": 9}
	got := HighFrequencyMeds(counts, []string{"Ibuprofen", "aspirin", "ibuprofen"}, HighFrequencyThreshold)
	want := []HighFrequency{{Medication: "ibuprofen", TimesThisWeek: 5}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestAllergyCheck_ClassExpansion(t *testing.T) {
	got := AllergyCheck([]string{"Aspirin"}, normalize.Parse("nsaid"))
	if len(got) != 1 {
		t.Fatalf("expected 1 warning, got %v", got)
	}
	w := got[0]
	if w.Medication != "aspirin" || w.MatchedAllergy != "nsaid" || w.Severity != "high" {
		t.Errorf("unexpected warning %+v", w)
	}
	if w.Message != "Patient has a known allergy to aspirin." {
		t.Errorf("unexpected message %q", w.Message)
	}
}

func TestAllergyCheck_OncePerMatchingTerm(t *testing.T) {
	allergies := normalize.FromList([]string{"nsaid", "Aspirin", "penicillin"})
	got := AllergyCheck([]string{"aspirin", "ASPIRIN", "amoxicillin", "metformin"}, allergies)

	perMed := map[string][]string{}
	for _, w := range got {
		perMed[w.Medication] = append(perMed[w.Medication], w.MatchedAllergy)
	}
	if !reflect.DeepEqual(perMed["aspirin"], []string{"nsaid", "aspirin"}) {
		t.Errorf("aspirin: expected one warning per matching term, got %v", perMed["aspirin"])
	}
	if !reflect.DeepEqual(perMed["amoxicillin"], []string{"penicillin"}) {
		t.Errorf("amoxicillin: got %v", perMed["amoxicillin"])
	}
	if _, ok := perMed["metformin"]; ok {
		t.Error("metformin should not match")
	}
}

func TestAllergyCheck_NoAllergies(t *testing.T) {
	if got := AllergyCheck([]string{"aspirin"}, normalize.Parse("")); len(got) != 0 {
		t.Fatalf("expected none, got %v", got)
	}
}

func TestConditionConflicts_Order(t *testing.T) {
	got := ConditionConflicts([]string{"naproxen", "prednisone", "ibuprofen"}, normalize.Parse("Diabetes, hypertension, eczema"))
	want := []ConditionConflict{
		{Medication: "prednisone", Condition: "diabetes", Reason: "Corticosteroids can elevate blood sugar."},
		{Medication: "naproxen", Condition: "hypertension", Reason: "NSAIDs can raise blood pressure."},
		{Medication: "prednisone", Condition: "hypertension", Reason: "Corticosteroids can cause fluid retention and elevate BP."},
		{Medication: "ibuprofen", Condition: "hypertension", Reason: "NSAIDs can raise blood pressure."},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestAssess(t *testing.T) {
	conflict := ConditionConflict{}
	freq := HighFrequency{}
	tests := []struct {
		name      string
		allergy   []AllergyWarning
		conflicts []ConditionConflict
		freq      []HighFrequency
		dups      []string
		want      RiskLevel
	}{
		{"safe", nil, nil, nil, nil, RiskSafe},
		{"one duplicate", nil, nil, nil, []string{"a"}, RiskLow},
		{"two points", nil, nil, []HighFrequency{freq}, nil, RiskLow},
		{"three points", nil, []ConditionConflict{conflict}, nil, nil, RiskModerate},
		{"five points", nil, []ConditionConflict{conflict}, []HighFrequency{freq}, nil, RiskModerate},
		{"six points", nil, []ConditionConflict{conflict, conflict}, nil, nil, RiskHigh},
		{"allergy wins", []AllergyWarning{{}}, nil, nil, nil, RiskCritical},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rec := Assess(tt.allergy, tt.conflicts, tt.freq, tt.dups)
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
			if rec == "" {
				t.Error("expected a recommendation")
			}
		})
	}
}

func TestRiskLevel_Rank(t *testing.T) {
	order := []RiskLevel{RiskSafe, RiskLow, RiskModerate, RiskHigh, RiskCritical}
	for i := 1; i < len(order); i++ {
		if order[i-1].Rank() >= order[i].Rank() {
			t.Errorf("%s should rank below %s", order[i-1], order[i])
		}
	}
}

func TestEvaluate_DuplicateWithConflict(t *testing.T) {
	r := Evaluate([]string{"ibuprofen", "ibuprofen"}, normalize.Parse(""), normalize.Parse("hypertension"), nil)
	if r.RiskLevel != RiskModerate {
		t.Errorf("expected moderate, got %s", r.RiskLevel)
	}
	wantConflicts := []ConditionConflict{{Medication: "ibuprofen", Condition: "hypertension", Reason: "NSAIDs can raise blood pressure."}}
	if !reflect.DeepEqual(r.ConditionConflicts, wantConflicts) {
		t.Errorf("unexpected conflicts %v", r.ConditionConflicts)
	}
	want := []InteractionWarning{{Type: "duplicate", Detail: "Duplicate medications in list: ibuprofen"}}
	if !reflect.DeepEqual(r.InteractionWarnings, want) {
		t.Errorf("unexpected interaction warnings %v", r.InteractionWarnings)
	}
	if r.Recommendation != "Some concerns detected. Review medication list with a pharmacist." {
		t.Errorf("unexpected recommendation %q", r.Recommendation)
	}
}

func TestEvaluate_AllergyIsCritical(t *testing.T) {
	r := Evaluate([]string{"aspirin"}, normalize.Parse("nsaid"), normalize.Parse("asthma, gerd"), map[string]int{"aspirin": 10})
	if r.RiskLevel != RiskCritical {
		t.Fatalf("expected critical, got %s", r.RiskLevel)
	}
	if r.Recommendation != "STOP — allergy match detected. Do not administer without physician review." {
		t.Errorf("unexpected recommendation %q", r.Recommendation)
	}
	if len(r.InteractionWarnings) != 1 || r.InteractionWarnings[0].Detail != "aspirin taken 10 times this week." {
		t.Errorf("unexpected interaction warnings %v", r.InteractionWarnings)
	}
}
