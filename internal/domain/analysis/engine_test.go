package analysis

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/healthintel/healthintel/internal/platform/cache"
	"github.com/healthintel/healthintel/internal/platform/inference"
	"github.com/healthintel/healthintel/pkg/apperrors"
)

var fixtures = map[string]string{
	SeverityFile: "Symptom,weight\nitching,1\nskin_rash,3\nhigh_fever,7\nchest_pain,7\n",
	RangesFile:   "Test,Min,Max\nHemoglobin,13.5,17.5\nGlucose,70,100\nWBC,4,11\nPlatelets,150,450\n",
	DrugPairsFile: "drug1,drug2,interaction,severity\n" +
		"Warfarin,Aspirin,Increased bleeding risk,Major\n" +
		"aspirin,warfarin,duplicate row,Minor\n" +
		"Lisinopril,Potassium,Hyperkalemia,\n",
	FoodsFile: "food,calories,protein,carbohydrates,fat\nApple,52,0.3,14,0.2\nRice,130,2.7,28,0.3\n",
	CasesFile: "State,Year,Disease,Cases\n" +
		"Kerala,2021,Dengue,4000\n" +
		"Kerala,2022,Dengue,12000\n" +
		"Kerala,2022,Malaria,800\n" +
		"Goa,2022,Dengue,3001\n",
	DescriptionsFile: "Disease,Description\nFungal infection,A skin infection caused by fungi.\n",
	PrecautionsFile:  "Disease,Precaution_1,Precaution_2,Precaution_3\nFungal infection,bath twice,use detol or neem in bathing water,\n",
}

func writeFixtures(t *testing.T, skip ...string) string {
	t.Helper()
	dir := t.TempDir()
	skipped := map[string]bool{}
	for _, s := range skip {
		skipped[s] = true
	}
	for name, body := range fixtures {
		if skipped[name] {
			continue
		}
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func newTestEngine(t *testing.T, models Models, skip ...string) *Engine {
	return NewEngine(NewDatasets(writeFixtures(t, skip...)), models, cache.NewMemory(), time.Minute, zerolog.Nop())
}

type stubTriage struct {
	res inference.Result[string]
}

func (s stubTriage) PredictDisease(context.Context, []string) inference.Result[string] { return s.res }

type stubEmotions struct {
	res inference.Result[inference.Emotion]
}

func (s stubEmotions) Classify(context.Context, string) inference.Result[inference.Emotion] {
	return s.res
}

type stubQA struct {
	res inference.Result[inference.Answer]
}

func (s stubQA) Answer(context.Context, string) inference.Result[inference.Answer] { return s.res }

func TestSeverity(t *testing.T) {
	e := newTestEngine(t, Models{})
	tests := []struct {
		symptoms []string
		score    int
		level    string
	}{
		{[]string{"itching", "unknown"}, 1, TriageMild},
		{[]string{" Skin_Rash ", "itching", "itching"}, 5, TriageMild},
		{[]string{"high_fever", "itching"}, 8, TriageModerate},
		{[]string{"high_fever", "chest_pain"}, 14, TriageHigh},
	}
	for _, tt := range tests {
		got, err := e.Severity(tt.symptoms)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.TotalScore != tt.score || got.TriageLevel != tt.level {
			t.Errorf("%v: expected %d %s, got %+v", tt.symptoms, tt.score, tt.level, got)
		}
	}
}

func TestSeverity_MissingData(t *testing.T) {
	e := newTestEngine(t, Models{}, SeverityFile)
	if _, err := e.Severity([]string{"itching"}); apperrors.TypeOf(err) != apperrors.TypeUnavailable {
		t.Errorf("expected unavailable, got %v", err)
	}
}

func TestLab(t *testing.T) {
	e := newTestEngine(t, Models{})

	r, err := e.Lab(map[string]float64{"Hemoglobin": 14, "Unknown": 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Summary != "All values normal" || len(r.DetailedResults) != 1 {
		t.Errorf("unexpected report %+v", r)
	}

	r, _ = e.Lab(map[string]float64{"Hemoglobin": 12, "Glucose": 150})
	if r.Summary != "Mild abnormalities" || r.DetailedResults["Hemoglobin"].Status != LabLow || r.DetailedResults["Glucose"].Status != LabHigh {
		t.Errorf("unexpected report %+v", r)
	}
	if r.DetailedResults["Glucose"].ReferenceRange != (Range{Min: 70, Max: 100}) {
		t.Errorf("unexpected range %+v", r.DetailedResults["Glucose"].ReferenceRange)
	}

	r, _ = e.Lab(map[string]float64{"Hemoglobin": 12, "Glucose": 150, "WBC": 20, "Platelets": 300})
	if r.Summary != "Multiple abnormalities – consult doctor" {
		t.Errorf("unexpected summary %q", r.Summary)
	}
}

func TestDrugs(t *testing.T) {
	e := newTestEngine(t, Models{})

	r := e.Drugs([]string{"Aspirin", "Warfarin", "Lisinopril", "potassium"})
	if r.Status != DrugInteractionsHit || len(r.Details) != 2 {
		t.Fatalf("unexpected report %+v", r)
	}
	first := r.Details[0]
	if first.Drug1 != "aspirin" || first.Drug2 != "warfarin" || first.Interaction != "Increased bleeding risk" || first.Severity != "Major" {
		t.Errorf("expected first matching row, got %+v", first)
	}
	if r.Details[1].Severity != "Unknown" {
		t.Errorf("expected default severity, got %q", r.Details[1].Severity)
	}

	if r := e.Drugs([]string{"apple"}); r.Status != DrugNoInteractions || len(r.Details) != 0 {
		t.Errorf("unexpected report %+v", r)
	}

	missing := newTestEngine(t, Models{}, DrugPairsFile)
	if r := missing.Drugs([]string{"aspirin", "warfarin"}); r.Status != DrugDataMissing {
		t.Errorf("unexpected status %q", r.Status)
	}
}

func TestMental(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, Models{Emotions: stubEmotions{inference.OK(inference.Emotion{Label: "fear", Confidence: 0.8})}})
	if got := e.Mental(ctx, "scared"); got.Emotion != "fear" || got.SeverityLevel != "High" || got.Confidence != 0.8 {
		t.Errorf("unexpected state %+v", got)
	}

	for _, models := range []Models{
		{},
		{Emotions: stubEmotions{inference.Unavailable[inference.Emotion]()}},
		{Emotions: stubEmotions{inference.Transient[inference.Emotion](errors.New("timeout"))}},
	} {
		got := newTestEngine(t, models).Mental(ctx, "hi")
		if got.Emotion != "Unknown (Model missing)" || got.Confidence != 0 || got.SeverityLevel != "Low" {
			t.Errorf("unexpected placeholder %+v", got)
		}
	}
}

func TestEmotionSeverity(t *testing.T) {
	for label, want := range map[string]string{"sadness": "High", "depression": "High", "fear": "High", "anger": "Moderate", "joy": "Low"} {
		if got := EmotionSeverity(label); got != want {
			t.Errorf("%s: expected %s, got %s", label, want, got)
		}
	}
}

func TestFood(t *testing.T) {
	e := newTestEngine(t, Models{})
	f, err := e.Food("APPLE")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Calories != 52 || f.Carbs != 14 {
		t.Errorf("unexpected facts %+v", f)
	}
	if _, err := e.Food("pizza"); !apperrors.IsNotFound(err) || apperrors.PublicMessage(err) != "Food not found" {
		t.Errorf("expected not found, got %v", err)
	}
	_, err = newTestEngine(t, Models{}, FoodsFile).Food("apple")
	if apperrors.PublicMessage(err) != "Food database unavailable" {
		t.Errorf("expected unavailable, got %v", err)
	}
}

func TestRegionalAlerts(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, Models{})

	r := e.RegionalAlerts(ctx, "kerala")
	if r.Status != RegionRetrieved || r.Region != "kerala" || len(r.Alerts) != 2 {
		t.Fatalf("unexpected report %+v", r)
	}
	if r.Alerts[0].Year != 2022 || r.Alerts[0].RiskLevel != "High" || r.Alerts[1].RiskLevel != "Low" {
		t.Errorf("unexpected alerts %+v", r.Alerts)
	}
	if r := e.RegionalAlerts(ctx, "Goa"); r.Alerts[0].RiskLevel != "Moderate" {
		t.Errorf("unexpected alerts %+v", r.Alerts)
	}

	r = e.RegionalAlerts(ctx, "Atlantis")
	if r.Status != RegionNoData || r.Alerts == nil || len(r.Alerts) != 0 {
		t.Errorf("unexpected report %+v", r)
	}

	r = newTestEngine(t, Models{}, CasesFile).RegionalAlerts(ctx, "Kerala")
	if r.Status != RegionDataUnavailable || len(r.Alerts) != 0 {
		t.Errorf("unexpected report %+v", r)
	}
}

func TestRegionalAlerts_Cached(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemory()
	e := NewEngine(NewDatasets(writeFixtures(t)), Models{}, c, time.Minute, zerolog.Nop())
	_ = e.RegionalAlerts(ctx, "Kerala")

	var cached RegionalReport
	if ok, err := c.Get(ctx, "regional:kerala", &cached); err != nil || !ok {
		t.Fatalf("expected cached report, got %v %v", ok, err)
	}
	if cached.Status != RegionRetrieved || len(cached.Alerts) != 2 {
		t.Errorf("unexpected cached report %+v", cached)
	}
}

func TestHealth(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, Models{
		Triage: stubTriage{inference.OK("Fungal infection")},
		QA:     stubQA{inference.OK(inference.Answer{Answer: "See a dermatologist.", Confidence: 0.7})},
	})
	r := e.Health(ctx, []string{"itching", "skin_rash"}, "what is this rash")
	if r.PredictedDisease != "Fungal infection" || r.Description != "A skin infection caused by fungi." {
		t.Errorf("unexpected report %+v", r)
	}
	if len(r.Precautions) != 2 || r.Precautions[1] != "use detol or neem in bathing water" {
		t.Errorf("unexpected precautions %v", r.Precautions)
	}
	if r.Severity == nil || r.Severity.TotalScore != 4 {
		t.Errorf("unexpected severity %+v", r.Severity)
	}
	if r.ChatbotResponse == nil || r.ChatbotResponse.Answer != "See a dermatologist." {
		t.Errorf("unexpected chatbot response %+v", r.ChatbotResponse)
	}
}

func TestHealth_NoModels(t *testing.T) {
	r := newTestEngine(t, Models{}).Health(context.Background(), []string{"itching"}, "help")
	if r.PredictedDisease != "Unknown (Model unavailable)" || r.Description != "No description available." || len(r.Precautions) != 0 {
		t.Errorf("unexpected report %+v", r)
	}
	if r.ChatbotResponse == nil || r.ChatbotResponse.Answer != "Medical knowledge base unavailable." || r.ChatbotResponse.Confidence != 0 {
		t.Errorf("unexpected chatbot response %+v", r.ChatbotResponse)
	}

	r = newTestEngine(t, Models{}).Health(context.Background(), []string{"itching"}, "")
	if r.ChatbotResponse != nil {
		t.Errorf("expected no chatbot response without a query")
	}
}

func TestEnrich(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, Models{Triage: stubTriage{inference.OK("Fungal infection")}})
	disease, triage := e.Enrich(ctx, []string{"high_fever", "chest_pain"})
	if disease == nil || *disease != "Fungal infection" || triage == nil || *triage != TriageHigh {
		t.Errorf("unexpected enrichment %v %v", disease, triage)
	}

	e = newTestEngine(t, Models{Triage: stubTriage{inference.Unavailable[string]()}}, SeverityFile)
	disease, triage = e.Enrich(ctx, []string{"itching"})
	if disease != nil || triage != nil {
		t.Errorf("expected no enrichment, got %v %v", disease, triage)
	}
}

func TestDatasets_Check(t *testing.T) {
	d := NewDatasets(writeFixtures(t, FoodsFile))
	for _, s := range d.Check() {
		if s.File == FoodsFile {
			if s.Err == nil {
				t.Errorf("expected error for missing %s", s.File)
			}
			continue
		}
		if s.Err != nil || s.Rows == 0 {
			t.Errorf("%s: unexpected status %+v", s.File, s)
		}
	}
}
