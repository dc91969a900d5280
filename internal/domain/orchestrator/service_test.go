package orchestrator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/healthintel/healthintel/internal/domain/analysis"
	"github.com/healthintel/healthintel/pkg/apperrors"
)

type stubEngines struct {
	mu          sync.Mutex
	seen        map[string]string
	panicLab    bool
	panicRegion bool
	foodErr     error
}

func (s *stubEngines) record(key, v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seen == nil {
		s.seen = map[string]string{}
	}
	s.seen[key] = v
}

func (s *stubEngines) Health(_ context.Context, symptoms []string, q string) *analysis.HealthReport {
	s.record("symptoms", strings.Join(symptoms, ","))
	s.record("query", q)
	return &analysis.HealthReport{
		PredictedDisease: "Flu",
		Severity:         &analysis.Severity{TotalScore: 8, TriageLevel: analysis.TriageModerate},
		Description:      "A viral infection.",
		Precautions:      []string{"rest"},
	}
}

func (s *stubEngines) Lab(map[string]float64) (*analysis.LabReport, error) {
	if s.panicLab {
		panic("ranges corrupted")
	}
	return &analysis.LabReport{DetailedResults: map[string]analysis.LabResult{}, Summary: "All values normal"}, nil
}

func (s *stubEngines) Drugs(meds []string) *analysis.DrugReport {
	return &analysis.DrugReport{Status: analysis.DrugNoInteractions, Details: []analysis.DrugInteraction{}}
}

func (s *stubEngines) Mental(_ context.Context, text string) *analysis.MentalState {
	s.record("mental", text)
	return &analysis.MentalState{Emotion: "joy", Confidence: 0.9, SeverityLevel: "Low"}
}

func (s *stubEngines) Food(name string) (*analysis.FoodFacts, error) {
	s.record("food", name)
	if s.foodErr != nil {
		return nil, s.foodErr
	}
	return &analysis.FoodFacts{Calories: 52}, nil
}

func (s *stubEngines) RegionalAlerts(_ context.Context, region string) *analysis.RegionalReport {
	if s.panicRegion {
		panic("redis exploded")
	}
	return &analysis.RegionalReport{Status: analysis.RegionNoData, Alerts: []analysis.RegionalAlert{}}
}

// tagTranslator marks every translation with its target language.
type tagTranslator struct {
	mu    sync.Mutex
	calls int
}

func (t *tagTranslator) Translate(_ context.Context, text, _, target string) string {
	t.mu.Lock()
	t.calls++
	t.mu.Unlock()
	return "[" + target + "]" + text
}

func TestAnalyze_OnlyPresentFields(t *testing.T) {
	svc := NewService(&stubEngines{}, nil, zerolog.Nop())
	resp := svc.Analyze(context.Background(), Request{Medications: []string{"aspirin"}, Food: "apple"})
	if len(resp) != 2 {
		t.Fatalf("expected 2 keys, got %v", resp)
	}
	if _, ok := resp[KeyDrugs]; !ok {
		t.Errorf("missing %s", KeyDrugs)
	}
	if _, ok := resp[KeyNutrition]; !ok {
		t.Errorf("missing %s", KeyNutrition)
	}

	if resp := svc.Analyze(context.Background(), Request{}); len(resp) != 0 {
		t.Errorf("expected empty response, got %v", resp)
	}
}

func TestAnalyze_IsolatesFailures(t *testing.T) {
	engines := &stubEngines{panicLab: true, panicRegion: true, foodErr: apperrors.NotFound("Food not found")}
	svc := NewService(engines, nil, zerolog.Nop())
	resp := svc.Analyze(context.Background(), Request{
		Symptoms:   []string{"fever"},
		LabValues:  map[string]float64{"Glucose": 90},
		MentalText: "fine",
		Food:       "pizza",
		Location:   "Kerala",
	})

	if len(resp) != 5 {
		t.Fatalf("expected 5 keys, got %v", resp)
	}
	if _, ok := resp[KeySymptoms].(*analysis.HealthReport); !ok {
		t.Errorf("symptom analysis should succeed, got %T", resp[KeySymptoms])
	}
	if _, ok := resp[KeyMental].(*analysis.MentalState); !ok {
		t.Errorf("mental analysis should succeed, got %T", resp[KeyMental])
	}
	lab, ok := resp[KeyLab].(map[string]any)
	if !ok || lab["error"] != "internal error" {
		t.Errorf("expected lab placeholder, got %v", resp[KeyLab])
	}
	food, ok := resp[KeyNutrition].(map[string]any)
	if !ok || food["error"] != "Food not found" {
		t.Errorf("expected food placeholder, got %v", resp[KeyNutrition])
	}
	region, ok := resp[KeyRegional].(*analysis.RegionalReport)
	if !ok || region.Status != analysis.RegionUnavailable || region.Region != "Kerala" || region.Alerts == nil {
		t.Errorf("expected regional placeholder, got %v", resp[KeyRegional])
	}
}

func TestAnalyze_TranslatesInAndOut(t *testing.T) {
	engines := &stubEngines{}
	tr := &tagTranslator{}
	svc := NewService(engines, tr, zerolog.Nop())
	resp := svc.Analyze(context.Background(), Request{
		Symptoms:   []string{"bukhar", "khansi"},
		MentalText: "udaas",
		UserQuery:  "kya karu",
		Location:   "Kerala",
		Language:   "hi",
	})

	if engines.seen["symptoms"] != "[en]bukhar,[en]khansi" || engines.seen["mental"] != "[en]udaas" || engines.seen["query"] != "[en]kya karu" {
		t.Errorf("inputs not translated: %v", engines.seen)
	}

	health, ok := resp[KeySymptoms].(map[string]any)
	if !ok {
		t.Fatalf("expected translated fields, got %T", resp[KeySymptoms])
	}
	if health["predicted_disease"] != "[hi]Flu" || health["description"] != "[hi]A viral infection." {
		t.Errorf("top-level strings not translated: %v", health)
	}
	sev := health["severity"].(map[string]any)
	if sev["triage_level"] != analysis.TriageModerate {
		t.Errorf("nested values must stay untouched, got %v", sev)
	}
	if p := health["precautions"].([]any); p[0] != "rest" {
		t.Errorf("lists must stay untouched, got %v", p)
	}
	mental := resp[KeyMental].(map[string]any)
	if mental["emotion"] != "[hi]joy" || mental["confidence"] != 0.9 {
		t.Errorf("unexpected mental result %v", mental)
	}
}

func TestAnalyze_EnglishSkipsTranslation(t *testing.T) {
	tr := &tagTranslator{}
	svc := NewService(&stubEngines{}, tr, zerolog.Nop())
	_ = svc.Analyze(context.Background(), Request{Symptoms: []string{"fever"}, Language: "EN"})
	if tr.calls != 0 {
		t.Errorf("expected no translation calls, got %d", tr.calls)
	}
}

func TestHandler_Analyze(t *testing.T) {
	h := NewHandler(NewService(&stubEngines{}, nil, zerolog.Nop()))
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"medications":["aspirin","warfarin"]}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	if err := h.Analyze(echo.New().NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got map[string]map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got[KeyDrugs]["status"] != analysis.DrugNoInteractions {
		t.Errorf("unexpected body %v", got)
	}
}
