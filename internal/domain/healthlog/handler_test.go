package healthlog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/healthintel/healthintel/internal/platform/auth"
)

func newTestHandler() (*Handler, *MemoryRepository, uuid.UUID, *echo.Echo) {
	svc, repo, uid := newTestService()
	return NewHandler(svc), repo, uid, echo.New()
}

func postAs(e *echo.Echo, body string, uid uuid.UUID, roles ...string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req = req.WithContext(auth.WithUser(context.Background(), uid, roles))
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHandler_LogMedication_DefaultsToCaller(t *testing.T) {
	h, repo, uid, e := newTestHandler()
	c, rec := postAs(e, `{"medication_name":"Ibuprofen"}`, uid, auth.RoleUser)

	if err := h.LogMedication(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if repo.medications[0].UserID != uid {
		t.Errorf("expected entry for caller")
	}
	var got map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["medication_name"] != "Ibuprofen" {
		t.Errorf("unexpected body %v", got)
	}
}

func TestHandler_LogSymptoms_OtherUserForbidden(t *testing.T) {
	h, _, uid, e := newTestHandler()
	body := `{"user_id":"` + uid.String() + `","symptoms":["fever"]}`
	c, _ := postAs(e, body, uuid.New(), auth.RoleUser)

	err := h.LogSymptoms(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", err)
	}
}

func TestHandler_LogSymptoms_ClinicianForPatient(t *testing.T) {
	h, repo, uid, e := newTestHandler()
	body := `{"user_id":"` + uid.String() + `","symptoms":["fever","cough"]}`
	c, rec := postAs(e, body, uuid.New(), auth.RoleClinician)

	if err := h.LogSymptoms(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated || len(repo.symptoms) != 1 {
		t.Fatalf("expected stored entry, got status %d", rec.Code)
	}
}

func TestHandler_LogNutrition_NotFound(t *testing.T) {
	h, _, _, e := newTestHandler()
	c, _ := postAs(e, `{"food_name":"rice","calories":200}`, uuid.New(), auth.RoleUser)

	err := h.LogNutrition(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestHandler_ListLabReports(t *testing.T) {
	h, _, uid, e := newTestHandler()
	c, _ := postAs(e, `{"report_name":"Lipid panel"}`, uid, auth.RoleUser)
	if err := h.LogLabReport(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/?limit=10", nil)
	rec := httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uid.String())
	if err := h.ListLabReports(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["total"] != float64(1) {
		t.Errorf("expected total 1, got %v", got["total"])
	}
}

func TestHandler_ListSymptoms_InvalidID(t *testing.T) {
	h, _, _, e := newTestHandler()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("nope")

	err := h.ListSymptoms(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestHandler_ListSymptoms_RejectsBadLimit(t *testing.T) {
	h, _, uid, e := newTestHandler()
	for _, q := range []string{"/?limit=abc", "/?limit=0", "/?limit=1000", "/?offset=-1"} {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, q, nil), httptest.NewRecorder())
		c.SetParamNames("id")
		c.SetParamValues(uid.String())

		err := h.ListSymptoms(c)
		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %v", q, err)
		}
	}
}
