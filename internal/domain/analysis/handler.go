package analysis

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/healthintel/healthintel/pkg/apperrors"
)

type Handler struct {
	engine *Engine
}

func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/symptoms/analyze", h.AnalyzeSymptoms)
	api.POST("/lab/analyze", h.AnalyzeLab)
	api.POST("/drug/check", h.CheckDrugs)
	api.POST("/mental/analyze", h.AnalyzeMental)
	api.POST("/nutrition/lookup", h.LookupFood)
	api.GET("/regions/:region/alerts", h.RegionalAlerts)
}

type symptomsRequest struct {
	Symptoms  []string `json:"symptoms"`
	UserQuery string   `json:"user_query"`
}

func (h *Handler) AnalyzeSymptoms(c echo.Context) error {
	var req symptomsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if len(req.Symptoms) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "symptoms are required")
	}
	return c.JSON(http.StatusOK, h.engine.Health(c.Request().Context(), req.Symptoms, req.UserQuery))
}

// AnalyzeLab accepts a JSON body {"lab_values": {...}}, or a multipart
// form with either a two column test,value CSV file or a lab_values field
// holding JSON.
func (h *Handler) AnalyzeLab(c echo.Context) error {
	values, err := labValues(c)
	if err != nil {
		return err
	}
	report, err := h.engine.Lab(values)
	if err != nil {
		return apperrors.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, report)
}

func labValues(c echo.Context) (map[string]float64, error) {
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		if fh, err := c.FormFile("file"); err == nil {
			f, err := fh.Open()
			if err != nil {
				return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid CSV file")
			}
			defer f.Close()
			values, err := ParseLabCSV(f)
			if err != nil {
				return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid CSV file")
			}
			return values, nil
		}
		raw := c.FormValue("lab_values")
		if raw == "" {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "Provide lab_values form field or upload a CSV file")
		}
		var values map[string]float64
		if err := json.Unmarshal([]byte(raw), &values); err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid lab_values JSON")
		}
		return values, nil
	}

	var req struct {
		LabValues map[string]float64 `json:"lab_values"`
	}
	if err := c.Bind(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid lab_values JSON")
	}
	if req.LabValues == nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Provide lab_values form field or upload a CSV file")
	}
	return req.LabValues, nil
}

// ParseLabCSV reads test,value rows. Rows without a numeric value are
// skipped.
func ParseLabCSV(r io.Reader) (map[string]float64, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	values := map[string]float64{}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return values, nil
		}
		if err != nil {
			return nil, err
		}
		if len(row) < 2 {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			continue
		}
		values[strings.TrimSpace(row[0])] = v
	}
}

func (h *Handler) CheckDrugs(c echo.Context) error {
	var req struct {
		Medications []string `json:"medications"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, h.engine.Drugs(req.Medications))
}

func (h *Handler) AnalyzeMental(c echo.Context) error {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(req.Text) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "text is required")
	}
	return c.JSON(http.StatusOK, h.engine.Mental(c.Request().Context(), req.Text))
}

func (h *Handler) LookupFood(c echo.Context) error {
	var req struct {
		Food string `json:"food"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(req.Food) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "food is required")
	}
	facts, err := h.engine.Food(req.Food)
	if err != nil {
		return apperrors.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, facts)
}

func (h *Handler) RegionalAlerts(c echo.Context) error {
	return c.JSON(http.StatusOK, h.engine.RegionalAlerts(c.Request().Context(), c.Param("region")))
}
