package analytics

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/healthintel/healthintel/internal/platform/auth"
	"github.com/healthintel/healthintel/pkg/apperrors"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/analytics/health-score", h.HealthScore)

	owner := auth.RequireSelfOrRole("id", auth.RoleClinician)
	api.GET("/analytics/:id/symptoms", h.Symptoms, owner)
	api.GET("/analytics/:id/nutrition", h.Nutrition, owner)
	api.GET("/analytics/:id/timeline", h.Timeline, owner)
}

func userParam(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	return id, nil
}

// intQuery reads an optional integer query parameter within [lo, hi].
func intQuery(c echo.Context, name string, def, lo, hi int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < lo || v > hi {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be an integer between "+strconv.Itoa(lo)+" and "+strconv.Itoa(hi))
	}
	return v, nil
}

func (h *Handler) Symptoms(c echo.Context) error {
	id, err := userParam(c)
	if err != nil {
		return err
	}
	chart, err := h.svc.Symptoms(c.Request().Context(), id)
	if err != nil {
		return apperrors.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, chart)
}

func (h *Handler) Nutrition(c echo.Context) error {
	id, err := userParam(c)
	if err != nil {
		return err
	}
	days, err := intQuery(c, "days", DefaultNutritionDays, 1, MaxNutritionDays)
	if err != nil {
		return err
	}
	sum, err := h.svc.Nutrition(c.Request().Context(), id, days)
	if err != nil {
		return apperrors.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, sum)
}

func (h *Handler) Timeline(c echo.Context) error {
	id, err := userParam(c)
	if err != nil {
		return err
	}
	limit, err := intQuery(c, "limit", DefaultTimelineLimit, 1, MaxTimelineLimit)
	if err != nil {
		return err
	}
	events, err := h.svc.Timeline(c.Request().Context(), id, limit)
	if err != nil {
		return apperrors.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, events)
}

func (h *Handler) HealthScore(c echo.Context) error {
	var req ScoreRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	resp, err := Score(req)
	if err != nil {
		return apperrors.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, resp)
}
