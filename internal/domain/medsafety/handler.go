package medsafety

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/healthintel/healthintel/internal/platform/auth"
	"github.com/healthintel/healthintel/pkg/apperrors"
	"github.com/healthintel/healthintel/pkg/normalize"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/medication/safety-check", h.SafetyCheck)
	api.POST("/medication/interactions", h.CheckInteractions)
}

type safetyRequest struct {
	UserID      uuid.UUID `json:"user_id"`
	Medications []string  `json:"medications"`
}

func (h *Handler) SafetyCheck(c echo.Context) error {
	var req safetyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.UserID == uuid.Nil {
		uid, err := auth.CurrentUser(c.Request().Context())
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
		}
		req.UserID = uid
	} else if !auth.CanAccessUser(c, req.UserID, auth.RoleClinician) {
		return echo.NewHTTPError(http.StatusForbidden, "access denied")
	}

	report, err := h.svc.SafetyCheck(c.Request().Context(), req.UserID, req.Medications)
	if err != nil {
		return apperrors.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, report)
}

type interactionRequest struct {
	Medications []string          `json:"medications"`
	Allergies   normalize.TermSet `json:"allergies"`
}

func (h *Handler) CheckInteractions(c echo.Context) error {
	var req interactionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	report, err := h.svc.CheckInteractions(c.Request().Context(), req.Medications, req.Allergies)
	if err != nil {
		return apperrors.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, report)
}
