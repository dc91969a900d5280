package healthlog

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/healthintel/healthintel/internal/platform/auth"
	"github.com/healthintel/healthintel/pkg/apperrors"
	"github.com/healthintel/healthintel/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/symptoms/log", h.LogSymptoms)
	api.POST("/nutrition/log", h.LogNutrition)
	api.POST("/medication/log", h.LogMedication)
	api.POST("/lab/reports", h.LogLabReport)

	owner := auth.RequireSelfOrRole("id", auth.RoleClinician)
	api.GET("/users/:id/symptoms", h.ListSymptoms, owner)
	api.GET("/users/:id/nutrition", h.ListNutrition, owner)
	api.GET("/users/:id/medications", h.ListMedications, owner)
	api.GET("/users/:id/lab-reports", h.ListLabReports, owner)
}

// resolveUser defaults an omitted user_id to the caller and rejects writes
// to another user's log unless the caller is a clinician.
func resolveUser(c echo.Context, userID *uuid.UUID) error {
	if *userID == uuid.Nil {
		uid, err := auth.CurrentUser(c.Request().Context())
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
		}
		*userID = uid
		return nil
	}
	if !auth.CanAccessUser(c, *userID, auth.RoleClinician) {
		return echo.NewHTTPError(http.StatusForbidden, "cannot write another user's log")
	}
	return nil
}

func (h *Handler) LogSymptoms(c echo.Context) error {
	var e SymptomEntry
	if err := c.Bind(&e); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := resolveUser(c, &e.UserID); err != nil {
		return err
	}
	if err := h.svc.LogSymptoms(c.Request().Context(), &e); err != nil {
		return apperrors.ToHTTP(err)
	}
	return c.JSON(http.StatusCreated, e)
}

func (h *Handler) LogNutrition(c echo.Context) error {
	var e NutritionEntry
	if err := c.Bind(&e); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := resolveUser(c, &e.UserID); err != nil {
		return err
	}
	if err := h.svc.LogNutrition(c.Request().Context(), &e); err != nil {
		return apperrors.ToHTTP(err)
	}
	return c.JSON(http.StatusCreated, e)
}

func (h *Handler) LogMedication(c echo.Context) error {
	var e MedicationEntry
	if err := c.Bind(&e); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := resolveUser(c, &e.UserID); err != nil {
		return err
	}
	if err := h.svc.LogMedication(c.Request().Context(), &e); err != nil {
		return apperrors.ToHTTP(err)
	}
	return c.JSON(http.StatusCreated, e)
}

func (h *Handler) LogLabReport(c echo.Context) error {
	var e LabReportEntry
	if err := c.Bind(&e); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := resolveUser(c, &e.UserID); err != nil {
		return err
	}
	if err := h.svc.LogLabReport(c.Request().Context(), &e); err != nil {
		return apperrors.ToHTTP(err)
	}
	return c.JSON(http.StatusCreated, e)
}

func pathUser(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	return id, nil
}

func (h *Handler) ListSymptoms(c echo.Context) error {
	id, err := pathUser(c)
	if err != nil {
		return err
	}
	pg, err := pagination.FromContext(c)
	if err != nil {
		return err
	}
	items, total, err := h.svc.ListSymptoms(c.Request().Context(), id, pg.Limit, pg.Offset)
	if err != nil {
		return apperrors.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, pagination.NewPage(items, total, pg))
}

func (h *Handler) ListNutrition(c echo.Context) error {
	id, err := pathUser(c)
	if err != nil {
		return err
	}
	pg, err := pagination.FromContext(c)
	if err != nil {
		return err
	}
	items, total, err := h.svc.ListNutrition(c.Request().Context(), id, pg.Limit, pg.Offset)
	if err != nil {
		return apperrors.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, pagination.NewPage(items, total, pg))
}

func (h *Handler) ListMedications(c echo.Context) error {
	id, err := pathUser(c)
	if err != nil {
		return err
	}
	pg, err := pagination.FromContext(c)
	if err != nil {
		return err
	}
	items, total, err := h.svc.ListMedications(c.Request().Context(), id, pg.Limit, pg.Offset)
	if err != nil {
		return apperrors.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, pagination.NewPage(items, total, pg))
}

func (h *Handler) ListLabReports(c echo.Context) error {
	id, err := pathUser(c)
	if err != nil {
		return err
	}
	pg, err := pagination.FromContext(c)
	if err != nil {
		return err
	}
	items, total, err := h.svc.ListLabReports(c.Request().Context(), id, pg.Limit, pg.Offset)
	if err != nil {
		return apperrors.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, pagination.NewPage(items, total, pg))
}
