package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequireRole returns middleware that checks if the user has at least one of the specified roles.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if hasAnyRole(RolesFromContext(c.Request().Context()), roles) {
				return next(c)
			}
			return echo.NewHTTPError(http.StatusForbidden,
				fmt.Sprintf("required role: %s", strings.Join(roles, " or ")))
		}
	}
}

// RequireSelfOrRole allows the request when the path parameter param names
// the caller, or when the caller holds one of roles.
func RequireSelfOrRole(param string, roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			if hasAnyRole(RolesFromContext(ctx), roles) {
				return next(c)
			}
			target, err := uuid.Parse(c.Param(param))
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
			}
			if uid, err := CurrentUser(ctx); err == nil && uid == target {
				return next(c)
			}
			return echo.NewHTTPError(http.StatusForbidden, "access to another user's data requires elevated role")
		}
	}
}

// CanAccessUser reports whether the caller may read or write target's data.
func CanAccessUser(c echo.Context, target uuid.UUID, roles ...string) bool {
	ctx := c.Request().Context()
	if hasAnyRole(RolesFromContext(ctx), roles) {
		return true
	}
	uid, err := CurrentUser(ctx)
	return err == nil && uid == target
}

func hasAnyRole(userRoles, required []string) bool {
	for _, has := range userRoles {
		if has == RoleAdmin {
			return true
		}
		for _, r := range required {
			if has == r {
				return true
			}
		}
	}
	return false
}
