package middleware

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// BodyLimit caps request bodies at defaultLimit. routes maps a registered
// route path, as reported by c.Path(), to its own limit so upload and
// aggregate endpoints can accept more than plain JSON calls.
//
// Limits use echo's size syntax ("1M", "512K", "4MB") and an invalid one
// panics at construction; validate configured values first.
func BodyLimit(defaultLimit string, routes map[string]string) echo.MiddlewareFunc {
	def := echomw.BodyLimit(defaultLimit)
	per := make(map[string]echo.MiddlewareFunc, len(routes))
	for path, limit := range routes {
		per[path] = echomw.BodyLimit(limit)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		fallback := def(next)
		wrapped := make(map[string]echo.HandlerFunc, len(per))
		for path, mw := range per {
			wrapped[path] = mw(next)
		}
		return func(c echo.Context) error {
			if h, ok := wrapped[c.Path()]; ok {
				return h(c)
			}
			return fallback(c)
		}
	}
}
