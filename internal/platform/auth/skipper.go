package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// publicPaths lists route paths that bypass authentication.
var publicPaths = map[string]bool{
	"/health":    true,
	"/health/db": true,
}

// AuthSkipper returns true for public probes and CORS preflight requests,
// which browsers send without credentials.
func AuthSkipper(c echo.Context) bool {
	return c.Request().Method == http.MethodOptions || publicPaths[c.Path()]
}

// IsPublicPath reports whether path is a public infrastructure endpoint.
func IsPublicPath(path string) bool {
	return publicPaths[path]
}
