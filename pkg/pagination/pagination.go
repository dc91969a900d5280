// Package pagination reads limit/offset query parameters and wraps a page
// of results.
package pagination

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params holds pagination parameters extracted from a request.
type Params struct {
	Limit  int
	Offset int
}

// FromContext is Bounded with DefaultLimit and MaxLimit.
func FromContext(c echo.Context) (Params, error) {
	return Bounded(c, DefaultLimit, MaxLimit)
}

// Bounded reads the limit and offset query parameters. An omitted limit is
// def. A non-integer value, a limit outside 1..max or a negative offset is
// rejected with a 400.
func Bounded(c echo.Context, def, max int) (Params, error) {
	p := Params{Limit: def}
	if err := echo.QueryParamsBinder(c).
		Int("limit", &p.Limit).
		Int("offset", &p.Offset).
		BindError(); err != nil {
		return Params{}, echo.NewHTTPError(http.StatusBadRequest, "limit and offset must be integers")
	}
	if p.Limit < 1 || p.Limit > max {
		return Params{}, echo.NewHTTPError(http.StatusBadRequest, "limit must be between 1 and "+strconv.Itoa(max))
	}
	if p.Offset < 0 {
		return Params{}, echo.NewHTTPError(http.StatusBadRequest, "offset must not be negative")
	}
	return p, nil
}

// Page is one page of a list endpoint. Data is never null.
type Page[T any] struct {
	Data    []T  `json:"data"`
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}

func NewPage[T any](items []T, total int, p Params) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Data:    items,
		Total:   total,
		Limit:   p.Limit,
		Offset:  p.Offset,
		HasMore: p.Offset+len(items) < total,
	}
}
