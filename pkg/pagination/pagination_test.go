package pagination

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCtx(target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestFromContext_Defaults(t *testing.T) {
	p, err := FromContext(newCtx("/"))
	require.NoError(t, err)
	assert.Equal(t, Params{Limit: DefaultLimit, Offset: 0}, p)
}

func TestFromContext_Explicit(t *testing.T) {
	p, err := FromContext(newCtx("/?limit=5&offset=40"))
	require.NoError(t, err)
	assert.Equal(t, Params{Limit: 5, Offset: 40}, p)
}

func TestBounded_CustomBounds(t *testing.T) {
	p, err := Bounded(newCtx("/?limit=200"), 50, 200)
	require.NoError(t, err)
	assert.Equal(t, 200, p.Limit)

	p, err = Bounded(newCtx("/"), 50, 200)
	require.NoError(t, err)
	assert.Equal(t, 50, p.Limit)
}

func TestFromContext_Rejects(t *testing.T) {
	for _, target := range []string{
		"/?limit=abc",
		"/?offset=1.5",
		"/?limit=0",
		"/?limit=-2",
		"/?limit=101",
		"/?offset=-3",
	} {
		_, err := FromContext(newCtx(target))
		var he *echo.HTTPError
		if assert.ErrorAs(t, err, &he, target) {
			assert.Equal(t, http.StatusBadRequest, he.Code, target)
		}
	}
}

func TestNewPage(t *testing.T) {
	page := NewPage([]string{"a", "b"}, 5, Params{Limit: 2, Offset: 2})
	assert.True(t, page.HasMore)
	assert.Equal(t, 5, page.Total)

	last := NewPage([]string{"e"}, 5, Params{Limit: 2, Offset: 4})
	assert.False(t, last.HasMore)
}

func TestNewPage_EmptyDataIsArray(t *testing.T) {
	raw, err := json.Marshal(NewPage[int](nil, 0, Params{Limit: 20}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":[],"total":0,"limit":20,"offset":0,"has_more":false}`, string(raw))
}
