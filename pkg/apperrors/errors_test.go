package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NotFound("user %s not found", "x")))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(Validation("medications are required")))
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(Unavailable("sidecar down", errors.New("dial"))))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
}

func TestTypeOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("get profile: %w", NotFound("user not found"))
	assert.True(t, IsNotFound(err))
	assert.Equal(t, TypeNotFound, TypeOf(err))
	assert.False(t, IsNotFound(nil))
}

func TestAppError_Error(t *testing.T) {
	e := Internal("query failed", errors.New("conn reset"))
	assert.Equal(t, "INTERNAL: query failed: conn reset", e.Error())
	assert.Equal(t, "NOT_FOUND: missing", NotFound("missing").Error())
	assert.ErrorIs(t, e, e.Err)
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "user not found", PublicMessage(NotFound("user not found")))
	assert.Equal(t, "internal error", PublicMessage(Internal("secret detail", nil)))
	assert.Equal(t, "internal error", PublicMessage(errors.New("raw")))
}

func TestToHTTP(t *testing.T) {
	assert.NoError(t, ToHTTP(nil))

	cause := fmt.Errorf("safety check: %w", NotFound("user %d not found", 7))
	err := ToHTTP(cause)
	he, ok := err.(*echo.HTTPError)
	if assert.True(t, ok) {
		assert.Equal(t, http.StatusNotFound, he.Code)
		assert.Equal(t, "user 7 not found", he.Message)
		assert.ErrorIs(t, he.Internal, cause)
	}
}
