package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/beat-marketplace/internal/utils"
)

const testSecret = "unit-test-secret"

func runWithAuth(t *testing.T, authHeader string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := JWTAuth(testSecret)
	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	return rec, c
}

func TestJWTAuthMissingHeader(t *testing.T) {
	rec, _ := runWithAuth(t, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthGarbageToken(t *testing.T) {
	rec, _ := runWithAuth(t, "Bearer not.a.jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthValidTokenSetsIdentity(t *testing.T) {
	at, err := utils.NewAccessToken(testSecret, 99, "artist", 5)
	require.NoError(t, err)

	rec, c := runWithAuth(t, "Bearer "+at.Token)
	assert.Equal(t, http.StatusOK, rec.Code)

	uid, ok := CurrentUserID(c)
	require.True(t, ok)
	assert.Equal(t, uint64(99), uid)
	assert.Equal(t, "artist", CurrentRole(c))
}

func TestJWTAuthWrongSecret(t *testing.T) {
	at, err := utils.NewAccessToken("another-secret", 99, "artist", 5)
	require.NoError(t, err)

	rec, _ := runWithAuth(t, "Bearer "+at.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	e := echo.New()

	call := func(role interface{}, allowed ...string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if role != nil {
			c.Set("role", role)
		}
		handler := RequireRole(allowed...)(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})
		require.NoError(t, handler(c))
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call("producer", "producer"))
	assert.Equal(t, http.StatusOK, call("artist", "producer", "artist"))
	assert.Equal(t, http.StatusForbidden, call("artist", "producer"))
	assert.Equal(t, http.StatusForbidden, call(nil, "producer"))
	assert.Equal(t, http.StatusForbidden, call(123, "producer"))
}
