package authmw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/product_catalog/pkg/tokens"
)

var secret = []byte("test-jwt-secret")

func newServer() *echo.Echo {
	e := echo.New()
	g := e.Group("/products", Bearer(HS256(secret)))
	g.GET("", func(c echo.Context) error {
		claims, ok := Claims(c)
		if !ok {
			return c.NoContent(http.StatusInternalServerError)
		}
		return c.JSON(http.StatusOK, echo.Map{
			"id":      claims.Subject,
			"email":   claims.Email,
			"user_id": c.Get(CtxUserID),
		})
	})
	return e
}

func do(e *echo.Echo, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestBearer_ValidToken(t *testing.T) {
	t.Parallel()

	token, err := tokens.NewAccessToken(secret, "acc-1", "pen@example.com", time.Now(), time.Hour)
	require.NoError(t, err)

	rec := do(newServer(), "Bearer "+token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"acc-1","email":"pen@example.com","user_id":"acc-1"}`, rec.Body.String())
}

func TestBearer_Rejects(t *testing.T) {
	t.Parallel()

	expired, err := tokens.NewAccessToken(secret, "acc-1", "pen@example.com", time.Now().Add(-2*time.Hour), time.Hour)
	require.NoError(t, err)
	foreign, err := tokens.NewAccessToken([]byte("other"), "acc-1", "pen@example.com", time.Now(), time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "no bearer prefix", header: foreign},
		{name: "basic scheme", header: "Basic dXNlcjpwYXNz"},
		{name: "malformed", header: "Bearer abc.def"},
		{name: "expired", header: "Bearer " + expired},
		{name: "wrong secret", header: "Bearer " + foreign},
	}

	e := newServer()
	for _, tt := range tests {
		rec := do(e, tt.header)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, tt.name)
		assert.Contains(t, rec.Body.String(), "missing or invalid bearer token", tt.name)
	}
}
