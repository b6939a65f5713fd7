package middleware

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestCORS(t *testing.T) {
	e := echo.New()
	e.Use(CORS(regexp.MustCompile(`^https?://localhost(:\d+)?$`)))
	e.Any("/products", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/products", nil)
		req.Header.Set(echo.HeaderOrigin, "http://localhost:19006")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, "http://localhost:19006", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
		assert.Equal(t, "ok", rec.Body.String())
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/products", nil)
		req.Header.Set(echo.HeaderOrigin, "http://localhost")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Contains(t, rec.Header().Get(echo.HeaderAccessControlAllowHeaders), "Authorization")
	})

	t.Run("foreign origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/products", nil)
		req.Header.Set(echo.HeaderOrigin, "https://evil.example")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Empty(t, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
