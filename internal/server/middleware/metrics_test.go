package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeRequest(e *echo.Echo, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestMetrics(t *testing.T) {
	metrics, err := registerHTTPMetrics(DefaultMetricsConfig)
	require.NoError(t, err)
	metrics.Reset()

	e := echo.New()
	e.Use(Metrics())
	e.GET("/test", func(c echo.Context) error {
		return c.String(http.StatusOK, "test")
	})
	e.GET("/test_echo_error", func(c echo.Context) error {
		return c.String(http.StatusInternalServerError, "test")
	})
	e.GET("/test_user_error/:id", func(c echo.Context) error {
		return fmt.Errorf("internal user error")
	})

	for i := 0; i < 10; i++ {
		makeRequest(e, http.MethodGet, "/test")
		makeRequest(e, http.MethodGet, "/test_echo_error")
	}
	for i := 0; i < 4; i++ {
		makeRequest(e, http.MethodGet, fmt.Sprintf("/test_user_error/%d", i))
	}
	for i := 0; i < 3; i++ {
		makeRequest(e, http.MethodGet, fmt.Sprintf("/random/%d", i))
	}
	makeRequest(e, http.MethodPost, "/test_post_notfound")

	rec := makeRequest(e, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	for _, want := range []string{
		`http_request_duration_seconds_count{code="200",method="GET",path="/test"} 10`,
		`http_request_duration_seconds_count{code="500",method="GET",path="/test_echo_error"} 10`,
		`http_request_duration_seconds_count{code="500",method="GET",path="/test_user_error/:id"} 4`,
		`http_request_duration_seconds_count{code="404",method="GET",path="/not-found"} 3`,
		`http_request_duration_seconds_count{code="404",method="POST",path="/not-found"} 1`,
	} {
		assert.True(t, strings.Contains(body, want), "missing %s", want)
	}
}

func TestNormalizeHTTPStatus(t *testing.T) {
	assert.Equal(t, "1xx", normalizeHTTPStatus(101))
	assert.Equal(t, "2xx", normalizeHTTPStatus(204))
	assert.Equal(t, "3xx", normalizeHTTPStatus(304))
	assert.Equal(t, "4xx", normalizeHTTPStatus(404))
	assert.Equal(t, "5xx", normalizeHTTPStatus(503))
}
