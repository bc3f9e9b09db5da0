package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrpayroll/internal/platform/config"
	"hrpayroll/internal/platform/metrics"
)

func testConfig() config.Config {
	return config.Config{
		Environment:        "test",
		MaxBodyBytes:       1 << 20,
		MaxUploadBytes:     10 << 20,
		RateLimitPerMinute: 1000,
		MetricsEnabled:     true,
		StandardShiftHours: 10,
		CompanyName:        "Acme Fit-Out",
	}
}

func testRouter(ready func(context.Context) error) http.Handler {
	registry := prometheus.NewRegistry()
	return NewRouter(Deps{
		Config:   testConfig(),
		Metrics:  metrics.New(registry),
		Gatherer: registry,
		Ready:    ready,
	})
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealthAndReadiness(t *testing.T) {
	h := testRouter(func(context.Context) error { return nil })
	assert.Equal(t, http.StatusOK, get(h, "/healthz").Code)
	assert.Equal(t, http.StatusOK, get(h, "/readyz").Code)

	down := testRouter(func(context.Context) error { return errors.New("connection refused") })
	assert.Equal(t, http.StatusServiceUnavailable, get(down, "/readyz").Code)
}

func TestAPIRoutesMountedWithEnvelope(t *testing.T) {
	h := testRouter(nil)

	rec := get(h, "/api/v1/employees/abc")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"invalid_id"`)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	rec = get(h, "/api/v1/payroll/import/template")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "payroll_template.xlsx")
}

func TestMetricsEndpointReportsRoutePatterns(t *testing.T) {
	h := testRouter(nil)
	get(h, "/api/v1/payroll/abc")

	rec := get(h, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `path="/api/v1/payroll/{payrollID}/"`) || strings.Contains(body, `path="/api/v1/payroll/{payrollID}"`), body)
	assert.NotContains(t, body, `path="/api/v1/payroll/abc"`)
}

func TestMetricsEndpointCanBeDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.MetricsEnabled = false
	h := NewRouter(Deps{Config: cfg, Gatherer: prometheus.NewRegistry()})
	assert.Equal(t, http.StatusNotFound, get(h, "/metrics").Code)
}
