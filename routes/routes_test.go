package routes

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meinhoongagan/ignite-call/config"
	"github.com/meinhoongagan/ignite-call/db/dbtest"
	"github.com/meinhoongagan/ignite-call/logger"
	"github.com/meinhoongagan/ignite-call/metrics"
)

func testConfig() *config.Config {
	return &config.Config{
		Env:                "development",
		AppURL:             "http://localhost:3000",
		JWTSecret:          "test-secret",
		SessionTTL:         time.Hour,
		RateLimitPerMinute: 60,
		CORSOrigins:        "*",
	}
}

func get(t *testing.T, path string) (int, string) {
	t.Helper()
	app := NewApp(testConfig())
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestHealthEndpoints(t *testing.T) {
	dbtest.UseTestDB(t)

	status, body := get(t, "/healthz")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body)

	status, body = get(t, "/readyz")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ready", body)
}

func TestMetricsEndpoint(t *testing.T) {
	dbtest.UseTestDB(t)
	metrics.Register()

	get(t, "/healthz")
	status, body := get(t, "/metrics")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `ignite_call_http_requests_total{method="GET",route="/healthz",status="200"}`)
}

func TestUnknownRouteIsJSON(t *testing.T) {
	status, body := get(t, "/api/nothing-here")
	assert.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `{"message":"Cannot GET /api/nothing-here"}`, body)
}

func TestPanicIsLoggedAsServerError(t *testing.T) {
	var buf bytes.Buffer
	prev := logger.Log
	logger.Log = zerolog.New(&buf)
	t.Cleanup(func() { logger.Log = prev })

	app := NewApp(testConfig())
	app.Get("/boom", func(c *fiber.Ctx) error {
		panic("boom")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))
	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.Contains(t, buf.String(), `"status":500`)
	assert.Contains(t, buf.String(), `"path":"/boom"`)
}
