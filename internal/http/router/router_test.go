package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apphttp "revenue_engine_backend/internal/http"
	"revenue_engine_backend/platform/config"
	"revenue_engine_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCheck struct {
	name string
	err  error
}

func (f fakeCheck) Name() string                  { return f.name }
func (f fakeCheck) Check(_ context.Context) error { return f.err }

type pingModule struct{}

func (pingModule) Name() string { return "ping" }
func (pingModule) RegisterRoutes(rc *apphttp.RouterContext) {
	rc.API.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
}

func newApp(checks ...apphttp.HealthChecker) *apphttp.App {
	return &apphttp.App{
		Config: &config.Config{
			Env:         "development",
			CORSOrigins: []string{"http://localhost:3000"},
		},
		Logger:  logger.Discard(),
		Health:  checks,
		Modules: []apphttp.Module{pingModule{}},
	}
}

func TestHealthAndModules(t *testing.T) {
	engine := New(newApp())

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	assert.Equal(t, "pong", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestReadinessReportsFailingDependency(t *testing.T) {
	engine := New(newApp(fakeCheck{name: "postgres"}, fakeCheck{name: "redis", err: errors.New("dial tcp: refused")}))

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ready", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "unavailable", body.Status)
	assert.Equal(t, "ok", body.Checks["postgres"])
	assert.Contains(t, body.Checks["redis"], "refused")
}

func TestCORSAllowsDashboardOrigin(t *testing.T) {
	engine := New(newApp())

	req := httptest.NewRequest(http.MethodOptions, "/api/ping", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
