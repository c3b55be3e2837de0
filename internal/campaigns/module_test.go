package campaigns

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"revenue_engine_backend/internal/campaigns/transport"
	"revenue_engine_backend/internal/events"
	apphttp "revenue_engine_backend/internal/http"
	"revenue_engine_backend/internal/leads/domain"
	"revenue_engine_backend/internal/prospecting"
	"revenue_engine_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bostonEngineResponse = `{
	"status": "success",
	"data": {
		"leads": [
			{"company_name": "Aster Health", "website": "a.com"},
			{"company_name": "Beacon Bio", "website": "b.com"}
		],
		"reports": [
			{
				"company_name": "Aster Health",
				"website": "a.com",
				"context": "Series A, Boston",
				"deep_dive": {"summary": "Care coordination platform", "technologies": ["Go", "React"], "key_personnel": ["Dana Lee (CEO)"]},
				"confidence_score": 0.82
			},
			{
				"company_name": "Beacon Bio",
				"website": "b.com",
				"context": "Series A, Cambridge",
				"deep_dive": {"raw_content_preview": "Beacon builds lab automation"}
			}
		],
		"errors": []
	}
}`

func newEngine(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Method != http.MethodPost || r.URL.Path != "/prospect" {
			http.NotFound(w, r)
			return
		}
		body, _ := io.ReadAll(r.Body)
		var req map[string]string
		if err := json.Unmarshal(body, &req); err != nil || req["icp"] == "" {
			http.Error(w, `{"detail":"icp required"}`, http.StatusUnprocessableEntity)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, bostonEngineResponse)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newCampaignRouter(t *testing.T, engineURL string, store *memoryStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.Discard()
	bus := events.NewInMemoryBus(log)
	orchestrator := NewOrchestrator(prospecting.New(engineURL, log), store, bus, log)
	module := NewModule(orchestrator, nil)
	assert.Equal(t, "campaigns", module.Name())

	r := gin.New()
	module.RegisterRoutes(&apphttp.RouterContext{Engine: r, API: r.Group("/api")})
	return r
}

func startCampaign(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/agents/start-campaign", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestBostonCampaignEndToEnd(t *testing.T) {
	var calls atomic.Int32
	engine := newEngine(t, &calls)
	store := newMemoryStore()
	r := newCampaignRouter(t, engine.URL, store)

	body := `{"icp":"Series A Healthcare Startups in Boston"}`
	for round := 1; round <= 2; round++ {
		rec := startCampaign(t, r, body)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp transport.CampaignResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "success", resp.Status)
		assert.Len(t, resp.Data.Leads, 2)
		assert.Len(t, resp.Data.Reports, 2)
		assert.Empty(t, resp.Data.Errors)

		stored := store.all()
		require.Len(t, stored, 2, "round %d", round)
		for _, lead := range stored {
			assert.Equal(t, string(domain.StatusResearching), lead.Status)
			assert.Equal(t, domain.SourceAIAgent, lead.Source)
		}
	}
	assert.Equal(t, int32(2), calls.Load())
}

func TestStartCampaignEmptyICPNeverReachesEngine(t *testing.T) {
	var calls atomic.Int32
	engine := newEngine(t, &calls)
	r := newCampaignRouter(t, engine.URL, newMemoryStore())

	rec := startCampaign(t, r, `{"icp":""}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"ICP description is required"}`, rec.Body.String())
	assert.Zero(t, calls.Load())
}

func TestStartCampaignEngineDownIs500(t *testing.T) {
	engine := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	t.Cleanup(engine.Close)
	store := newMemoryStore()
	r := newCampaignRouter(t, engine.URL, store)

	rec := startCampaign(t, r, `{"icp":"fintech in London"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to start agent workflow"}`, rec.Body.String())
	assert.Empty(t, store.all())
}
