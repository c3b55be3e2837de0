package campaigns

import (
	"revenue_engine_backend/internal/campaigns/handler"
	apphttp "revenue_engine_backend/internal/http"
)

// Module is the campaigns bounded context module implementing http.Module.
type Module struct {
	handler      *handler.Handler
	orchestrator *Orchestrator
}

// NewModule mounts the orchestrator behind the agent endpoints. queue is
// optional and enables the asynchronous campaign routes.
func NewModule(orchestrator *Orchestrator, queue handler.CampaignQueue) *Module {
	return &Module{
		handler:      handler.New(orchestrator, queue),
		orchestrator: orchestrator,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "campaigns"
}

// Orchestrator returns the campaign runner for workers and tools.
func (m *Module) Orchestrator() *Orchestrator {
	return m.orchestrator
}

// RegisterRoutes mounts campaign routes under /api/agents.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.API.Group("/agents"))
}

var _ apphttp.Module = (*Module)(nil)
