// Package leads provides the lead management bounded context module.
// This file defines the module that encapsulates all leads setup and route registration.
package leads

import (
	"revenue_engine_backend/internal/events"
	apphttp "revenue_engine_backend/internal/http"
	"revenue_engine_backend/internal/leads/handler"
	"revenue_engine_backend/internal/leads/management"
	"revenue_engine_backend/internal/leads/repository"
	"revenue_engine_backend/internal/leads/transport"
	"revenue_engine_backend/platform/logger"
	"revenue_engine_backend/platform/validator"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler    *handler.Handler
	management *management.Service
	repo       *repository.Repository
}

// NewModule creates and initializes the leads module with all its dependencies.
func NewModule(repo *repository.Repository, eventBus events.Bus, val *validator.Validator, log *logger.Logger) (*Module, error) {
	if err := transport.RegisterValidations(val); err != nil {
		return nil, err
	}

	mgmtSvc := management.New(repo, eventBus, log)
	h := handler.New(mgmtSvc, val)

	return &Module{
		handler:    h,
		management: mgmtSvc,
		repo:       repo,
	}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// ManagementService returns the lead management service for external use.
func (m *Module) ManagementService() *management.Service {
	return m.management
}

// Repository exposes the store so the campaign module can reconcile into it.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// RegisterRoutes mounts leads routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.API.Group("/leads"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
