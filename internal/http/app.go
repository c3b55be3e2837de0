// Package http provides HTTP server infrastructure including module registration.
package http

import (
	"context"

	"revenue_engine_backend/internal/events"
	"revenue_engine_backend/platform/config"
	"revenue_engine_backend/platform/logger"
)

// RouterConfig combines the config interfaces needed by the HTTP router.
type RouterConfig interface {
	config.HTTPConfig
	IsDevelopment() bool
}

// HealthChecker is one dependency reported by the readiness probe.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}

// App holds the fully initialized application dependencies.
// This is populated by main.go (the composition root) and passed to the router.
type App struct {
	// Config holds the router configuration (HTTP settings only).
	Config RouterConfig
	// Logger is the structured logger.
	Logger *logger.Logger
	// Health lists the dependencies checked by /api/ready.
	Health []HealthChecker
	// EventBus is the domain event bus for cross-module communication.
	EventBus events.Bus
	// Modules contains all HTTP-facing domain modules.
	Modules []Module
}
