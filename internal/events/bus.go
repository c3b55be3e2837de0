// Package events re-exports the platform event bus for convenience.
// This allows internal modules to import events from internal/events
// while the implementation lives in platform/events.
package events

import (
	"context"
	"log/slog"

	platformevents "revenue_engine_backend/platform/events"
	"revenue_engine_backend/platform/logger"
)

// InMemoryBus is a type alias to the platform InMemoryBus
type InMemoryBus = platformevents.InMemoryBus

// NewInMemoryBus creates a new in-memory event bus.
// This is a convenience re-export from platform/events.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return platformevents.NewInMemoryBus(log)
}

// RegisterAuditLog subscribes a handler that writes every lead and campaign
// event to the structured log.
func RegisterAuditLog(bus Bus, log *logger.Logger) {
	audit := HandlerFunc(func(ctx context.Context, event Event) error {
		l := log.WithContext(ctx)
		switch e := event.(type) {
		case LeadCreated:
			l.Info("lead created", slog.String("lead_id", e.LeadID.String()), slog.String("source", e.Source))
		case LeadUpdated:
			l.Info("lead updated", slog.String("lead_id", e.LeadID.String()), slog.String("status", e.Status))
		case LeadReconciled:
			l.Info("lead reconciled", slog.String("lead_id", e.LeadID.String()), slog.String("website", e.Website))
		case CampaignCompleted:
			l.CampaignEvent("campaign_completed", e.ICP,
				slog.Int("reports", e.Reports),
				slog.Int("persisted", e.Persisted),
				slog.Int("errors", e.Errors),
			)
		}
		return nil
	})

	for _, name := range []string{
		LeadCreated{}.EventName(),
		LeadUpdated{}.EventName(),
		LeadReconciled{}.EventName(),
		CampaignCompleted{}.EventName(),
	} {
		bus.Subscribe(name, audit)
	}
}
