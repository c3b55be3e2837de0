// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"revenue_engine_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Lead Domain Events
// =============================================================================

// LeadCreated is published when a lead is entered manually.
type LeadCreated struct {
	BaseEvent
	LeadID uuid.UUID `json:"leadId"`
	Source string    `json:"source"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// LeadUpdated is published after a manual edit or status change.
type LeadUpdated struct {
	BaseEvent
	LeadID         uuid.UUID `json:"leadId"`
	PreviousStatus string    `json:"previousStatus"`
	Status         string    `json:"status"`
}

func (e LeadUpdated) EventName() string { return "leads.lead.updated" }

// =============================================================================
// Campaign Domain Events
// =============================================================================

// LeadReconciled is published for each research report merged into the store.
type LeadReconciled struct {
	BaseEvent
	LeadID  uuid.UUID `json:"leadId"`
	Website string    `json:"website,omitempty"`
	ICP     string    `json:"icp"`
}

func (e LeadReconciled) EventName() string { return "campaigns.lead.reconciled" }

// CampaignCompleted is published once a campaign's reconciliation finished.
type CampaignCompleted struct {
	BaseEvent
	ICP       string `json:"icp"`
	Reports   int    `json:"reports"`
	Persisted int    `json:"persisted"`
	Errors    int    `json:"errors"`
}

func (e CampaignCompleted) EventName() string { return "campaigns.completed" }
