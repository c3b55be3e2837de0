package repository

import (
	"context"

	"github.com/google/uuid"
)

// LeadReader provides read-only access to lead data.
type LeadReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (Lead, error)
	List(ctx context.Context, params ListParams) ([]Lead, error)
}

// LeadWriter provides manual write operations for the Lead API.
type LeadWriter interface {
	Create(ctx context.Context, params CreateLeadParams) (Lead, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateLeadParams) (Lead, error)
}

// LeadReconciler merges research results into the store keyed by website.
type LeadReconciler interface {
	UpsertByWebsite(ctx context.Context, params UpsertLeadParams) (Lead, error)
}

// LeadsRepository is the full store surface.
type LeadsRepository interface {
	LeadReader
	LeadWriter
	LeadReconciler
}

var _ LeadsRepository = (*Repository)(nil)
