// Package leads provides lead management functionality.
// This file defines the public API of the leads bounded context.
// Only types and interfaces defined here should be imported by other domains.
package leads

import (
	"revenue_engine_backend/internal/leads/repository"
)

// Reconciler is what other domains use to merge research into the store.
// Campaigns depend on this interface, not on the concrete repository.
type Reconciler = repository.LeadReconciler

var _ Reconciler = (*repository.Repository)(nil)
