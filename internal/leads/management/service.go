// Package management handles lead CRUD operations.
// This is a vertically sliced feature package containing service logic
// for creating, reading, listing and updating leads by hand.
package management

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"revenue_engine_backend/internal/events"
	"revenue_engine_backend/internal/leads/domain"
	"revenue_engine_backend/internal/leads/repository"
	"revenue_engine_backend/internal/leads/transport"
	"revenue_engine_backend/platform/apperr"
	"revenue_engine_backend/platform/logger"
	"revenue_engine_backend/platform/sanitize"

	"github.com/google/uuid"
)

const (
	msgLeadNotFound     = "Lead not found"
	msgWebsiteTaken     = "Website already belongs to another lead"
	msgCompanyRequired  = "company_name is required"
	msgInvalidStatus    = "status must be one of new, researching, contacted, qualified, disqualified"
	msgConstraintFailed = "lead violates a data constraint"
)

// Repository defines the data access interface needed by the management service.
// This is a consumer-driven interface - only what management needs.
type Repository interface {
	repository.LeadReader
	repository.LeadWriter
}

// Service handles lead management operations (CRUD).
type Service struct {
	repo     Repository
	eventBus events.Bus
	log      *logger.Logger
}

// New creates a new lead management service.
func New(repo Repository, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, eventBus: eventBus, log: log}
}

// List returns the newest leads, optionally restricted to one status.
// A status outside the pipeline matches nothing.
func (s *Service) List(ctx context.Context, status string) ([]transport.LeadResponse, error) {
	params := repository.ListParams{}
	if status != "" {
		if !domain.Status(status).Valid() {
			return []transport.LeadResponse{}, nil
		}
		params.Status = &status
	}

	leads, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return ToLeadResponses(leads), nil
}

// Create stores a manually entered lead. Status defaults to new.
func (s *Service) Create(ctx context.Context, req transport.CreateLeadRequest) (transport.LeadResponse, error) {
	companyName := sanitize.Text(req.CompanyName)
	if companyName == "" {
		return transport.LeadResponse{}, apperr.Validation(msgCompanyRequired)
	}

	status := domain.StatusNew
	if req.Status != "" {
		status = domain.Status(req.Status)
		if !status.Valid() {
			return transport.LeadResponse{}, apperr.Validation(msgInvalidStatus)
		}
	}

	source := strings.TrimSpace(req.Source)
	if source == "" {
		source = domain.SourceProspector
	}

	params := repository.CreateLeadParams{
		CompanyName:  companyName,
		Website:      domain.WebsitePtr(&req.Website),
		Context:      sanitize.Text(req.Context),
		Summary:      sanitize.Text(req.Summary),
		Technologies: domain.NormalizeSet(sanitize.List(req.Technologies)),
		KeyPersonnel: domain.NormalizeSet(sanitize.List(req.KeyPersonnel)),
		Status:       string(status),
		Source:       source,
	}
	if req.ConfidenceScore != nil {
		params.ConfidenceScore = *req.ConfidenceScore
	}

	lead, err := s.repo.Create(ctx, params)
	if err != nil {
		return transport.LeadResponse{}, mapRepoError(err)
	}

	s.eventBus.Publish(ctx, events.LeadCreated{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.ID,
		Source:    lead.Source,
	})

	return ToLeadResponse(lead), nil
}

// GetByID retrieves a lead by ID.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, mapRepoError(err)
	}
	return ToLeadResponse(lead), nil
}

// Update merges the provided fields into a lead. Any enumerated status may
// be set; moves that skip the lifecycle graph are only logged.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateLeadRequest) (transport.LeadResponse, error) {
	params := repository.UpdateLeadParams{
		Context:         sanitize.TextPtr(req.Context),
		Summary:         sanitize.TextPtr(req.Summary),
		Technologies:    domain.NormalizeSet(sanitize.List(req.Technologies)),
		KeyPersonnel:    domain.NormalizeSet(sanitize.List(req.KeyPersonnel)),
		ConfidenceScore: req.ConfidenceScore,
	}

	if req.CompanyName != nil {
		companyName := sanitize.Text(*req.CompanyName)
		if companyName == "" {
			return transport.LeadResponse{}, apperr.Validation(msgCompanyRequired)
		}
		params.CompanyName = &companyName
	}

	if req.Website.Set {
		params.WebsiteSet = true
		params.Website = domain.WebsitePtr(req.Website.Value)
	}

	var previousStatus string
	if req.Status != nil {
		next := domain.Status(*req.Status)
		if !next.Valid() {
			return transport.LeadResponse{}, apperr.Validation(msgInvalidStatus)
		}
		params.Status = req.Status

		current, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return transport.LeadResponse{}, mapRepoError(err)
		}
		previousStatus = current.Status
		if !domain.CanTransition(domain.Status(current.Status), next) {
			s.log.WithContext(ctx).Warn("lead status moved off the lifecycle graph",
				slog.String("lead_id", id.String()),
				slog.String("from", current.Status),
				slog.String("to", string(next)),
			)
		}
	}

	lead, err := s.repo.Update(ctx, id, params)
	if err != nil {
		return transport.LeadResponse{}, mapRepoError(err)
	}

	if previousStatus == "" {
		previousStatus = lead.Status
	}
	s.eventBus.Publish(ctx, events.LeadUpdated{
		BaseEvent:      events.NewBaseEvent(),
		LeadID:         lead.ID,
		PreviousStatus: previousStatus,
		Status:         lead.Status,
	})

	return ToLeadResponse(lead), nil
}

func mapRepoError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperr.NotFound(msgLeadNotFound)
	case errors.Is(err, repository.ErrDuplicateWebsite):
		return apperr.Conflict(msgWebsiteTaken)
	case errors.Is(err, repository.ErrInvalidLead):
		return apperr.Validation(msgConstraintFailed)
	default:
		return err
	}
}
