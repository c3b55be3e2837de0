// Package campaigns runs prospecting campaigns: one engine call, then every
// research report reconciled into the lead store concurrently.
package campaigns

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"revenue_engine_backend/internal/campaigns/transport"
	"revenue_engine_backend/internal/events"
	"revenue_engine_backend/internal/leads"
	"revenue_engine_backend/internal/leads/domain"
	"revenue_engine_backend/internal/leads/repository"
	"revenue_engine_backend/internal/prospecting"
	"revenue_engine_backend/platform/apperr"
	"revenue_engine_backend/platform/logger"
	"revenue_engine_backend/platform/sanitize"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultConcurrency bounds parallel upserts when none is configured.
	DefaultConcurrency = 8

	msgICPRequired    = "ICP description is required"
	msgWorkflowFailed = "Failed to start agent workflow"
)

// Prospector is the engine call a campaign starts with.
type Prospector interface {
	Prospect(ctx context.Context, icp string) (*prospecting.Campaign, error)
}

// DossierArchive keeps the raw research behind a reconciled lead.
type DossierArchive interface {
	Archive(ctx context.Context, leadID uuid.UUID, dossier json.RawMessage) error
}

// Orchestrator coordinates the engine call and the reconciliation fan-out.
type Orchestrator struct {
	prospector  Prospector
	store       leads.Reconciler
	eventBus    events.Bus
	archive     DossierArchive
	log         *logger.Logger
	concurrency int
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithArchive enables dossier archiving.
func WithArchive(a DossierArchive) Option {
	return func(o *Orchestrator) { o.archive = a }
}

// WithConcurrency bounds the number of simultaneous upserts.
func WithConcurrency(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// NewOrchestrator wires a campaign orchestrator.
func NewOrchestrator(prospector Prospector, store leads.Reconciler, eventBus events.Bus, log *logger.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		prospector:  prospector,
		store:       store,
		eventBus:    eventBus,
		log:         log,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run executes one campaign for icp and hands back the engine's leads and
// reports untouched, with its errors followed by one entry per failed upsert.
// It fails only when the ICP is empty or the engine call fails.
// Once started, a campaign runs to completion even if ctx is cancelled.
func (o *Orchestrator) Run(ctx context.Context, icp string) (transport.CampaignResponse, error) {
	icp = strings.TrimSpace(icp)
	if icp == "" {
		return transport.CampaignResponse{}, apperr.BadRequest(msgICPRequired)
	}

	ctx = context.WithoutCancel(ctx)
	log := o.log.WithContext(ctx)
	log.CampaignEvent("campaign_started", icp)

	campaign, err := o.prospector.Prospect(ctx, icp)
	if err != nil {
		log.Error("prospecting failed", slog.String("icp", icp), slog.String("error", err.Error()))
		return transport.CampaignResponse{}, apperr.Upstream(msgWorkflowFailed, err).WithOp("campaigns.Run")
	}

	persistErrs, persisted := o.reconcile(ctx, icp, campaign.Reports)

	errs := make([]string, 0, len(campaign.Errors)+len(persistErrs))
	errs = append(errs, campaign.Errors...)
	errs = append(errs, persistErrs...)

	o.eventBus.Publish(ctx, events.CampaignCompleted{
		BaseEvent: events.NewBaseEvent(),
		ICP:       icp,
		Reports:   len(campaign.Reports),
		Persisted: persisted,
		Errors:    len(errs),
	})

	return transport.CampaignResponse{
		Status: campaign.Status,
		Data: transport.CampaignData{
			Leads:   campaign.Leads,
			Reports: campaign.RawReports(),
			Errors:  errs,
		},
	}, nil
}

// reconcile upserts every report in its own task. Each task owns one slot
// of the outcome slice, so no locking is needed and a failure never stops
// the others.
func (o *Orchestrator) reconcile(ctx context.Context, icp string, reports []prospecting.Report) ([]string, int) {
	outcomes := make([]string, len(reports))
	done := make([]bool, len(reports))

	var g errgroup.Group
	g.SetLimit(o.concurrency)
	for _, i := range o.plan(ctx, reports) {
		g.Go(func() error {
			outcomes[i], done[i] = o.reconcileOne(ctx, icp, i, reports[i])
			return nil
		})
	}
	_ = g.Wait()

	var errs []string
	persisted := 0
	for i := range reports {
		if outcomes[i] != "" {
			errs = append(errs, outcomes[i])
		}
		if done[i] {
			persisted++
		}
	}
	return errs, persisted
}

// plan returns the report indexes to persist. When several reports share a
// website the last one in engine order wins and the earlier ones are
// skipped, so two tasks never race on the same row.
func (o *Orchestrator) plan(ctx context.Context, reports []prospecting.Report) []int {
	last := make(map[string]int, len(reports))
	for i, r := range reports {
		if w := websiteOf(r); w != "" {
			last[w] = i
		}
	}

	indexes := make([]int, 0, len(reports))
	for i, r := range reports {
		if w := websiteOf(r); w != "" && last[w] != i {
			o.log.WithContext(ctx).Debug("skipping duplicate website in campaign",
				slog.String("website", w),
				slog.Int("report", i),
			)
			continue
		}
		indexes = append(indexes, i)
	}
	return indexes
}

func (o *Orchestrator) reconcileOne(ctx context.Context, icp string, index int, report prospecting.Report) (failure string, ok bool) {
	identity := identityOf(index, report)
	defer func() {
		if r := recover(); r != nil {
			failure, ok = persistenceError(identity, fmt.Sprintf("panic: %v", r)), false
		}
	}()

	params := toUpsertParams(report)
	if params.CompanyName == "" {
		return persistenceError(identity, "company_name is required"), false
	}

	lead, err := o.store.UpsertByWebsite(ctx, params)
	if err != nil {
		o.log.WithContext(ctx).Error("lead upsert failed",
			slog.String("identity", identity),
			slog.String("error", err.Error()),
		)
		return persistenceError(identity, err.Error()), false
	}

	website := ""
	if lead.Website != nil {
		website = *lead.Website
	}
	o.eventBus.Publish(ctx, events.LeadReconciled{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.ID,
		Website:   website,
		ICP:       icp,
	})

	if o.archive != nil {
		if err := o.archive.Archive(ctx, lead.ID, report.Raw); err != nil {
			o.log.WithContext(ctx).Warn("dossier archive failed",
				slog.String("lead_id", lead.ID.String()),
				slog.String("error", err.Error()),
			)
		}
	}

	return "", true
}

// toUpsertParams maps an untrusted report onto store fields. Free text is
// trimmed but otherwise kept as sent; the summary prefers the researcher's
// digest over the raw page preview.
func toUpsertParams(r prospecting.Report) repository.UpsertLeadParams {
	params := repository.UpsertLeadParams{
		CompanyName:     sanitize.Text(r.CompanyName),
		Website:         domain.WebsitePtr(r.Website),
		Context:         sanitize.TextPtr(r.Context),
		ConfidenceScore: r.ConfidenceScore,
	}

	if d := r.DeepDive; d != nil {
		switch {
		case d.Summary != nil:
			params.Summary = sanitize.TextPtr(d.Summary)
		case d.RawContentPreview != nil:
			params.Summary = sanitize.TextPtr(d.RawContentPreview)
		}
		params.Technologies = domain.NormalizeSet(sanitize.List(d.Technologies))
		params.KeyPersonnel = domain.NormalizeSet(sanitize.List(d.KeyPersonnel))
	}

	return params
}

func websiteOf(r prospecting.Report) string {
	if r.Website == nil {
		return ""
	}
	return domain.NormalizeWebsite(*r.Website)
}

func identityOf(index int, r prospecting.Report) string {
	if r.Website != nil && strings.TrimSpace(*r.Website) != "" {
		return strings.TrimSpace(*r.Website)
	}
	if name := strings.TrimSpace(r.CompanyName); name != "" {
		return name
	}
	return fmt.Sprintf("report #%d", index)
}

func persistenceError(identity, msg string) string {
	return fmt.Sprintf("Persistence Error %s: %s", identity, msg)
}
