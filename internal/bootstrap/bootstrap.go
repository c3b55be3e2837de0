// Package bootstrap holds the wiring shared by the api, worker and leadctl
// composition roots.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"revenue_engine_backend/internal/adapters/storage"
	"revenue_engine_backend/internal/campaigns"
	"revenue_engine_backend/internal/events"
	"revenue_engine_backend/internal/leads"
	"revenue_engine_backend/internal/prospecting"
	"revenue_engine_backend/migrations"
	"revenue_engine_backend/platform/config"
	"revenue_engine_backend/platform/db"
	"revenue_engine_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	retryAttempts  = 5
	retryBaseDelay = 2 * time.Second
)

// WithRetry runs fn up to attempts times with quadratic backoff.
func WithRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}

// ConnectDatabase opens the pool and, when enabled, applies the embedded
// migrations.
func ConnectDatabase(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool
	if err := WithRetry(ctx, log, "database connection", retryAttempts, retryBaseDelay, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		return nil, err
	}
	log.Info("database connection established")

	if !cfg.ShouldRunMigrations() {
		return pool, nil
	}
	if err := WithRetry(ctx, log, "database migrations", retryAttempts, retryBaseDelay, func() error {
		return db.RunMigrations(ctx, pool, migrations.FS)
	}); err != nil {
		pool.Close()
		return nil, err
	}
	log.Info("database migrations complete")
	return pool, nil
}

// Archive is the optional dossier archive and its readiness probe.
type Archive struct {
	Dossiers *storage.DossierArchive
	Checker  *storage.BucketChecker
}

// NewArchive connects to MinIO and makes sure the dossier bucket exists.
// It returns nil when MinIO is not configured.
func NewArchive(ctx context.Context, cfg config.MinIOConfig, log *logger.Logger) (*Archive, error) {
	if !cfg.IsMinIOEnabled() {
		log.Warn("MINIO_ENDPOINT not configured; dossier archive disabled")
		return nil, nil
	}

	svc, err := storage.NewMinIOService(cfg)
	if err != nil {
		return nil, err
	}

	bucket := cfg.GetMinioBucketDossiers()
	if err := WithRetry(ctx, log, "ensure dossier bucket", retryAttempts, retryBaseDelay, func() error {
		return svc.EnsureBucketExists(ctx, bucket)
	}); err != nil {
		return nil, err
	}
	log.Info("dossier archive initialized", "bucket", bucket)

	return &Archive{
		Dossiers: storage.NewDossierArchive(svc, bucket),
		Checker:  svc.Checker(bucket),
	}, nil
}

// OrchestratorConfig is what a campaign runner needs from configuration.
type OrchestratorConfig interface {
	config.ProspectorConfig
	config.CampaignConfig
}

// NewOrchestrator wires the prospecting client and the lead store into a
// campaign orchestrator. archive may be nil.
func NewOrchestrator(cfg OrchestratorConfig, store leads.Reconciler, eventBus events.Bus, archive *Archive, log *logger.Logger) (*campaigns.Orchestrator, *prospecting.Client) {
	client := prospecting.New(cfg.GetProspectorURL(), log,
		prospecting.WithTimeout(cfg.GetProspectorTimeout()),
	)

	opts := []campaigns.Option{campaigns.WithConcurrency(cfg.GetCampaignConcurrency())}
	if archive != nil {
		opts = append(opts, campaigns.WithArchive(archive.Dossiers))
	}

	return campaigns.NewOrchestrator(client, store, eventBus, log, opts...), client
}
