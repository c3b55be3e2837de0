package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"revenue_engine_backend/internal/bootstrap"
	"revenue_engine_backend/internal/campaigns"
	campaignhandler "revenue_engine_backend/internal/campaigns/handler"
	"revenue_engine_backend/internal/events"
	apphttp "revenue_engine_backend/internal/http"
	"revenue_engine_backend/internal/http/router"
	"revenue_engine_backend/internal/leads"
	"revenue_engine_backend/internal/leads/repository"
	"revenue_engine_backend/internal/scheduler"
	"revenue_engine_backend/platform/config"
	"revenue_engine_backend/platform/db"
	"revenue_engine_backend/platform/logger"
	"revenue_engine_backend/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	pool, err := bootstrap.ConnectDatabase(ctx, cfg, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)
	events.RegisterAuditLog(eventBus, log)

	archive, err := bootstrap.NewArchive(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize dossier archive", "error", err)
		panic("failed to initialize dossier archive: " + err.Error())
	}

	queue, redisChecker, closeScheduler := initCampaignQueue(cfg, log)
	if closeScheduler != nil {
		defer closeScheduler()
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	leadStore := repository.New(pool)
	leadsModule, err := leads.NewModule(leadStore, eventBus, val, log)
	if err != nil {
		log.Error("failed to initialize leads module", "error", err)
		panic("failed to initialize leads module: " + err.Error())
	}

	orchestrator, prospector := bootstrap.NewOrchestrator(cfg, leadsModule.Repository(), eventBus, archive, log)
	campaignsModule := campaigns.NewModule(orchestrator, queue)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	health := []apphttp.HealthChecker{db.NewChecker(pool), prospector}
	if archive != nil {
		health = append(health, archive.Checker)
	}
	if redisChecker != nil {
		health = append(health, redisChecker)
	}

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   health,
		EventBus: eventBus,
		Modules: []apphttp.Module{
			leadsModule,
			campaignsModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
		eventBus.Wait()
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// initCampaignQueue connects the asynchronous campaign routes when Redis is
// configured. Without it only the synchronous endpoint is served.
func initCampaignQueue(cfg *config.Config, log *logger.Logger) (campaignhandler.CampaignQueue, apphttp.HealthChecker, func()) {
	if !cfg.IsSchedulerEnabled() {
		log.Warn("REDIS_URL not configured; queued campaigns disabled")
		return nil, nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize campaign queue client", "error", err)
		return nil, nil, nil
	}

	checker, err := scheduler.NewRedisChecker(cfg)
	if err != nil {
		log.Error("failed to initialize redis health check", "error", err)
		_ = client.Close()
		return nil, nil, nil
	}

	log.Info("campaign queue enabled", "queue", client.Queue())
	return client, checker, func() {
		_ = client.Close()
		_ = checker.Close()
	}
}
