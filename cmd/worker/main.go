package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"revenue_engine_backend/internal/bootstrap"
	"revenue_engine_backend/internal/events"
	"revenue_engine_backend/internal/leads/repository"
	"revenue_engine_backend/internal/scheduler"
	"revenue_engine_backend/platform/config"
	"revenue_engine_backend/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting campaign worker", "env", cfg.Env, "queue", cfg.GetAsynqQueue())

	if !cfg.IsSchedulerEnabled() {
		panic("REDIS_URL is required for the campaign worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := bootstrap.ConnectDatabase(ctx, cfg, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)
	events.RegisterAuditLog(eventBus, log)
	defer eventBus.Wait()

	archive, err := bootstrap.NewArchive(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize dossier archive", "error", err)
		panic("failed to initialize dossier archive: " + err.Error())
	}

	orchestrator, _ := bootstrap.NewOrchestrator(cfg, repository.New(pool), eventBus, archive, log)

	worker, err := scheduler.NewWorker(cfg, orchestrator, log)
	if err != nil {
		log.Error("failed to initialize campaign worker", "error", err)
		panic("failed to initialize campaign worker: " + err.Error())
	}

	worker.Run(ctx)
}
