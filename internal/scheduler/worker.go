package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"revenue_engine_backend/internal/campaigns/transport"
	"revenue_engine_backend/platform/config"
	"revenue_engine_backend/platform/logger"

	"github.com/hibiken/asynq"
	"github.com/rotisserie/eris"
)

// CampaignRunner executes one campaign synchronously.
type CampaignRunner interface {
	Run(ctx context.Context, icp string) (transport.CampaignResponse, error)
}

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	runner CampaignRunner
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, runner CampaignRunner, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 2
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
		Logger: newAsynqLogger(log),
	})

	w := newWorker(runner, log)
	w.server = server
	return w, nil
}

func newWorker(runner CampaignRunner, log *logger.Logger) *Worker {
	w := &Worker{
		mux:    asynq.NewServeMux(),
		runner: runner,
		log:    log,
	}
	w.mux.HandleFunc(TaskCampaignRun, w.handleCampaignRun)
	return w
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("campaign worker stopped", "error", err)
	}
}

func (w *Worker) handleCampaignRun(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseCampaignRunPayload(task)
	if err != nil {
		return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
	}
	if payload.ICP == "" {
		return fmt.Errorf("ICP description is required: %w", asynq.SkipRetry)
	}

	result, err := w.runner.Run(ctx, payload.ICP)
	if err != nil {
		w.log.WithContext(ctx).Error("queued campaign failed",
			slog.String("icp", payload.ICP),
			slog.String("error", err.Error()),
		)
		return err
	}

	// The result writer only exists for tasks delivered by a server.
	rw := task.ResultWriter()
	if rw == nil {
		return nil
	}
	data, err := json.Marshal(result)
	if err != nil {
		return eris.Wrap(err, "scheduler: encode campaign result")
	}
	if _, err := rw.Write(data); err != nil {
		return eris.Wrap(err, "scheduler: store campaign result")
	}
	return nil
}

// asynqLogger routes asynq's internal logging through the service logger.
type asynqLogger struct {
	log *logger.Logger
}

func newAsynqLogger(log *logger.Logger) asynqLogger {
	return asynqLogger{log: log}
}

func (l asynqLogger) Debug(args ...any) { l.log.Debug(fmt.Sprint(args...), "component", "asynq") }
func (l asynqLogger) Info(args ...any)  { l.log.Info(fmt.Sprint(args...), "component", "asynq") }
func (l asynqLogger) Warn(args ...any)  { l.log.Warn(fmt.Sprint(args...), "component", "asynq") }
func (l asynqLogger) Error(args ...any) { l.log.Error(fmt.Sprint(args...), "component", "asynq") }
func (l asynqLogger) Fatal(args ...any) { l.log.Error(fmt.Sprint(args...), "component", "asynq", "fatal", true) }
