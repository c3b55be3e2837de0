package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"revenue_engine_backend/internal/bootstrap"
	"revenue_engine_backend/internal/events"
	"revenue_engine_backend/internal/leads/repository"
	"revenue_engine_backend/platform/config"
	"revenue_engine_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

var (
	cfg *config.Config
	log *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "leadctl",
	Short: "Operate prospecting campaigns and the lead store",
	Long:  "Runs prospecting campaigns against the engine and inspects or updates the leads they produce, using the same database and engine settings as the API.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c
		log = logger.NewWithWriter(cfg.Env, os.Stderr)
		return nil
	},
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// session is the per-command dependency set.
type session struct {
	pool  *pgxpool.Pool
	store *repository.Repository
	bus   *events.InMemoryBus
}

func openSession(ctx context.Context) (*session, error) {
	pool, err := bootstrap.ConnectDatabase(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	bus := events.NewInMemoryBus(log)
	events.RegisterAuditLog(bus, log)
	return &session{pool: pool, store: repository.New(pool), bus: bus}, nil
}

func (s *session) Close() {
	s.bus.Wait()
	s.pool.Close()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
