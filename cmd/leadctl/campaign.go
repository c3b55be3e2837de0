package main

import (
	"os/signal"
	"strings"
	"syscall"

	"revenue_engine_backend/internal/bootstrap"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var campaignCmd = &cobra.Command{
	Use:   "campaign",
	Short: "Run prospecting campaigns",
}

var campaignRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one campaign synchronously and print the result",
	Long: `Sends the ICP to the prospecting engine, reconciles every report into the
lead store and prints the campaign result as JSON.

Examples:
  leadctl campaign run --icp "Series A Healthcare Startups in Boston"`,
	RunE: runCampaign,
}

func init() {
	campaignRunCmd.Flags().String("icp", "", "ideal customer profile to prospect for")
	_ = campaignRunCmd.MarkFlagRequired("icp")

	campaignCmd.AddCommand(campaignRunCmd)
	rootCmd.AddCommand(campaignCmd)
}

func runCampaign(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	icp, _ := cmd.Flags().GetString("icp")
	if strings.TrimSpace(icp) == "" {
		return eris.New("campaign run: --icp must not be blank")
	}

	s, err := openSession(ctx)
	if err != nil {
		return eris.Wrap(err, "campaign run: connect")
	}
	defer s.Close()

	archive, err := bootstrap.NewArchive(ctx, cfg, log)
	if err != nil {
		return eris.Wrap(err, "campaign run: dossier archive")
	}

	orchestrator, _ := bootstrap.NewOrchestrator(cfg, s.store, s.bus, archive, log)
	result, err := orchestrator.Run(ctx, icp)
	if err != nil {
		return eris.Wrap(err, "campaign run")
	}

	return writeJSON(cmd.OutOrStdout(), result)
}
