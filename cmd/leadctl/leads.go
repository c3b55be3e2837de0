package main

import (
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"revenue_engine_backend/internal/leads/domain"
	"revenue_engine_backend/internal/leads/management"
	"revenue_engine_backend/internal/leads/transport"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "Inspect and update stored leads",
}

var leadsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the newest leads",
	Long: `Lists up to 100 leads, newest first.

Examples:
  leadctl leads list
  leadctl leads list --status qualified --json`,
	RunE: runLeadsList,
}

var leadsSetStatusCmd = &cobra.Command{
	Use:   "set-status <id> <status>",
	Short: "Move a lead to another pipeline status",
	Args:  cobra.ExactArgs(2),
	RunE:  runLeadsSetStatus,
}

func init() {
	leadsListCmd.Flags().String("status", "", "only list leads with this status")
	leadsListCmd.Flags().Bool("json", false, "print JSON instead of a table")

	leadsCmd.AddCommand(leadsListCmd, leadsSetStatusCmd)
	rootCmd.AddCommand(leadsCmd)
}

func runLeadsList(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	status, _ := cmd.Flags().GetString("status")
	if status != "" {
		if _, ok := domain.ParseStatus(status); !ok {
			return eris.Errorf("leads list: unknown status %q", status)
		}
	}

	s, err := openSession(ctx)
	if err != nil {
		return eris.Wrap(err, "leads list: connect")
	}
	defer s.Close()

	leads, err := management.New(s.store, s.bus, log).List(ctx, status)
	if err != nil {
		return eris.Wrap(err, "leads list")
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(cmd.OutOrStdout(), leads)
	}
	return writeLeadTable(cmd.OutOrStdout(), leads)
}

func runLeadsSetStatus(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	id, err := uuid.Parse(args[0])
	if err != nil {
		return eris.Errorf("leads set-status: invalid id %q", args[0])
	}
	status, ok := domain.ParseStatus(args[1])
	if !ok {
		return eris.Errorf("leads set-status: unknown status %q", args[1])
	}

	s, err := openSession(ctx)
	if err != nil {
		return eris.Wrap(err, "leads set-status: connect")
	}
	defer s.Close()

	next := string(status)
	lead, err := management.New(s.store, s.bus, log).Update(ctx, id, transport.UpdateLeadRequest{Status: &next})
	if err != nil {
		return eris.Wrap(err, "leads set-status")
	}

	return writeJSON(cmd.OutOrStdout(), lead)
}

func writeLeadTable(w io.Writer, leads []transport.LeadResponse) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tCOMPANY\tWEBSITE\tUPDATED")
	for _, l := range leads {
		website := "-"
		if l.Website != nil {
			website = *l.Website
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", l.ID, l.Status, l.CompanyName, website, l.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}
