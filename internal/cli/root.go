// Package cli implements the operator tooling surface. Reconciliation
// and backfill are deliberately reachable only from here, never from
// request traffic.
package cli

import (
	"github.com/spf13/cobra"

	"attendance-engine/internal/config"
	"attendance-engine/internal/database"
)

// NewRootCommand creates the root command for the attendancectl CLI.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attendancectl",
		Short: "Operator tooling for the attendance engine",
		Long: `Offline operator commands for the attendance-ingestion engine.

reconcile verifies the leave-balance ledger against the leave-request
history and reports drift. backfill rewrites ledger rows from the
history; it is the explicit repair path.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadConfig()
			database.SetupDatabase()
		},
		SilenceUsage: true,
	}

	cmd.AddCommand(NewReconcileCommand())
	cmd.AddCommand(NewBackfillCommand())

	return cmd
}
