package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"attendance-engine/internal/services"
)

// NewBackfillCommand creates the backfill command.
func NewBackfillCommand() *cobra.Command {
	var years []int
	var entitlement float64

	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Rewrite ledger rows from leave history (repair)",
		Long: `Recomputes used days from APPROVED leave requests for every
employee with leave in the given years and unconditionally upserts the
ledger rows. This overwrites existing values; run reconcile first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(years) == 0 {
				return fmt.Errorf("at least one --years value is required")
			}

			written, err := services.RunBackfill(years, entitlement)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Backfilled %d ledger row(s) for years %v.\n", written, years)
			return nil
		},
	}

	cmd.Flags().IntSliceVar(&years, "years", nil, "years to backfill, e.g. --years 2024,2025")
	cmd.Flags().Float64Var(&entitlement, "entitlement", services.DefaultEntitlement, "entitlement written to created rows")

	return cmd
}
