package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"attendance-engine/internal/services"
)

// NewReconcileCommand creates the reconcile command.
func NewReconcileCommand() *cobra.Command {
	var years []int
	var pageSize int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Verify the leave-balance ledger against leave history",
		Long: `Recomputes the used days for every ledger row in the given years
from APPROVED leave requests and reports rows that drifted beyond
tolerance. Read-only: no row is corrected. Use backfill to repair.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(years) == 0 {
				return fmt.Errorf("at least one --years value is required")
			}

			mismatches, err := services.RunReconciliation(years, pageSize)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return json.NewEncoder(out).Encode(mismatches)
			}

			if len(mismatches) == 0 {
				fmt.Fprintln(out, "Ledger is consistent: no mismatches found.")
				return nil
			}

			fmt.Fprintf(out, "%d mismatch(es) found:\n", len(mismatches))
			for _, m := range mismatches {
				fmt.Fprintf(out, "  employee=%d year=%d persisted=%.2f computed=%.2f diff=%+.2f\n",
					m.EmployeeID, m.Year, m.Persisted, m.Computed, m.Diff)
			}
			return nil
		},
	}

	cmd.Flags().IntSliceVar(&years, "years", nil, "years to verify, e.g. --years 2024,2025")
	cmd.Flags().IntVar(&pageSize, "page-size", services.DefaultReconcilePageSize, "ledger rows per page")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the report as JSON")

	return cmd
}
