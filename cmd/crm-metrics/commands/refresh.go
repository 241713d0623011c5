package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Fetch a new snapshot from the CRM API and store it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.HasCRM() {
			return fmt.Errorf("CRM_API_URL is not configured")
		}

		ctx, cancel := signalContext()
		defer cancel()

		snap, err := loadSnapshot(ctx, true)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Snapshot %s (run %s): %d activities, %d companies, %d agents\n",
			snap.ID, snap.RunID, len(snap.Activities), len(snap.Companies), len(snap.Agents))
		return nil
	},
}
