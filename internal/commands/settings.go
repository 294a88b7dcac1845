package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/buku/internal/activity"
	"github.com/cleared-dev/buku/internal/config"
	"github.com/cleared-dev/buku/internal/workspace"
)

func newSettingsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change workspace settings",
	}
	cmd.AddCommand(newSettingsTaxCommand())
	return cmd
}

func newSettingsTaxCommand() *cobra.Command {
	var rate float64

	cmd := &cobra.Command{
		Use:   "tax",
		Short: "Show or set the PPN rate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, func(ws *workspace.Workspace) error {
				if cmd.Flags().Changed("ppn-rate") {
					if err := ws.UpdateConfig(func(c *config.Config) { c.Tax.PPNRate = rate }); err != nil {
						return err
					}
					if _, err := ws.Record(cmd.Context(), activity.ActionSettings, fmt.Sprintf("ppn_rate %g", rate), ""); err != nil {
						return err
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "PPN rate: %s\n", ws.Builder.Tax.PPNRate.String())
				return nil
			})
		},
	}
	cmd.Flags().Float64Var(&rate, "ppn-rate", 0, "new PPN rate as a fraction, e.g. 0.11")
	return cmd
}
