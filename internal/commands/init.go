package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/buku/internal/config"
	"github.com/cleared-dev/buku/internal/workspace"
)

func newInitCommand() *cobra.Command {
	var name string
	var ppnRate float64
	var driver string
	var noGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new set of books",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			cfg := config.Default(name)
			cfg.Tax.PPNRate = ppnRate
			cfg.Storage.Driver = driver
			cfg.Git.AutoCommit = !noGit

			hash, err := workspace.Init(cmd.Context(), absDir, cfg)
			if err != nil {
				return err
			}
			if hash != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Initialized books for %s at %s (%s)\n", name, absDir, hash)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Initialized books for %s at %s\n", name, absDir)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "business name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().Float64Var(&ppnRate, "ppn-rate", 0.11, "PPN rate as a fraction")
	cmd.Flags().StringVar(&driver, "storage", config.DriverCSV, "journal storage: csv, sqlite or postgres")
	cmd.Flags().BoolVar(&noGit, "no-git", false, "do not version the books with git")

	return cmd
}
