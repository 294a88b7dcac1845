package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/buku/internal/buildinfo"
	"github.com/cleared-dev/buku/internal/workspace"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "buku",
		Short:   "Double-entry bookkeeping for small businesses",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("repo", ".", "workspace directory")

	rootCmd.AddCommand(
		newInitCommand(),
		newAccountsCommand(),
		newContactsCommand(),
		newEntryCommand(),
		newReportCommand(),
		newImportCommand(),
		newSettingsCommand(),
	)

	return rootCmd
}

func repoRoot(cmd *cobra.Command) (string, error) {
	dir, err := cmd.Flags().GetString("repo")
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	return abs, nil
}

// withWorkspace opens the workspace named by --repo, runs fn and closes it.
func withWorkspace(cmd *cobra.Command, fn func(ws *workspace.Workspace) error) error {
	root, err := repoRoot(cmd)
	if err != nil {
		return err
	}
	ws, err := workspace.Open(root)
	if err != nil {
		return err
	}
	defer ws.Close()
	return fn(ws)
}
