package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/buku/internal/accounts"
	"github.com/cleared-dev/buku/internal/activity"
	"github.com/cleared-dev/buku/internal/importer"
	"github.com/cleared-dev/buku/internal/model"
	"github.com/cleared-dev/buku/internal/workspace"
)

func newImportCommand() *cobra.Command {
	var format, bank, in, out string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import [file...]",
		Short: "Import bank statement CSVs from import/ as cash receipts and payments",
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := importer.DefaultRegistry().Get(format)
			if parser == nil {
				return fmt.Errorf("unknown import format %q", format)
			}
			return withWorkspace(cmd, func(ws *workspace.Workspace) error {
				files, err := importer.Scan(ws.Root)
				if err != nil {
					return err
				}
				if len(args) > 0 {
					files = selectFiles(files, args)
				}
				if len(files) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing to import")
					return nil
				}

				for _, f := range files {
					txns, err := importer.ParseFile(parser, f.Path)
					if err != nil {
						return err
					}
					entries, err := buildImport(ws, txns, bank, in, out)
					if err != nil {
						return fmt.Errorf("%s: %w", f.Name, err)
					}
					if dryRun {
						fmt.Fprintf(cmd.OutOrStdout(), "%s: %d entries (dry run)\n", f.Name, len(entries))
						continue
					}

					if err := storeImport(cmd.Context(), ws, entries); err != nil {
						return fmt.Errorf("%s: %w", f.Name, err)
					}
					if err := importer.MarkProcessed(ws.Root, f.Name); err != nil {
						return err
					}
					details := fmt.Sprintf("%s (%d entries)", f.Name, len(entries))
					if _, err := ws.Record(cmd.Context(), activity.ActionImport, details, ""); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s: imported %d entries\n", f.Name, len(entries))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "generic", "bank CSV format")
	cmd.Flags().StringVar(&bank, "bank", accounts.IDBank, "cash/bank account the statement belongs to")
	cmd.Flags().StringVar(&in, "in", accounts.IDSalesRevenueNonPPN, "counter account credited for money in")
	cmd.Flags().StringVar(&out, "out", "", "counter account debited for money out (required)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse and validate without recording")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

// buildImport validates every row before anything is stored.
func buildImport(ws *workspace.Workspace, txns []model.BankTransaction, bank, in, out string) ([]model.JournalEntry, error) {
	docs := importer.ToCashInputs(txns, bank, in, out)
	entries := make([]model.JournalEntry, 0, len(docs))
	for _, d := range docs {
		e, err := importer.Build(ws.Builder, d)
		if err != nil {
			return nil, fmt.Errorf("row %s: %w", d.Input.Ref, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// storeImport creates every entry, deleting the ones already stored when a
// later create fails, so a file is imported whole or not at all.
func storeImport(ctx context.Context, ws *workspace.Workspace, entries []model.JournalEntry) error {
	created := make([]string, 0, len(entries))
	for _, e := range entries {
		id, err := ws.Journal.Create(ctx, e)
		if err == nil {
			created = append(created, id)
			continue
		}
		err = fmt.Errorf("%s: %w", e.Ref, err)
		for i := len(created) - 1; i >= 0; i-- {
			if derr := ws.Journal.Delete(ctx, created[i]); derr != nil {
				err = errors.Join(err, fmt.Errorf("rolling back %s: %w", created[i], derr))
			}
		}
		return err
	}
	return nil
}

func selectFiles(files []importer.FileInfo, names []string) []importer.FileInfo {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	var out []importer.FileInfo
	for _, f := range files {
		if want[f.Name] {
			out = append(out, f)
		}
	}
	return out
}
