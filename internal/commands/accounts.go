package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/buku/internal/activity"
	"github.com/cleared-dev/buku/internal/model"
	"github.com/cleared-dev/buku/internal/reports"
	"github.com/cleared-dev/buku/internal/workspace"
)

func newAccountsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage the chart of accounts",
	}
	cmd.AddCommand(
		newAccountsListCommand(),
		newAccountsAddCommand(),
		newAccountsUpdateCommand(),
		newAccountsDeleteCommand(),
	)
	return cmd
}

func newAccountsListCommand() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, func(ws *workspace.Workspace) error {
				accts := ws.Accounts.All()
				if category != "" {
					accts = ws.Accounts.ByCategory(model.Category(category))
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%-6s %-32s %-10s %-24s %18s\n", "ID", "Nama", "Kategori", "Sub-kategori", "Saldo Awal")
				for _, a := range accts {
					lock := ""
					if !a.Deletable {
						lock = " *"
					}
					fmt.Fprintf(out, "%-6s %-32s %-10s %-24s %18s%s\n",
						a.ID, a.Name, a.Category, a.SubCategory, reports.Amount(a.OpeningBalance), lock)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "only accounts of this category")
	return cmd
}

func newAccountsAddCommand() *cobra.Command {
	var id, name, category, sub, opening string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			amt, err := parseAmount(opening)
			if err != nil {
				return err
			}
			return withWorkspace(cmd, func(ws *workspace.Workspace) error {
				acct := model.Account{
					ID:             id,
					Name:           name,
					Category:       model.Category(category),
					SubCategory:    model.SubCategory(sub),
					OpeningBalance: amt,
					Deletable:      true,
				}
				if err := ws.Accounts.Add(acct); err != nil {
					return err
				}
				if err := ws.SaveAccounts(); err != nil {
					return err
				}
				if _, err := ws.Record(cmd.Context(), activity.ActionAccountChange, "add "+id+" "+name, ""); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added account %s %s\n", id, name)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "account id (required)")
	cmd.Flags().StringVar(&name, "name", "", "account name (required)")
	cmd.Flags().StringVar(&category, "category", "", "asset, liability, equity, revenue or expense (required)")
	cmd.Flags().StringVar(&sub, "sub-category", "", "sub-category, e.g. \"Bank\" or \"Expense\" (required)")
	cmd.Flags().StringVar(&opening, "opening", "", "opening balance")
	for _, f := range []string{"id", "name", "category", "sub-category"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func newAccountsUpdateCommand() *cobra.Command {
	var name, sub, opening string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change an account's name, sub-category or opening balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, func(ws *workspace.Workspace) error {
				acct, ok := ws.Accounts.Get(args[0])
				if !ok {
					return fmt.Errorf("account %s not found", args[0])
				}
				if cmd.Flags().Changed("name") {
					acct.Name = name
				}
				if cmd.Flags().Changed("sub-category") {
					acct.SubCategory = model.SubCategory(sub)
				}
				if cmd.Flags().Changed("opening") {
					amt, err := parseAmount(opening)
					if err != nil {
						return err
					}
					acct.OpeningBalance = amt
				}
				if err := ws.Accounts.Update(acct); err != nil {
					return err
				}
				if err := ws.SaveAccounts(); err != nil {
					return err
				}
				if _, err := ws.Record(cmd.Context(), activity.ActionAccountChange, "update "+acct.ID, ""); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated account %s\n", acct.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&sub, "sub-category", "", "new sub-category")
	cmd.Flags().StringVar(&opening, "opening", "", "new opening balance")
	return cmd
}

func newAccountsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an unused, non-system account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, func(ws *workspace.Workspace) error {
				if err := ws.Accounts.Delete(args[0], ws.Journal); err != nil {
					return err
				}
				if err := ws.SaveAccounts(); err != nil {
					return err
				}
				if _, err := ws.Record(cmd.Context(), activity.ActionAccountChange, "delete "+args[0], ""); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted account %s\n", args[0])
				return nil
			})
		},
	}
}
