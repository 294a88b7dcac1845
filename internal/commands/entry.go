package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/buku/internal/activity"
	"github.com/cleared-dev/buku/internal/builder"
	"github.com/cleared-dev/buku/internal/model"
	"github.com/cleared-dev/buku/internal/reports"
	"github.com/cleared-dev/buku/internal/workspace"
)

func newEntryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entry",
		Short: "Record and inspect journal entries",
	}
	cmd.AddCommand(
		newDocumentCommand(model.EntrySale),
		newDocumentCommand(model.EntryPurchase),
		newCashCommand(model.EntryCashReceipt),
		newCashCommand(model.EntryCashPayment),
		newJournalCommand(),
		newEntryListCommand(),
		newEntryShowCommand(),
		newEntryDeleteCommand(),
	)
	return cmd
}

// commonFlags are shared by every document command.
type commonFlags struct {
	date    string
	ref     string
	desc    string
	replace string
}

func (f *commonFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.date, "date", "", "entry date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&f.ref, "ref", "", "document number (required)")
	cmd.Flags().StringVar(&f.desc, "desc", "", "description")
	cmd.Flags().StringVar(&f.replace, "replace", "", "replace the entry with this id instead of creating one")
	_ = cmd.MarkFlagRequired("ref")
}

// save creates or replaces e, records it and prints the resulting id.
func save(ctx context.Context, cmd *cobra.Command, ws *workspace.Workspace, e model.JournalEntry, replace string) error {
	var id string
	var err error
	action := activity.ActionEntryCreate
	if replace != "" {
		action = activity.ActionEntryReplace
		id, err = ws.Journal.Replace(ctx, replace, e)
	} else {
		id, err = ws.Journal.Create(ctx, e)
	}
	if err != nil {
		return err
	}
	if _, err := ws.Record(ctx, action, fmt.Sprintf("%s %s %s", e.Type, e.Ref, e.Description), id); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), id)
	return nil
}

func newDocumentCommand(kind model.EntryType) *cobra.Command {
	var common commonFlags
	var contact, payment, account, tax string
	var items []string

	contactKind := model.ContactClient
	use, short := "sale", "Record a sale to a client"
	if kind == model.EntryPurchase {
		contactKind = model.ContactSupplier
		use, short = "purchase", "Record a purchase from a supplier"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDate(common.date)
			if err != nil {
				return err
			}
			lines := make([]builder.LineItem, 0, len(items))
			for _, s := range items {
				it, err := parseItem(s)
				if err != nil {
					return err
				}
				lines = append(lines, it)
			}

			return withWorkspace(cmd, func(ws *workspace.Workspace) error {
				cp, err := ws.Contacts.Find(contactKind, contact)
				if err != nil {
					return err
				}
				in := builder.DocumentInput{
					Date:         date,
					Ref:          common.ref,
					Description:  common.desc,
					Counterparty: cp,
					PaymentMode:  builder.PaymentMode(payment),
					AccountID:    account,
					TaxOption:    model.TaxOption(tax),
					Items:        lines,
				}
				var e model.JournalEntry
				if kind == model.EntrySale {
					e, err = ws.Builder.Sale(in)
				} else {
					e, err = ws.Builder.Purchase(in)
				}
				if err != nil {
					return err
				}
				return save(cmd.Context(), cmd, ws, e, common.replace)
			})
		},
	}

	common.register(cmd)
	cmd.Flags().StringVar(&contact, string(contactKind), "", string(contactKind)+" name or id (required)")
	cmd.Flags().StringVar(&payment, "payment", string(builder.PaymentCredit), "credit or cash")
	cmd.Flags().StringVar(&account, "account", "", "receivable/payable account for credit, cash/bank account for cash (required)")
	cmd.Flags().StringVar(&tax, "tax", string(model.TaxExclude), "exclude, include or non_ppn")
	cmd.Flags().StringArrayVar(&items, "item", nil, "line item description:qty:price (repeatable, required)")
	_ = cmd.MarkFlagRequired(string(contactKind))
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("item")
	return cmd
}

func newCashCommand(kind model.EntryType) *cobra.Command {
	var common commonFlags
	var account, counter, amount, contact string

	use, short := "receipt", "Record money received into a cash/bank account"
	if kind == model.EntryCashPayment {
		use, short = "payment", "Record money paid from a cash/bank account"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDate(common.date)
			if err != nil {
				return err
			}
			amt, err := parseAmount(amount)
			if err != nil {
				return err
			}
			return withWorkspace(cmd, func(ws *workspace.Workspace) error {
				in := builder.CashInput{
					Date:             date,
					Ref:              common.ref,
					Description:      common.desc,
					AccountID:        account,
					CounterAccountID: counter,
					Amount:           amt,
				}
				if contact != "" {
					c, err := ws.Contacts.Get(contact)
					if err != nil {
						return err
					}
					in.Counterparty = c.ID
				}
				var e model.JournalEntry
				if kind == model.EntryCashReceipt {
					e, err = ws.Builder.CashReceipt(in)
				} else {
					e, err = ws.Builder.CashPayment(in)
				}
				if err != nil {
					return err
				}
				return save(cmd.Context(), cmd, ws, e, common.replace)
			})
		},
	}

	common.register(cmd)
	cmd.Flags().StringVar(&account, "account", "", "cash/bank account (required)")
	cmd.Flags().StringVar(&counter, "counter", "", "counter account (required)")
	cmd.Flags().StringVar(&amount, "amount", "", "amount (required)")
	cmd.Flags().StringVar(&contact, "contact", "", "optional contact id")
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("counter")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func newJournalCommand() *cobra.Command {
	var common commonFlags
	var debits, credits []string

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Record a manual journal entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDate(common.date)
			if err != nil {
				return err
			}
			var lines []model.Posting
			for _, s := range debits {
				p, err := parseLine(s, true)
				if err != nil {
					return err
				}
				lines = append(lines, p)
			}
			for _, s := range credits {
				p, err := parseLine(s, false)
				if err != nil {
					return err
				}
				lines = append(lines, p)
			}
			return withWorkspace(cmd, func(ws *workspace.Workspace) error {
				e, err := ws.Builder.Journal(builder.JournalInput{
					Date:        date,
					Ref:         common.ref,
					Description: common.desc,
					Lines:       lines,
				})
				if err != nil {
					return err
				}
				return save(cmd.Context(), cmd, ws, e, common.replace)
			})
		},
	}

	common.register(cmd)
	cmd.Flags().StringArrayVar(&debits, "debit", nil, "debit line account:amount (repeatable)")
	cmd.Flags().StringArrayVar(&credits, "credit", nil, "credit line account:amount (repeatable)")
	return cmd
}

func newEntryListCommand() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List journal entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseOptionalDate(from)
			if err != nil {
				return err
			}
			end, err := parseOptionalDate(to)
			if err != nil {
				return err
			}
			return withWorkspace(cmd, func(ws *workspace.Workspace) error {
				entries, err := ws.Entries(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, e := range entries {
					if !e.Within(start, end) {
						continue
					}
					debit, _ := e.Totals()
					fmt.Fprintf(out, "%-36s %s %-12s %-14s %-32s %18s\n",
						e.ID, e.Date.Format(dateLayout), e.Type, e.Ref, e.Description, reports.Amount(debit))
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "first date YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "last date YYYY-MM-DD")
	return cmd
}

func newEntryShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one journal entry with its postings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, func(ws *workspace.Workspace) error {
				e, err := ws.Journal.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s  %s  %s  %s\n", e.ID, e.Date.Format(dateLayout), e.Type, e.Ref)
				fmt.Fprintln(out, e.Description)
				if e.Counterparty != "" {
					name := e.Counterparty
					if c, err := ws.Contacts.Get(e.Counterparty); err == nil {
						name = c.Name
					}
					fmt.Fprintf(out, "Kontak: %s\n", name)
				}
				if e.TaxOption != "" {
					fmt.Fprintf(out, "Pajak: %s\n", e.TaxOption)
				}
				for _, p := range e.Postings {
					name := "?"
					if a, ok := ws.Accounts.Get(p.AccountID); ok {
						name = a.Name
					}
					fmt.Fprintf(out, "  %-6s %-32s %18s %18s\n", p.AccountID, name, reports.Amount(p.Debit), reports.Amount(p.Credit))
				}
				debit, credit := e.Totals()
				fmt.Fprintf(out, "  %-39s %18s %18s\n", "Total", reports.Amount(debit), reports.Amount(credit))
				return nil
			})
		},
	}
}

func newEntryDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a journal entry and its postings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, func(ws *workspace.Workspace) error {
				e, err := ws.Journal.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if err := ws.Journal.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				if _, err := ws.Record(cmd.Context(), activity.ActionEntryDelete, fmt.Sprintf("%s %s", e.Type, e.Ref), e.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", e.ID)
				return nil
			})
		},
	}
}
