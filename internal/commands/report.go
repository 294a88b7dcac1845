package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/buku/internal/ledger"
	"github.com/cleared-dev/buku/internal/model"
	"github.com/cleared-dev/buku/internal/reports"
	"github.com/cleared-dev/buku/internal/workspace"
)

func newReportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print balances, ledgers and financial statements",
	}
	cmd.AddCommand(
		newBalancesReportCommand(),
		newTrialReportCommand(),
		newOpeningReportCommand(),
		newIncomeReportCommand(),
		newBalanceSheetReportCommand(),
		newLedgerReportCommand(),
		newSummaryReportCommand(),
	)
	return cmd
}

// period holds the --from/--to flags of a report.
type period struct {
	from, to string
}

func (p *period) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.from, "from", "", "first date YYYY-MM-DD (default: beginning)")
	cmd.Flags().StringVar(&p.to, "to", "", "last date YYYY-MM-DD (default: no limit)")
}

func (p *period) parse() (ledger.Period, error) {
	start, err := parseOptionalDate(p.from)
	if err != nil {
		return ledger.Period{}, err
	}
	end, err := parseOptionalDate(p.to)
	if err != nil {
		return ledger.Period{}, err
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return ledger.Period{}, fmt.Errorf("--to %s is before --from %s", p.to, p.from)
	}
	return ledger.Period{Start: start, End: end}, nil
}

// loadBooks reads the chart and every entry, warning about postings to
// accounts no longer in the chart.
func loadBooks(cmd *cobra.Command, ws *workspace.Workspace) ([]model.Account, []model.JournalEntry, error) {
	entries, err := ws.Entries(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	accts := ws.Accounts.All()
	for _, g := range ledger.FindGaps(accts, entries) {
		ws.Log.Warnw("posting references unknown account", "entry", g.EntryID, "ref", g.Ref, "account", g.AccountID)
	}
	return accts, entries, nil
}

func asOfFlag(cmd *cobra.Command, dst *string) {
	cmd.Flags().StringVar(dst, "as-of", "", "include entries up to this date YYYY-MM-DD")
}

func newBalancesReportCommand() *cobra.Command {
	var asOf string
	cmd := &cobra.Command{
		Use:   "balances",
		Short: "Balance of every account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			end, err := parseOptionalDate(asOf)
			if err != nil {
				return err
			}
			return withWorkspace(cmd, func(ws *workspace.Workspace) error {
				accts, entries, err := loadBooks(cmd, ws)
				if err != nil {
					return err
				}
				reports.RenderBalances(cmd.OutOrStdout(), accts, ledger.ComputeBalancesAsOf(accts, entries, end))
				return nil
			})
		},
	}
	asOfFlag(cmd, &asOf)
	return cmd
}

func newTrialReportCommand() *cobra.Command {
	var asOf string
	cmd := &cobra.Command{
		Use:   "trial",
		Short: "Trial balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			end, err := parseOptionalDate(asOf)
			if err != nil {
				return err
			}
			return withWorkspace(cmd, func(ws *workspace.Workspace) error {
				accts, entries, err := loadBooks(cmd, ws)
				if err != nil {
					return err
				}
				reports.RenderTrialBalance(cmd.OutOrStdout(), ledger.BuildTrialBalance(accts, entries, end))
				return nil
			})
		},
	}
	asOfFlag(cmd, &asOf)
	return cmd
}

func newOpeningReportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "opening",
		Short: "Check that opening balances balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, func(ws *workspace.Workspace) error {
				reports.RenderOpeningCheck(cmd.OutOrStdout(), ledger.OpeningTrial(ws.Accounts.All()))
				return nil
			})
		},
	}
}

func newIncomeReportCommand() *cobra.Command {
	var p period
	cmd := &cobra.Command{
		Use:   "income",
		Short: "Income statement for a period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			per, err := p.parse()
			if err != nil {
				return err
			}
			return withWorkspace(cmd, func(ws *workspace.Workspace) error {
				accts, entries, err := loadBooks(cmd, ws)
				if err != nil {
					return err
				}
				reports.RenderIncomeStatement(cmd.OutOrStdout(), reports.BuildIncomeStatement(accts, entries, per.Start, per.End))
				return nil
			})
		},
	}
	p.register(cmd)
	return cmd
}

func newBalanceSheetReportCommand() *cobra.Command {
	var p period
	cmd := &cobra.Command{
		Use:   "balance-sheet",
		Short: "Balance sheet as of --to, with net income of the period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			per, err := p.parse()
			if err != nil {
				return err
			}
			if per.End.IsZero() {
				now := time.Now()
				per.End = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
			}
			return withWorkspace(cmd, func(ws *workspace.Workspace) error {
				accts, entries, err := loadBooks(cmd, ws)
				if err != nil {
					return err
				}
				st := reports.BuildStatements(accts, entries, per.Start, per.End)
				reports.RenderBalanceSheet(cmd.OutOrStdout(), st.Balance)
				return nil
			})
		},
	}
	p.register(cmd)
	return cmd
}

func newLedgerReportCommand() *cobra.Command {
	var p period
	cmd := &cobra.Command{
		Use:   "ledger <account>",
		Short: "Ledger card of one account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			per, err := p.parse()
			if err != nil {
				return err
			}
			return withWorkspace(cmd, func(ws *workspace.Workspace) error {
				acct, ok := ws.Accounts.Get(args[0])
				if !ok {
					return fmt.Errorf("account %s not found", args[0])
				}
				_, entries, err := loadBooks(cmd, ws)
				if err != nil {
					return err
				}
				reports.RenderLedger(cmd.OutOrStdout(), ledger.AccountLedger(acct, entries, per))
				return nil
			})
		},
	}
	p.register(cmd)
	return cmd
}

func newSummaryReportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Total sales and cash position",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, func(ws *workspace.Workspace) error {
				accts, entries, err := loadBooks(cmd, ws)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), ws.Config.Business.Name)
				reports.RenderSummary(cmd.OutOrStdout(), reports.BuildSummary(accts, entries))
				return nil
			})
		},
	}
}
