package reports

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/buku/internal/ledger"
	"github.com/cleared-dev/buku/internal/model"
)

// Summary holds the dashboard figures.
type Summary struct {
	TotalSales decimal.Decimal
	TotalCash  decimal.Decimal
	Entries    int
	Accounts   int
}

// BuildSummary totals revenue credited by sale entries and the balances of
// all cash/bank accounts.
func BuildSummary(accts []model.Account, entries []model.JournalEntry) Summary {
	s := Summary{TotalSales: decimal.Zero, TotalCash: decimal.Zero, Entries: len(entries), Accounts: len(accts)}

	revenue := make(map[string]bool)
	for _, a := range accts {
		if a.Category == model.CategoryRevenue {
			revenue[a.ID] = true
		}
	}
	for _, e := range entries {
		if e.Type != model.EntrySale {
			continue
		}
		for _, p := range e.Postings {
			if revenue[p.AccountID] {
				s.TotalSales = s.TotalSales.Add(p.Credit.Sub(p.Debit))
			}
		}
	}

	bal := ledger.ComputeBalances(accts, entries)
	for _, a := range accts {
		if a.SubCategory == model.SubBank {
			s.TotalCash = s.TotalCash.Add(bal.Of(a.ID))
		}
	}
	return s
}
