// Package ledger folds journal entries over a chart of accounts. Every
// function here is pure: callers own the slices they pass in.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/buku/internal/model"
)

// Balances maps account ID to its balance on the account's normal side.
type Balances map[string]decimal.Decimal

// Of returns the balance for id, zero when absent.
func (b Balances) Of(id string) decimal.Decimal {
	if v, ok := b[id]; ok {
		return v
	}
	return decimal.Zero
}

// ComputeBalances starts every account at its opening balance and applies
// each posting with the account's polarity. Postings to unknown accounts are
// skipped.
func ComputeBalances(accts []model.Account, entries []model.JournalEntry) Balances {
	return ComputeBalancesAsOf(accts, entries, time.Time{})
}

// ComputeBalancesAsOf is ComputeBalances restricted to entries dated on or
// before asOf. A zero asOf includes everything.
func ComputeBalancesAsOf(accts []model.Account, entries []model.JournalEntry, asOf time.Time) Balances {
	byID := index(accts)
	out := make(Balances, len(accts))
	for _, a := range accts {
		out[a.ID] = a.OpeningBalance
	}

	for _, e := range entries {
		if !e.Within(time.Time{}, asOf) {
			continue
		}
		for _, p := range e.Postings {
			a, ok := byID[p.AccountID]
			if !ok {
				continue
			}
			out[a.ID] = out[a.ID].Add(a.Signed(p.Debit, p.Credit))
		}
	}
	return out
}

// Gap is a posting whose account is not in the chart.
type Gap struct {
	EntryID   string
	Ref       string
	AccountID string
}

// FindGaps lists the postings every fold in this package silently skips.
func FindGaps(accts []model.Account, entries []model.JournalEntry) []Gap {
	byID := index(accts)
	var gaps []Gap
	for _, e := range entries {
		for _, p := range e.Postings {
			if _, ok := byID[p.AccountID]; !ok {
				gaps = append(gaps, Gap{EntryID: e.ID, Ref: e.Ref, AccountID: p.AccountID})
			}
		}
	}
	return gaps
}

func index(accts []model.Account) map[string]model.Account {
	m := make(map[string]model.Account, len(accts))
	for _, a := range accts {
		m[a.ID] = a
	}
	return m
}
