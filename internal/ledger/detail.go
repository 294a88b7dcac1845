package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/buku/internal/model"
)

// Period is an inclusive date window. A zero Start or End is unbounded.
type Period struct {
	Start time.Time
	End   time.Time
}

// IsZero reports whether the period has no bounds at all.
func (p Period) IsZero() bool {
	return p.Start.IsZero() && p.End.IsZero()
}

// Contains reports whether d falls within the period.
func (p Period) Contains(d time.Time) bool {
	if !p.Start.IsZero() && d.Before(p.Start) {
		return false
	}
	if !p.End.IsZero() && d.After(p.End) {
		return false
	}
	return true
}

// Row is one posting in an account ledger with the running balance after it.
type Row struct {
	EntryID     string
	Date        time.Time
	Ref         string
	Description string
	Type        model.EntryType
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Balance     decimal.Decimal
}

// Detail is the ledger card of one account.
type Detail struct {
	Account   model.Account
	Beginning decimal.Decimal
	Rows      []Row
	Ending    decimal.Decimal
}

// AccountLedger computes the beginning balance of acct at the start of p
// (opening plus every posting dated strictly before p.Start) and the running
// balance through the postings inside p. Rows are ordered by date; postings
// on the same date keep their order in entries.
func AccountLedger(acct model.Account, entries []model.JournalEntry, p Period) Detail {
	d := Detail{Account: acct, Beginning: acct.OpeningBalance}

	type dated struct {
		entry   model.JournalEntry
		posting model.Posting
	}
	var inside []dated

	for _, e := range entries {
		for _, ps := range e.Postings {
			if ps.AccountID != acct.ID {
				continue
			}
			switch {
			case !p.Start.IsZero() && e.Date.Before(p.Start):
				d.Beginning = d.Beginning.Add(acct.Signed(ps.Debit, ps.Credit))
			case p.Contains(e.Date):
				inside = append(inside, dated{entry: e, posting: ps})
			}
		}
	}

	sort.SliceStable(inside, func(i, j int) bool {
		return inside[i].entry.Date.Before(inside[j].entry.Date)
	})

	balance := d.Beginning
	d.Rows = make([]Row, 0, len(inside))
	for _, x := range inside {
		balance = balance.Add(acct.Signed(x.posting.Debit, x.posting.Credit))
		d.Rows = append(d.Rows, Row{
			EntryID:     x.entry.ID,
			Date:        x.entry.Date,
			Ref:         x.entry.Ref,
			Description: x.entry.Description,
			Type:        x.entry.Type,
			Debit:       x.posting.Debit,
			Credit:      x.posting.Credit,
			Balance:     balance,
		})
	}
	d.Ending = balance
	return d
}
