package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/buku/internal/model"
)

// OpeningTolerance is the largest opening-balance difference still treated
// as balanced.
var OpeningTolerance = decimal.RequireFromString("0.01")

// TrialLine is one account's balance placed in the debit or credit column.
type TrialLine struct {
	Account model.Account
	Debit   decimal.Decimal
	Credit  decimal.Decimal
}

// TrialBalance lists every account with its balance in the column of its
// sign, plus column totals.
type TrialBalance struct {
	AsOf        time.Time
	Lines       []TrialLine
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
}

// Balanced reports whether the debit and credit columns agree.
func (t TrialBalance) Balanced() bool {
	return t.TotalDebit.Equal(t.TotalCredit)
}

// BuildTrialBalance folds entries dated on or before asOf (zero = all) and
// places each balance on the debit or credit side. A debit-normal account
// with a negative balance lands in the credit column and vice versa.
func BuildTrialBalance(accts []model.Account, entries []model.JournalEntry, asOf time.Time) TrialBalance {
	bal := ComputeBalancesAsOf(accts, entries, asOf)
	tb := TrialBalance{AsOf: asOf, TotalDebit: decimal.Zero, TotalCredit: decimal.Zero}

	for _, a := range accts {
		v := bal.Of(a.ID)
		line := TrialLine{Account: a, Debit: decimal.Zero, Credit: decimal.Zero}

		debitSide := a.Category.DebitNormal() == !v.IsNegative()
		if debitSide {
			line.Debit = v.Abs()
		} else {
			line.Credit = v.Abs()
		}
		tb.TotalDebit = tb.TotalDebit.Add(line.Debit)
		tb.TotalCredit = tb.TotalCredit.Add(line.Credit)
		tb.Lines = append(tb.Lines, line)
	}
	return tb
}

// OpeningCheck compares opening balances of debit-normal accounts against
// credit-normal ones.
type OpeningCheck struct {
	Debit      decimal.Decimal
	Credit     decimal.Decimal
	Difference decimal.Decimal
}

// Balanced reports whether the two sides agree within OpeningTolerance.
func (c OpeningCheck) Balanced() bool {
	return c.Difference.Abs().LessThanOrEqual(OpeningTolerance)
}

// OpeningTrial sums opening balances by polarity.
func OpeningTrial(accts []model.Account) OpeningCheck {
	c := OpeningCheck{Debit: decimal.Zero, Credit: decimal.Zero}
	for _, a := range accts {
		if a.Category.DebitNormal() {
			c.Debit = c.Debit.Add(a.OpeningBalance)
		} else {
			c.Credit = c.Credit.Add(a.OpeningBalance)
		}
	}
	c.Difference = c.Debit.Sub(c.Credit)
	return c
}
