// Package reports projects journal entries into the income statement,
// balance sheet and dashboard summary.
package reports

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/buku/internal/ledger"
	"github.com/cleared-dev/buku/internal/model"
)

// NetIncomeID and NetIncomeName label the synthetic current-period earnings
// line injected into equity.
const (
	NetIncomeID   = "netIncome"
	NetIncomeName = "Laba (Rugi) Periode Berjalan"
)

// Line is one account on a statement.
type Line struct {
	AccountID   string
	Name        string
	SubCategory model.SubCategory
	Amount      decimal.Decimal
}

// Subtotal sums the lines of one sub-category within a section.
type Subtotal struct {
	SubCategory model.SubCategory
	Total       decimal.Decimal
}

// Section groups the lines of one category.
type Section struct {
	Label     string
	Category  model.Category
	Lines     []Line
	Subtotals []Subtotal
	Total     decimal.Decimal
}

func newSection(label string, cat model.Category) Section {
	return Section{Label: label, Category: cat, Total: decimal.Zero}
}

func (s *Section) add(l Line) {
	s.Lines = append(s.Lines, l)
	s.Total = s.Total.Add(l.Amount)
	for i := range s.Subtotals {
		if s.Subtotals[i].SubCategory == l.SubCategory {
			s.Subtotals[i].Total = s.Subtotals[i].Total.Add(l.Amount)
			return
		}
	}
	s.Subtotals = append(s.Subtotals, Subtotal{SubCategory: l.SubCategory, Total: l.Amount})
}

// IncomeStatement is period activity of revenue and expense accounts.
type IncomeStatement struct {
	Start       time.Time
	End         time.Time
	Revenue     Section
	CostOfSales Section
	Expenses    Section
	GrossProfit decimal.Decimal
	NetIncome   decimal.Decimal
}

// BuildIncomeStatement folds entries dated within [start, end] starting from
// zero. Revenue accumulates credit − debit, expenses debit − credit. Only
// accounts with non-zero period activity appear.
func BuildIncomeStatement(accts []model.Account, entries []model.JournalEntry, start, end time.Time) IncomeStatement {
	is := IncomeStatement{
		Start:       start,
		End:         end,
		Revenue:     newSection("Pendapatan", model.CategoryRevenue),
		CostOfSales: newSection("Harga Pokok Penjualan", model.CategoryExpense),
		Expenses:    newSection("Beban", model.CategoryExpense),
	}

	activity := make(map[string]decimal.Decimal)
	byID := make(map[string]model.Account, len(accts))
	for _, a := range accts {
		byID[a.ID] = a
	}
	for _, e := range entries {
		if !e.Within(start, end) {
			continue
		}
		for _, p := range e.Postings {
			a, ok := byID[p.AccountID]
			if !ok {
				continue
			}
			if a.Category != model.CategoryRevenue && a.Category != model.CategoryExpense {
				continue
			}
			activity[a.ID] = activity[a.ID].Add(a.Signed(p.Debit, p.Credit))
		}
	}

	for _, a := range accts {
		amt, ok := activity[a.ID]
		if !ok || amt.IsZero() {
			continue
		}
		l := Line{AccountID: a.ID, Name: a.Name, SubCategory: a.SubCategory, Amount: amt}
		switch {
		case a.Category == model.CategoryRevenue:
			is.Revenue.add(l)
		case a.SubCategory == model.SubCostOfSales:
			is.CostOfSales.add(l)
		default:
			is.Expenses.add(l)
		}
	}

	is.GrossProfit = is.Revenue.Total.Sub(is.CostOfSales.Total)
	is.NetIncome = is.GrossProfit.Sub(is.Expenses.Total)
	return is
}

// BalanceSheet is the position of asset, liability and equity accounts as
// of a date.
type BalanceSheet struct {
	AsOf                      time.Time
	Assets                    Section
	Liabilities               Section
	Equity                    Section
	NetIncome                 decimal.Decimal
	TotalLiabilitiesAndEquity decimal.Decimal
}

// Balanced reports whether assets equal liabilities plus equity.
func (b BalanceSheet) Balanced() bool {
	return b.Assets.Total.Equal(b.TotalLiabilitiesAndEquity)
}

// BuildBalanceSheet folds entries dated on or before asOf starting from
// opening balances. Every asset, liability and equity account appears. The
// supplied netIncome is added to equity as a synthetic line.
func BuildBalanceSheet(accts []model.Account, entries []model.JournalEntry, asOf time.Time, netIncome decimal.Decimal) BalanceSheet {
	bal := ledger.ComputeBalancesAsOf(accts, entries, asOf)
	bs := BalanceSheet{
		AsOf:        asOf,
		Assets:      newSection("Aset", model.CategoryAsset),
		Liabilities: newSection("Liabilitas", model.CategoryLiability),
		Equity:      newSection("Ekuitas", model.CategoryEquity),
		NetIncome:   netIncome,
	}

	for _, a := range accts {
		l := Line{AccountID: a.ID, Name: a.Name, SubCategory: a.SubCategory, Amount: bal.Of(a.ID)}
		switch a.Category {
		case model.CategoryAsset:
			bs.Assets.add(l)
		case model.CategoryLiability:
			bs.Liabilities.add(l)
		case model.CategoryEquity:
			bs.Equity.add(l)
		}
	}
	bs.Equity.add(Line{AccountID: NetIncomeID, Name: NetIncomeName, SubCategory: model.SubEquity, Amount: netIncome})

	bs.TotalLiabilitiesAndEquity = bs.Liabilities.Total.Add(bs.Equity.Total)
	return bs
}

// Statements pairs an income statement with the balance sheet at its end.
type Statements struct {
	Income  IncomeStatement
	Balance BalanceSheet
}

// BuildStatements returns the income statement for [start, end] and the
// balance sheet as of end carrying that period's net income.
func BuildStatements(accts []model.Account, entries []model.JournalEntry, start, end time.Time) Statements {
	is := BuildIncomeStatement(accts, entries, start, end)
	return Statements{
		Income:  is,
		Balance: BuildBalanceSheet(accts, entries, end, is.NetIncome),
	}
}
