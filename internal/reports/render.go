package reports

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/buku/internal/ledger"
	"github.com/cleared-dev/buku/internal/model"
)

// DateFormat is the date layout used in rendered reports.
const DateFormat = "2006-01-02"

// NameWidth is the width of the account column in rendered reports.
const NameWidth = 40

const amountWidth = 18

// Amount formats d with 2 decimals and thousands separators, e.g. 1,250,000.00.
func Amount(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String() + "." + frac
	if neg {
		return "-" + out
	}
	return out
}

func label(id, name string) string {
	s := id + " " + name
	if len(s) > NameWidth {
		return s[:NameWidth]
	}
	return s
}

func row(w io.Writer, indent int, name string, amounts ...decimal.Decimal) {
	pad := strings.Repeat(" ", indent)
	width := NameWidth - indent
	if width < 1 {
		width = 1
	}
	fmt.Fprintf(w, "%s%-*s", pad, width, name)
	for _, a := range amounts {
		fmt.Fprintf(w, " %*s", amountWidth, Amount(a))
	}
	fmt.Fprintln(w)
}

func rule(w io.Writer, cols int) {
	fmt.Fprintln(w, strings.Repeat("-", NameWidth+cols*(amountWidth+1)))
}

func renderSection(w io.Writer, s Section, showEmpty bool) {
	fmt.Fprintln(w, s.Label)
	for _, sub := range s.Subtotals {
		if len(s.Subtotals) > 1 {
			fmt.Fprintf(w, "  %s\n", sub.SubCategory)
		}
		for _, l := range s.Lines {
			if l.SubCategory != sub.SubCategory {
				continue
			}
			if !showEmpty && l.Amount.IsZero() {
				continue
			}
			row(w, 4, label(l.AccountID, l.Name), l.Amount)
		}
		if len(s.Subtotals) > 1 {
			row(w, 2, "Total "+string(sub.SubCategory), sub.Total)
		}
	}
	row(w, 0, "Total "+s.Label, s.Total)
}

// RenderIncomeStatement writes the income statement as text.
func RenderIncomeStatement(w io.Writer, is IncomeStatement) {
	fmt.Fprintf(w, "LAPORAN LABA RUGI %s\n", periodLabel(is.Start, is.End))
	rule(w, 1)
	renderSection(w, is.Revenue, true)
	fmt.Fprintln(w)
	renderSection(w, is.CostOfSales, true)
	rule(w, 1)
	row(w, 0, "Laba Kotor", is.GrossProfit)
	fmt.Fprintln(w)
	renderSection(w, is.Expenses, true)
	rule(w, 1)
	row(w, 0, "Laba (Rugi) Bersih", is.NetIncome)
}

// RenderBalanceSheet writes the balance sheet as text. Zero-balance accounts
// are omitted from the listing but still counted.
func RenderBalanceSheet(w io.Writer, bs BalanceSheet) {
	fmt.Fprintf(w, "NERACA per %s\n", bs.AsOf.Format(DateFormat))
	rule(w, 1)
	renderSection(w, bs.Assets, false)
	fmt.Fprintln(w)
	renderSection(w, bs.Liabilities, false)
	fmt.Fprintln(w)
	renderSection(w, bs.Equity, false)
	rule(w, 1)
	row(w, 0, "Total Liabilitas dan Ekuitas", bs.TotalLiabilitiesAndEquity)
	if !bs.Balanced() {
		fmt.Fprintf(w, "WARNING: assets differ from liabilities + equity by %s\n",
			Amount(bs.Assets.Total.Sub(bs.TotalLiabilitiesAndEquity)))
	}
}

// RenderTrialBalance writes the trial balance as text.
func RenderTrialBalance(w io.Writer, tb ledger.TrialBalance) {
	title := "NERACA SALDO"
	if !tb.AsOf.IsZero() {
		title += " per " + tb.AsOf.Format(DateFormat)
	}
	fmt.Fprintln(w, title)
	fmt.Fprintf(w, "%-*s %*s %*s\n", NameWidth, "Akun", amountWidth, "Debit", amountWidth, "Kredit")
	rule(w, 2)
	for _, l := range tb.Lines {
		row(w, 0, label(l.Account.ID, l.Account.Name), l.Debit, l.Credit)
	}
	rule(w, 2)
	row(w, 0, "Total", tb.TotalDebit, tb.TotalCredit)
	if !tb.Balanced() {
		fmt.Fprintln(w, "WARNING: trial balance does not balance")
	}
}

// RenderBalances writes every account with its balance.
func RenderBalances(w io.Writer, accts []model.Account, bal ledger.Balances) {
	for _, a := range accts {
		row(w, 0, label(a.ID, a.Name), bal.Of(a.ID))
	}
}

// RenderLedger writes an account ledger card.
func RenderLedger(w io.Writer, d ledger.Detail) {
	fmt.Fprintf(w, "BUKU BESAR %s %s (%s)\n", d.Account.ID, d.Account.Name, d.Account.Category)
	fmt.Fprintf(w, "%-10s %-12s %-28s %*s %*s %*s\n", "Tanggal", "Ref", "Keterangan",
		amountWidth, "Debit", amountWidth, "Kredit", amountWidth, "Saldo")
	fmt.Fprintf(w, "%-10s %-12s %-28s %*s %*s %*s\n", "", "", "Saldo Awal",
		amountWidth, "", amountWidth, "", amountWidth, Amount(d.Beginning))
	for _, r := range d.Rows {
		desc := r.Description
		if len(desc) > 28 {
			desc = desc[:28]
		}
		fmt.Fprintf(w, "%-10s %-12s %-28s %*s %*s %*s\n", r.Date.Format(DateFormat), r.Ref, desc,
			amountWidth, Amount(r.Debit), amountWidth, Amount(r.Credit), amountWidth, Amount(r.Balance))
	}
	fmt.Fprintf(w, "%-10s %-12s %-28s %*s %*s %*s\n", "", "", "Saldo Akhir",
		amountWidth, "", amountWidth, "", amountWidth, Amount(d.Ending))
}

// RenderSummary writes the dashboard figures.
func RenderSummary(w io.Writer, s Summary) {
	row(w, 0, "Total Penjualan", s.TotalSales)
	row(w, 0, "Total Kas dan Bank", s.TotalCash)
	fmt.Fprintf(w, "%-*s %*d\n", NameWidth, "Jurnal", amountWidth, s.Entries)
	fmt.Fprintf(w, "%-*s %*d\n", NameWidth, "Akun", amountWidth, s.Accounts)
}

func periodLabel(start, end time.Time) string {
	from, to := "awal", "akhir"
	if !start.IsZero() {
		from = start.Format(DateFormat)
	}
	if !end.IsZero() {
		to = end.Format(DateFormat)
	}
	return from + " s/d " + to
}

// RenderOpeningCheck writes the opening-balance totals by polarity.
func RenderOpeningCheck(w io.Writer, c ledger.OpeningCheck) {
	fmt.Fprintln(w, "SALDO AWAL")
	row(w, 0, "Debit (Aset, Beban)", c.Debit)
	row(w, 0, "Kredit (Liabilitas, Ekuitas, Pendapatan)", c.Credit)
	row(w, 0, "Selisih", c.Difference)
	if !c.Balanced() {
		fmt.Fprintln(w, "WARNING: opening balances do not balance")
	}
}
