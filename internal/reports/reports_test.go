package reports

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/buku/internal/accounts"
	"github.com/cleared-dev/buku/internal/builder"
	"github.com/cleared-dev/buku/internal/ledger"
	"github.com/cleared-dev/buku/internal/model"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func assertDec(t *testing.T, want string, got decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "%s: want %s got %s", msg, want, got)
}

// books returns a chart with balanced openings and a month of documents
// built through the builder.
func books(t *testing.T) ([]model.Account, []model.JournalEntry) {
	t.Helper()

	svc := accounts.NewService(accounts.DefaultChart())
	require.NoError(t, svc.SetOpening(accounts.IDCash, dec("10000000")))
	require.NoError(t, svc.SetOpening(accounts.IDCapital, dec("10000000")))
	chart := svc.All()

	b := builder.New(svc, model.TaxSettings{PPNRate: dec("0.11")})
	client := model.Contact{ID: "c1", Name: "Toko Maju", Kind: model.ContactClient}
	supplier := model.Contact{ID: "s1", Name: "CV Sumber", Kind: model.ContactSupplier}

	var entries []model.JournalEntry
	add := func(e model.JournalEntry, err error) {
		t.Helper()
		require.NoError(t, err)
		entries = append(entries, e)
	}

	add(b.Sale(builder.DocumentInput{
		Date: date(2025, 1, 5), Ref: "INV-1", Counterparty: client,
		PaymentMode: builder.PaymentCredit, AccountID: accounts.IDReceivable,
		TaxOption: model.TaxExclude, Items: []builder.LineItem{{Qty: dec("2"), Price: dec("500")}},
	}))
	add(b.Purchase(builder.DocumentInput{
		Date: date(2025, 1, 8), Ref: "PO-1", Counterparty: supplier,
		PaymentMode: builder.PaymentCredit, AccountID: accounts.IDPayable,
		TaxOption: model.TaxExclude, Items: []builder.LineItem{{Qty: dec("1"), Price: dec("500")}},
	}))
	add(b.CashPayment(builder.CashInput{
		Date: date(2025, 1, 10), Ref: "KK-1", Description: "Sewa Januari",
		AccountID: accounts.IDCash, CounterAccountID: "6102", Amount: dec("200"),
	}))
	add(b.CashReceipt(builder.CashInput{
		Date: date(2025, 1, 20), Ref: "KM-1", Description: "Pelunasan INV-1",
		AccountID: accounts.IDBank, CounterAccountID: accounts.IDReceivable, Amount: dec("1110"),
	}))
	add(b.Sale(builder.DocumentInput{
		Date: date(2025, 2, 3), Ref: "INV-2", Counterparty: client,
		PaymentMode: builder.PaymentCash, AccountID: accounts.IDCash,
		TaxOption: model.TaxNonPPN, Items: []builder.LineItem{{Qty: dec("1"), Price: dec("400")}},
	}))
	return chart, entries
}

func lineIDs(lines []Line) []string {
	ids := make([]string, len(lines))
	for i, l := range lines {
		ids[i] = l.AccountID
	}
	return ids
}

func TestIncomeStatement(t *testing.T) {
	chart, entries := books(t)
	is := BuildIncomeStatement(chart, entries, date(2025, 1, 1), date(2025, 1, 31))

	assert.Equal(t, []string{accounts.IDSalesRevenue}, lineIDs(is.Revenue.Lines), "only non-zero period accounts")
	assert.Equal(t, []string{accounts.IDPurchases}, lineIDs(is.CostOfSales.Lines))
	assert.Equal(t, []string{"6102"}, lineIDs(is.Expenses.Lines))

	assertDec(t, "1000", is.Revenue.Total, "revenue")
	assertDec(t, "500", is.CostOfSales.Total, "cost of sales")
	assertDec(t, "200", is.Expenses.Total, "expenses")
	assertDec(t, "500", is.GrossProfit, "gross profit")
	assertDec(t, "300", is.NetIncome, "net income")
}

func TestIncomeStatement_StartsFromZero(t *testing.T) {
	chart, entries := books(t)
	for i := range chart {
		if chart[i].ID == accounts.IDSalesRevenue {
			chart[i].OpeningBalance = dec("999")
		}
	}
	is := BuildIncomeStatement(chart, entries, date(2025, 2, 1), date(2025, 2, 28))
	assert.Equal(t, []string{accounts.IDSalesRevenueNonPPN}, lineIDs(is.Revenue.Lines))
	assertDec(t, "400", is.NetIncome, "february only, openings ignored")
}

func TestBalanceSheet_Identity(t *testing.T) {
	chart, entries := books(t)

	for _, end := range []time.Time{date(2025, 1, 9), date(2025, 1, 31), date(2025, 2, 28)} {
		st := BuildStatements(chart, entries, time.Time{}, end)
		bs := st.Balance
		assert.True(t, bs.Balanced(), "as of %s: assets %s vs L+E %s", end.Format(DateFormat), bs.Assets.Total, bs.TotalLiabilitiesAndEquity)
		assert.True(t, bs.Assets.Total.Equal(bs.Liabilities.Total.Add(bs.Equity.Total)))
	}
}

func TestBalanceSheet_Sections(t *testing.T) {
	chart, entries := books(t)
	st := BuildStatements(chart, entries, date(2025, 1, 1), date(2025, 1, 31))
	bs := st.Balance

	assertDec(t, "10000965", bs.Assets.Total, "assets")
	assertDec(t, "665", bs.Liabilities.Total, "liabilities")
	assertDec(t, "10000300", bs.Equity.Total, "equity incl. net income")
	assertDec(t, "300", bs.NetIncome, "net income")

	last := bs.Equity.Lines[len(bs.Equity.Lines)-1]
	assert.Equal(t, NetIncomeID, last.AccountID)
	assert.Equal(t, NetIncomeName, last.Name)

	assetCount := 0
	for _, a := range chart {
		if a.Category == model.CategoryAsset {
			assetCount++
		}
	}
	assert.Len(t, bs.Assets.Lines, assetCount, "zero-balance accounts are listed")

	var bank Subtotal
	for _, s := range bs.Assets.Subtotals {
		if s.SubCategory == model.SubBank {
			bank = s
		}
	}
	assertDec(t, "10000910", bank.Total, "Kas + Bank subtotal")
}

func TestBalanceSheet_ExcludesLaterEntries(t *testing.T) {
	chart, entries := books(t)
	bs := BuildBalanceSheet(chart, entries, date(2025, 1, 6), decimal.Zero)

	var ar Line
	for _, l := range bs.Assets.Lines {
		if l.AccountID == accounts.IDReceivable {
			ar = l
		}
	}
	assertDec(t, "1110", ar.Amount, "receivable before collection")
	assert.False(t, bs.Balanced(), "net income left out on purpose")
}

func TestSummary(t *testing.T) {
	chart, entries := books(t)
	s := BuildSummary(chart, entries)
	assertDec(t, "1400", s.TotalSales, "sales")
	assertDec(t, "10001310", s.TotalCash, "cash")
	assert.Equal(t, len(entries), s.Entries)
}

func TestAmount(t *testing.T) {
	assert.Equal(t, "0.00", Amount(decimal.Zero))
	assert.Equal(t, "999.50", Amount(dec("999.5")))
	assert.Equal(t, "1,250,000.00", Amount(dec("1250000")))
	assert.Equal(t, "-12,345.68", Amount(dec("-12345.678")))
}

func TestRender(t *testing.T) {
	chart, entries := books(t)
	st := BuildStatements(chart, entries, date(2025, 1, 1), date(2025, 1, 31))

	var buf bytes.Buffer
	RenderIncomeStatement(&buf, st.Income)
	assert.Contains(t, buf.String(), "4101 Penjualan")
	assert.Contains(t, buf.String(), "300.00")

	buf.Reset()
	RenderBalanceSheet(&buf, st.Balance)
	assert.Contains(t, buf.String(), NetIncomeName)
	assert.NotContains(t, buf.String(), "WARNING")
}

func TestRenderOpeningCheck(t *testing.T) {
	chart, _ := books(t)

	var buf bytes.Buffer
	RenderOpeningCheck(&buf, ledger.OpeningTrial(chart))
	assert.Contains(t, buf.String(), "10,000,000.00")
	assert.NotContains(t, buf.String(), "WARNING")

	chart[0].OpeningBalance = chart[0].OpeningBalance.Add(dec("5"))
	buf.Reset()
	RenderOpeningCheck(&buf, ledger.OpeningTrial(chart))
	assert.Contains(t, buf.String(), "WARNING")
}
