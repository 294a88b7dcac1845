package builder

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/buku/internal/accounts"
	"github.com/cleared-dev/buku/internal/journal"
	"github.com/cleared-dev/buku/internal/model"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

var (
	client   = model.Contact{ID: "6f1c2a1e-8d1b-4a7e-9c55-0a3c1b2d3e4f", Name: "Toko Maju", Kind: model.ContactClient}
	supplier = model.Contact{ID: "0b7e5d62-1f7a-4b5c-8e2d-9a6c3f1e2d4b", Name: "CV Sumber", Kind: model.ContactSupplier}
)

func newBuilder() *Builder {
	return New(accounts.NewService(accounts.DefaultChart()), model.TaxSettings{PPNRate: dec("0.11")})
}

func sale(opt model.TaxOption, subtotal string) DocumentInput {
	return DocumentInput{
		Date:         date(2025, 3, 1),
		Ref:          "INV-001",
		Counterparty: client,
		PaymentMode:  PaymentCredit,
		AccountID:    accounts.IDReceivable,
		TaxOption:    opt,
		Items:        []LineItem{{Description: "Barang", Qty: dec("1"), Price: dec(subtotal)}},
	}
}

func validationCodes(t *testing.T, err error) journal.ValidationErrors {
	t.Helper()
	var verrs journal.ValidationErrors
	require.True(t, errors.As(err, &verrs), "expected ValidationErrors, got %v", err)
	return verrs
}

func postingFor(e model.JournalEntry, accountID string) (model.Posting, bool) {
	for _, p := range e.Postings {
		if p.AccountID == accountID {
			return p, true
		}
	}
	return model.Posting{}, false
}

func TestComputeTax(t *testing.T) {
	rate := dec("0.11")
	tests := []struct {
		name      string
		subtotal  string
		opt       model.TaxOption
		wantTax   string
		wantTotal string
	}{
		{"exclude", "1000", model.TaxExclude, "110", "1110"},
		{"include", "1110", model.TaxInclude, "110", "1110"},
		{"non_ppn", "500", model.TaxNonPPN, "0", "500"},
		{"exclude rounds", "333.33", model.TaxExclude, "36.67", "370"},
		{"include rounds", "100", model.TaxInclude, "9.91", "100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tax, total := ComputeTax(dec(tt.subtotal), rate, tt.opt)
			assert.True(t, tax.Equal(dec(tt.wantTax)), "tax %s", tax)
			assert.True(t, total.Equal(dec(tt.wantTotal)), "total %s", total)
		})
	}
}

func TestComputeTax_ZeroRate(t *testing.T) {
	tax, total := ComputeTax(dec("250"), decimal.Zero, model.TaxInclude)
	assert.True(t, tax.IsZero())
	assert.True(t, total.Equal(dec("250")))
}

func TestSubtotal(t *testing.T) {
	items := []LineItem{
		{Qty: dec("2"), Price: dec("150")},
		{Qty: dec("3"), Price: dec("0.333")},
	}
	assert.True(t, Subtotal(items).Equal(dec("301")), "999 thousandths round to 1.00")
}

func TestSale_Exclude(t *testing.T) {
	e, err := newBuilder().Sale(sale(model.TaxExclude, "1000"))
	require.NoError(t, err)

	assert.Equal(t, model.EntrySale, e.Type)
	assert.Equal(t, client.ID, e.Counterparty)
	assert.Equal(t, "Penjualan kepada Toko Maju", e.Description)
	require.Len(t, e.Postings, 3)

	ar, _ := postingFor(e, accounts.IDReceivable)
	assert.True(t, ar.Debit.Equal(dec("1110.00")))
	rev, _ := postingFor(e, accounts.IDSalesRevenue)
	assert.True(t, rev.Credit.Equal(dec("1000.00")))
	ppn, _ := postingFor(e, accounts.IDOutputTax)
	assert.True(t, ppn.Credit.Equal(dec("110.00")))
	assert.True(t, e.Balanced())
}

func TestSale_Include(t *testing.T) {
	e, err := newBuilder().Sale(sale(model.TaxInclude, "1110"))
	require.NoError(t, err)
	require.Len(t, e.Postings, 3)

	ar, _ := postingFor(e, accounts.IDReceivable)
	assert.True(t, ar.Debit.Equal(dec("1110")), "total unchanged")
	rev, _ := postingFor(e, accounts.IDSalesRevenue)
	assert.True(t, rev.Credit.Equal(dec("1000")))
	ppn, _ := postingFor(e, accounts.IDOutputTax)
	assert.True(t, ppn.Credit.Sub(dec("110")).Abs().LessThanOrEqual(dec("0.01")))
	assert.True(t, e.Balanced())
}

func TestSale_NonPPN(t *testing.T) {
	e, err := newBuilder().Sale(sale(model.TaxNonPPN, "500"))
	require.NoError(t, err)
	require.Len(t, e.Postings, 2)

	rev, ok := postingFor(e, accounts.IDSalesRevenueNonPPN)
	require.True(t, ok)
	assert.True(t, rev.Credit.Equal(dec("500")))
	_, ok = postingFor(e, accounts.IDOutputTax)
	assert.False(t, ok)
}

func TestSale_CashMode(t *testing.T) {
	in := sale(model.TaxExclude, "1000")
	in.PaymentMode = PaymentCash
	in.AccountID = accounts.IDCash
	in.Description = "Penjualan tunai"

	e, err := newBuilder().Sale(in)
	require.NoError(t, err)
	cash, _ := postingFor(e, accounts.IDCash)
	assert.True(t, cash.Debit.Equal(dec("1110")))
	assert.Equal(t, "Penjualan tunai", e.Description)

	in.AccountID = accounts.IDReceivable
	_, err = newBuilder().Sale(in)
	assert.True(t, validationCodes(t, err).Has(journal.CodeWrongAccountKind))
}

func TestSale_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*DocumentInput)
		code   journal.Code
	}{
		{"no client", func(in *DocumentInput) { in.Counterparty = model.Contact{} }, journal.CodeMissingCounterparty},
		{"supplier as client", func(in *DocumentInput) { in.Counterparty = supplier }, journal.CodeMissingCounterparty},
		{"zero subtotal", func(in *DocumentInput) { in.Items[0].Price = decimal.Zero }, journal.CodeZeroTotal},
		{"no items", func(in *DocumentInput) { in.Items = nil }, journal.CodeZeroTotal},
		{"no ref", func(in *DocumentInput) { in.Ref = "" }, journal.CodeMissingRef},
		{"no account", func(in *DocumentInput) { in.AccountID = "" }, journal.CodeMissingAccount},
		{"unknown account", func(in *DocumentInput) { in.AccountID = "9999" }, journal.CodeUnknownAccount},
		{"payable on a sale", func(in *DocumentInput) { in.AccountID = accounts.IDPayable }, journal.CodeWrongAccountKind},
		{"bad mode", func(in *DocumentInput) { in.PaymentMode = "barter" }, journal.CodeInvalidPaymentMode},
		{"bad tax option", func(in *DocumentInput) { in.TaxOption = "" }, journal.CodeInvalidTaxOption},
		{"negative qty", func(in *DocumentInput) { in.Items[0].Qty = dec("-1") }, journal.CodeNegativeAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := sale(model.TaxExclude, "1000")
			tt.mutate(&in)
			e, err := newBuilder().Sale(in)
			require.Error(t, err)
			assert.Empty(t, e.Postings, "no partial entry")
			assert.True(t, validationCodes(t, err).Has(tt.code), "got %v", err)
		})
	}
}

func TestPurchase(t *testing.T) {
	in := DocumentInput{
		Date:         date(2025, 3, 2),
		Ref:          "PO-9",
		Counterparty: supplier,
		PaymentMode:  PaymentCredit,
		AccountID:    accounts.IDPayable,
		TaxOption:    model.TaxExclude,
		Items:        []LineItem{{Qty: dec("4"), Price: dec("250")}},
	}
	e, err := newBuilder().Purchase(in)
	require.NoError(t, err)

	assert.Equal(t, "Pembelian dari CV Sumber", e.Description)
	require.Len(t, e.Postings, 3)
	cost, _ := postingFor(e, accounts.IDPurchases)
	assert.True(t, cost.Debit.Equal(dec("1000")))
	vat, _ := postingFor(e, accounts.IDInputTax)
	assert.True(t, vat.Debit.Equal(dec("110")))
	ap, _ := postingFor(e, accounts.IDPayable)
	assert.True(t, ap.Credit.Equal(dec("1110")))

	in.TaxOption = model.TaxNonPPN
	e, err = newBuilder().Purchase(in)
	require.NoError(t, err)
	require.Len(t, e.Postings, 2)
	_, ok := postingFor(e, accounts.IDPurchasesNonPPN)
	assert.True(t, ok)

	in.AccountID = accounts.IDReceivable
	_, err = newBuilder().Purchase(in)
	assert.True(t, validationCodes(t, err).Has(journal.CodeWrongAccountKind))
}

func TestCashReceipt(t *testing.T) {
	in := CashInput{
		Date: date(2025, 3, 5), Ref: "KM-1", Description: "Pelunasan piutang",
		AccountID: accounts.IDBank, CounterAccountID: accounts.IDReceivable, Amount: dec("1110"),
	}
	e, err := newBuilder().CashReceipt(in)
	require.NoError(t, err)
	require.Len(t, e.Postings, 2)
	assert.Equal(t, model.EntryCashReceipt, e.Type)
	assert.Equal(t, model.Posting{AccountID: accounts.IDBank, Debit: dec("1110")}, e.Postings[0])
	assert.Equal(t, model.Posting{AccountID: accounts.IDReceivable, Credit: dec("1110")}, e.Postings[1])

	in.CounterAccountID = "6101"
	_, err = newBuilder().CashReceipt(in)
	assert.True(t, validationCodes(t, err).Has(journal.CodeWrongAccountKind), "receipts never credit expenses")
}

func TestCashPayment(t *testing.T) {
	in := CashInput{
		Date: date(2025, 3, 6), Ref: "KK-1", Description: "Bayar sewa",
		AccountID: accounts.IDCash, CounterAccountID: "6102", Amount: dec("750"),
	}
	e, err := newBuilder().CashPayment(in)
	require.NoError(t, err)
	assert.Equal(t, model.Posting{AccountID: "6102", Debit: dec("750")}, e.Postings[0])
	assert.Equal(t, model.Posting{AccountID: accounts.IDCash, Credit: dec("750")}, e.Postings[1])

	for _, ok := range []string{accounts.IDPayable, "1301"} {
		in.CounterAccountID = ok
		_, err = newBuilder().CashPayment(in)
		assert.NoError(t, err, "counter %s", ok)
	}
	for _, bad := range []string{accounts.IDBank, accounts.IDSalesRevenue, accounts.IDCapital} {
		in.CounterAccountID = bad
		_, err = newBuilder().CashPayment(in)
		assert.True(t, validationCodes(t, err).Has(journal.CodeWrongAccountKind), "counter %s", bad)
	}
}

func TestCash_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CashInput)
		code   journal.Code
	}{
		{"zero amount", func(in *CashInput) { in.Amount = decimal.Zero }, journal.CodeNonPositiveAmount},
		{"negative amount", func(in *CashInput) { in.Amount = dec("-5") }, journal.CodeNonPositiveAmount},
		{"no description", func(in *CashInput) { in.Description = " " }, journal.CodeMissingDescription},
		{"no ref", func(in *CashInput) { in.Ref = "" }, journal.CodeMissingRef},
		{"no date", func(in *CashInput) { in.Date = time.Time{} }, journal.CodeMissingDate},
		{"non-cash account", func(in *CashInput) { in.AccountID = accounts.IDReceivable }, journal.CodeWrongAccountKind},
		{"same account twice", func(in *CashInput) { in.CounterAccountID = in.AccountID }, journal.CodeWrongAccountKind},
		{"no counter", func(in *CashInput) { in.CounterAccountID = "" }, journal.CodeMissingAccount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := CashInput{
				Date: date(2025, 3, 5), Ref: "KM-2", Description: "Modal tambahan",
				AccountID: accounts.IDCash, CounterAccountID: accounts.IDCapital, Amount: dec("100"),
			}
			tt.mutate(&in)
			_, err := newBuilder().CashReceipt(in)
			require.Error(t, err)
			assert.True(t, validationCodes(t, err).Has(tt.code), "got %v", err)
		})
	}
}

func TestJournal(t *testing.T) {
	in := JournalInput{
		Date: date(2025, 1, 1), Ref: "JV-1", Description: "Setoran modal",
		Lines: []model.Posting{
			{AccountID: accounts.IDCash, Debit: dec("200")},
			{AccountID: accounts.IDCapital, Credit: dec("150")},
		},
	}
	_, err := newBuilder().Journal(in)
	require.Error(t, err, "200 != 150")
	assert.True(t, validationCodes(t, err).Has(journal.CodeUnbalanced))

	in.Lines[1].Credit = dec("200")
	e, err := newBuilder().Journal(in)
	require.NoError(t, err)
	assert.Equal(t, model.EntryJournal, e.Type)
	assert.True(t, e.Balanced())

	in.Lines = append(in.Lines, model.Posting{Debit: dec("1")}, model.Posting{AccountID: accounts.IDCash, Credit: dec("1")})
	_, err = newBuilder().Journal(in)
	assert.True(t, validationCodes(t, err).Has(journal.CodeMissingAccount))
}

func TestTemplatedDocumentsAlwaysBalance(t *testing.T) {
	b := newBuilder()
	for _, opt := range []model.TaxOption{model.TaxExclude, model.TaxInclude, model.TaxNonPPN} {
		for _, price := range []string{"1", "0.07", "999.99", "123456.78", "10.01"} {
			e, err := b.Sale(sale(opt, price))
			require.NoError(t, err, "%s %s", opt, price)
			assert.True(t, e.Balanced(), "%s %s", opt, price)
		}
	}
}
