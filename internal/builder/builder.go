// Package builder turns commercial documents into balanced journal entries.
// Nothing here performs I/O; the caller persists the returned entry.
package builder

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/buku/internal/accounts"
	"github.com/cleared-dev/buku/internal/journal"
	"github.com/cleared-dev/buku/internal/model"
)

// PaymentMode selects the balancing account of a sale or purchase.
type PaymentMode string

const (
	// PaymentCredit settles later through receivable/payable.
	PaymentCredit PaymentMode = "credit"
	// PaymentCash settles immediately through a cash/bank account.
	PaymentCash PaymentMode = "cash"
)

// AccountLookup resolves account IDs against the chart of accounts.
type AccountLookup interface {
	Get(id string) (model.Account, bool)
	Exists(id string) bool
}

// SystemAccounts are the fixed accounts sales and purchases post to.
type SystemAccounts struct {
	SalesRevenue       string
	SalesRevenueNonPPN string
	OutputTax          string
	InputTax           string
	Purchases          string
	PurchasesNonPPN    string
}

// DefaultSystemAccounts returns the IDs seeded by the default chart.
func DefaultSystemAccounts() SystemAccounts {
	return SystemAccounts{
		SalesRevenue:       accounts.IDSalesRevenue,
		SalesRevenueNonPPN: accounts.IDSalesRevenueNonPPN,
		OutputTax:          accounts.IDOutputTax,
		InputTax:           accounts.IDInputTax,
		Purchases:          accounts.IDPurchases,
		PurchasesNonPPN:    accounts.IDPurchasesNonPPN,
	}
}

// DocumentInput is a sale or purchase as entered.
type DocumentInput struct {
	Date         time.Time
	Ref          string
	Description  string // defaults to "Penjualan kepada <name>" / "Pembelian dari <name>"
	Counterparty model.Contact
	PaymentMode  PaymentMode
	AccountID    string // receivable/payable for credit, cash/bank for cash
	TaxOption    model.TaxOption
	Items        []LineItem
}

// CashInput is a cash receipt or payment as entered.
type CashInput struct {
	Date             time.Time
	Ref              string
	Description      string
	AccountID        string // cash/bank side
	CounterAccountID string
	Amount           decimal.Decimal
	Counterparty     string
}

// JournalInput is a manual journal.
type JournalInput struct {
	Date        time.Time
	Ref         string
	Description string
	Lines       []model.Posting
}

// Builder derives postings from documents using the chart of accounts, the
// PPN rate, and the system account routing.
type Builder struct {
	Accounts AccountLookup
	Tax      model.TaxSettings
	System   SystemAccounts
}

// New returns a Builder with the default system accounts.
func New(accts AccountLookup, tax model.TaxSettings) *Builder {
	return &Builder{Accounts: accts, Tax: tax, System: DefaultSystemAccounts()}
}

// Sale builds a sale entry: debit receivable or cash for the total, credit
// revenue for total − tax and output PPN for the tax.
func (b *Builder) Sale(in DocumentInput) (model.JournalEntry, error) {
	errs := b.checkDocument(in, model.ContactClient, model.SubAccountsReceivable)
	if len(errs) > 0 {
		return model.JournalEntry{}, errs
	}

	subtotal := Subtotal(in.Items)
	tax, total := ComputeTax(subtotal, b.Tax.PPNRate, in.TaxOption)
	revenue := b.System.SalesRevenue
	if in.TaxOption == model.TaxNonPPN {
		revenue = b.System.SalesRevenueNonPPN
	}

	postings := []model.Posting{
		{AccountID: in.AccountID, Debit: total},
		{AccountID: revenue, Credit: total.Sub(tax)},
	}
	if !tax.IsZero() {
		postings = append(postings, model.Posting{AccountID: b.System.OutputTax, Credit: tax})
	}

	desc := in.Description
	if strings.TrimSpace(desc) == "" {
		desc = "Penjualan kepada " + in.Counterparty.Name
	}
	return b.finish(model.JournalEntry{
		Date:         in.Date,
		Description:  desc,
		Ref:          in.Ref,
		Type:         model.EntrySale,
		Counterparty: in.Counterparty.ID,
		TaxOption:    in.TaxOption,
		Postings:     postings,
	})
}

// Purchase builds a purchase entry: debit purchases for total − tax and
// input PPN for the tax, credit payable or cash for the total.
func (b *Builder) Purchase(in DocumentInput) (model.JournalEntry, error) {
	errs := b.checkDocument(in, model.ContactSupplier, model.SubAccountsPayable)
	if len(errs) > 0 {
		return model.JournalEntry{}, errs
	}

	subtotal := Subtotal(in.Items)
	tax, total := ComputeTax(subtotal, b.Tax.PPNRate, in.TaxOption)
	cost := b.System.Purchases
	if in.TaxOption == model.TaxNonPPN {
		cost = b.System.PurchasesNonPPN
	}

	postings := []model.Posting{{AccountID: cost, Debit: total.Sub(tax)}}
	if !tax.IsZero() {
		postings = append(postings, model.Posting{AccountID: b.System.InputTax, Debit: tax})
	}
	postings = append(postings, model.Posting{AccountID: in.AccountID, Credit: total})

	desc := in.Description
	if strings.TrimSpace(desc) == "" {
		desc = "Pembelian dari " + in.Counterparty.Name
	}
	return b.finish(model.JournalEntry{
		Date:         in.Date,
		Description:  desc,
		Ref:          in.Ref,
		Type:         model.EntryPurchase,
		Counterparty: in.Counterparty.ID,
		TaxOption:    in.TaxOption,
		Postings:     postings,
	})
}

// CashReceipt debits the cash/bank account and credits the counter account.
// The counter account may not be an expense.
func (b *Builder) CashReceipt(in CashInput) (model.JournalEntry, error) {
	errs := b.checkCash(in, func(a model.Account) bool {
		return a.Category != model.CategoryExpense
	}, "a receipt may not credit an expense account")
	if len(errs) > 0 {
		return model.JournalEntry{}, errs
	}
	return b.finish(model.JournalEntry{
		Date:         in.Date,
		Description:  in.Description,
		Ref:          in.Ref,
		Type:         model.EntryCashReceipt,
		Counterparty: in.Counterparty,
		Postings: []model.Posting{
			{AccountID: in.AccountID, Debit: in.Amount},
			{AccountID: in.CounterAccountID, Credit: in.Amount},
		},
	})
}

// CashPayment debits the counter account and credits the cash/bank account.
// The counter account must be an expense, a liability, or a non-cash asset.
func (b *Builder) CashPayment(in CashInput) (model.JournalEntry, error) {
	errs := b.checkCash(in, func(a model.Account) bool {
		switch a.Category {
		case model.CategoryExpense, model.CategoryLiability:
			return true
		case model.CategoryAsset:
			return a.SubCategory != model.SubBank
		}
		return false
	}, "a payment must debit an expense, a liability or a non-cash asset")
	if len(errs) > 0 {
		return model.JournalEntry{}, errs
	}
	return b.finish(model.JournalEntry{
		Date:         in.Date,
		Description:  in.Description,
		Ref:          in.Ref,
		Type:         model.EntryCashPayment,
		Counterparty: in.Counterparty,
		Postings: []model.Posting{
			{AccountID: in.CounterAccountID, Debit: in.Amount},
			{AccountID: in.AccountID, Credit: in.Amount},
		},
	})
}

// Journal builds a manual entry from N ≥ 2 lines. Balance is not derived
// here, so the lines are checked as given.
func (b *Builder) Journal(in JournalInput) (model.JournalEntry, error) {
	lines := make([]model.Posting, len(in.Lines))
	copy(lines, in.Lines)
	return b.finish(model.JournalEntry{
		Date:        in.Date,
		Description: in.Description,
		Ref:         in.Ref,
		Type:        model.EntryJournal,
		Postings:    lines,
	})
}

func (b *Builder) finish(e model.JournalEntry) (model.JournalEntry, error) {
	if errs := journal.ValidateEntry(e, b.Accounts); len(errs) > 0 {
		return model.JournalEntry{}, errs
	}
	return e, nil
}

func (b *Builder) checkDocument(in DocumentInput, kind model.ContactKind, creditSub model.SubCategory) journal.ValidationErrors {
	var errs journal.ValidationErrors

	if strings.TrimSpace(in.Counterparty.ID) == "" {
		errs.Add(journal.CodeMissingCounterparty, "counterparty", "a %s must be selected", kind)
	} else if in.Counterparty.Kind != "" && in.Counterparty.Kind != kind {
		errs.Add(journal.CodeMissingCounterparty, "counterparty", "%s is a %s, not a %s", in.Counterparty.Name, in.Counterparty.Kind, kind)
	}
	if in.Date.IsZero() {
		errs.Add(journal.CodeMissingDate, "date", "date is required")
	}
	if strings.TrimSpace(in.Ref) == "" {
		errs.Add(journal.CodeMissingRef, "ref", "document number is required")
	}
	if !in.TaxOption.Valid() {
		errs.Add(journal.CodeInvalidTaxOption, "tax_option", "unknown tax option %q", in.TaxOption)
	}

	for i, li := range in.Items {
		if li.Qty.IsNegative() || li.Price.IsNegative() {
			errs.Add(journal.CodeNegativeAmount, "items", "item %d has a negative quantity or price", i+1)
		}
	}
	if Subtotal(in.Items).IsZero() {
		errs.Add(journal.CodeZeroTotal, "items", "subtotal is zero")
	}

	var want model.SubCategory
	switch in.PaymentMode {
	case PaymentCredit:
		want = creditSub
	case PaymentCash:
		want = model.SubBank
	default:
		errs.Add(journal.CodeInvalidPaymentMode, "payment_mode", "unknown payment mode %q", in.PaymentMode)
		return errs
	}
	b.checkAccount(&errs, "account_id", in.AccountID, func(a model.Account) bool {
		return a.SubCategory == want
	}, string(want)+" account required for "+string(in.PaymentMode)+" payment")

	return errs
}

func (b *Builder) checkCash(in CashInput, counterOK func(model.Account) bool, counterRule string) journal.ValidationErrors {
	var errs journal.ValidationErrors

	if in.Date.IsZero() {
		errs.Add(journal.CodeMissingDate, "date", "date is required")
	}
	if strings.TrimSpace(in.Ref) == "" {
		errs.Add(journal.CodeMissingRef, "ref", "document number is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		errs.Add(journal.CodeMissingDescription, "description", "description is required")
	}
	if !in.Amount.IsPositive() {
		errs.Add(journal.CodeNonPositiveAmount, "amount", "amount must be positive")
	}

	b.checkAccount(&errs, "account_id", in.AccountID, func(a model.Account) bool {
		return a.SubCategory == model.SubBank
	}, "cash/bank account required")
	b.checkAccount(&errs, "counter_account_id", in.CounterAccountID, counterOK, counterRule)

	if in.AccountID != "" && in.AccountID == in.CounterAccountID {
		errs.Add(journal.CodeWrongAccountKind, "counter_account_id", "counter account must differ from the cash account")
	}
	return errs
}

func (b *Builder) checkAccount(errs *journal.ValidationErrors, field, accountID string, ok func(model.Account) bool, rule string) {
	if strings.TrimSpace(accountID) == "" {
		errs.Add(journal.CodeMissingAccount, field, "account is required")
		return
	}
	acct, found := b.Accounts.Get(accountID)
	if !found {
		errs.Add(journal.CodeUnknownAccount, field, "unknown account %s", accountID)
		return
	}
	if !ok(acct) {
		errs.Add(journal.CodeWrongAccountKind, field, "%s (%s): %s", acct.ID, acct.Name, rule)
	}
}
