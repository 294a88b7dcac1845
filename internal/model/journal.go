package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType records which document produced a journal entry.
type EntryType string

const (
	EntrySale        EntryType = "sale"
	EntryPurchase    EntryType = "purchase"
	EntryCashReceipt EntryType = "cash_receipt"
	EntryCashPayment EntryType = "cash_payment"
	EntryJournal     EntryType = "journal"
)

// Valid reports whether t is a known entry type.
func (t EntryType) Valid() bool {
	switch t {
	case EntrySale, EntryPurchase, EntryCashReceipt, EntryCashPayment, EntryJournal:
		return true
	}
	return false
}

// Posting is one debit-or-credit line of a journal entry.
type Posting struct {
	AccountID string
	Debit     decimal.Decimal // zero if credit side
	Credit    decimal.Decimal // zero if debit side
}

// JournalEntry is a balanced set of postings produced by one document.
type JournalEntry struct {
	ID           string
	Date         time.Time
	Description  string
	Ref          string
	Type         EntryType
	Counterparty string    // contact id, sale and purchase only
	TaxOption    TaxOption // sale and purchase only
	Postings     []Posting
}

// Totals returns the sums of the debit and credit columns.
func (e JournalEntry) Totals() (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, p := range e.Postings {
		debit = debit.Add(p.Debit)
		credit = credit.Add(p.Credit)
	}
	return debit, credit
}

// Balanced reports whether debits equal credits.
func (e JournalEntry) Balanced() bool {
	d, c := e.Totals()
	return d.Equal(c)
}

// Within reports whether the entry date falls in [start, end], both
// inclusive. A zero bound is open.
func (e JournalEntry) Within(start, end time.Time) bool {
	if !start.IsZero() && e.Date.Before(start) {
		return false
	}
	if !end.IsZero() && e.Date.After(end) {
		return false
	}
	return true
}
