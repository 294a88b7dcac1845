package journal

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/buku/internal/model"
)

// Code identifies the rule a ValidationError violates.
type Code string

const (
	CodeMissingDate         Code = "missing_date"
	CodeInvalidType         Code = "invalid_type"
	CodeMissingRef          Code = "missing_ref"
	CodeMissingDescription  Code = "missing_description"
	CodeMissingCounterparty Code = "missing_counterparty"
	CodeTooFewPostings      Code = "too_few_postings"
	CodeMissingAccount      Code = "missing_account"
	CodeUnknownAccount      Code = "unknown_account"
	CodeWrongAccountKind    Code = "wrong_account_kind"
	CodeNegativeAmount      Code = "negative_amount"
	CodeNonPositiveAmount   Code = "non_positive_amount"
	CodeOneSide             Code = "one_side"
	CodePrecision           Code = "precision"
	CodeZeroTotal           Code = "zero_total"
	CodeUnbalanced          Code = "unbalanced"
	CodeInvalidTaxOption    Code = "invalid_tax_option"
	CodeInvalidPaymentMode  Code = "invalid_payment_mode"
)

// ValidationError describes a single rejected input.
type ValidationError struct {
	Code        Code
	Field       string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s [%s]: %s", e.Code, e.Field, e.Description)
}

// ValidationErrors collects every violation found in one document.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, ve := range v {
		msgs[i] = ve.Error()
	}
	return strings.Join(msgs, "; ")
}

// Has reports whether any violation carries code.
func (v ValidationErrors) Has(code Code) bool {
	for _, ve := range v {
		if ve.Code == code {
			return true
		}
	}
	return false
}

// Codes returns the violation codes in order.
func (v ValidationErrors) Codes() []Code {
	codes := make([]Code, len(v))
	for i, ve := range v {
		codes[i] = ve.Code
	}
	return codes
}

// Add appends a violation.
func (v *ValidationErrors) Add(code Code, field, format string, args ...any) {
	*v = append(*v, ValidationError{Code: code, Field: field, Description: fmt.Sprintf(format, args...)})
}

// AccountChecker tests whether an account ID exists in the chart of accounts.
type AccountChecker interface {
	Exists(id string) bool
}

var hundred = decimal.NewFromInt(100)

// HasCents reports whether d has no more than 2 decimal places.
func HasCents(d decimal.Decimal) bool {
	scaled := d.Mul(hundred)
	return scaled.Equal(scaled.Truncate(0))
}

// ValidateEntry checks the header fields and postings of an entry and the
// double-entry constraint. An empty result means the entry may be persisted.
func ValidateEntry(e model.JournalEntry, accounts AccountChecker) ValidationErrors {
	var errs ValidationErrors

	if e.Date.IsZero() {
		errs.Add(CodeMissingDate, "date", "date is required")
	}
	if !e.Type.Valid() {
		errs.Add(CodeInvalidType, "type", "unknown entry type %q", e.Type)
	}
	if strings.TrimSpace(e.Ref) == "" {
		errs.Add(CodeMissingRef, "ref", "document reference is required")
	}
	if strings.TrimSpace(e.Description) == "" {
		errs.Add(CodeMissingDescription, "description", "description is required")
	}
	if len(e.Postings) < 2 {
		errs.Add(CodeTooFewPostings, "postings", "entry needs at least 2 postings, got %d", len(e.Postings))
	}

	errs = append(errs, ValidatePostings(e.Postings, accounts)...)

	debit, credit := e.Totals()
	switch {
	case debit.IsZero() && credit.IsZero():
		errs.Add(CodeZeroTotal, "postings", "entry total is zero")
	case !debit.Equal(credit):
		errs.Add(CodeUnbalanced, "postings", "debits (%s) != credits (%s)", debit.StringFixed(2), credit.StringFixed(2))
	}

	return errs
}

// ValidatePostings checks each line on its own: an account, a single
// non-negative side, and cent precision.
func ValidatePostings(postings []model.Posting, accounts AccountChecker) ValidationErrors {
	var errs ValidationErrors
	for i, p := range postings {
		field := fmt.Sprintf("postings[%d]", i)

		if strings.TrimSpace(p.AccountID) == "" {
			errs.Add(CodeMissingAccount, field, "account is required")
		} else if accounts != nil && !accounts.Exists(p.AccountID) {
			errs.Add(CodeUnknownAccount, field, "unknown account %s", p.AccountID)
		}

		if p.Debit.IsNegative() || p.Credit.IsNegative() {
			errs.Add(CodeNegativeAmount, field, "amounts must not be negative")
			continue
		}

		if p.Debit.IsZero() == p.Credit.IsZero() {
			errs.Add(CodeOneSide, field, "posting must have exactly one of debit or credit")
		}

		if !HasCents(p.Debit) || !HasCents(p.Credit) {
			errs.Add(CodePrecision, field, "amount has more than 2 decimal places")
		}
	}
	return errs
}
