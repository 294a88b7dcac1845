package journal

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/buku/internal/model"
)

// mockAccounts implements AccountChecker for testing.
type mockAccounts struct {
	ids map[string]bool
}

func (m *mockAccounts) Exists(id string) bool {
	return m.ids[id]
}

func newMockAccounts(ids ...string) *mockAccounts {
	m := &mockAccounts{ids: make(map[string]bool)}
	for _, id := range ids {
		m.ids[id] = true
	}
	return m
}

var defaultAccounts = newMockAccounts("1101", "1201", "2101", "2102", "3101", "4101", "5101", "6101")

func balancedEntry(debitAcct, creditAcct, amount string) model.JournalEntry {
	return model.JournalEntry{
		Date:        date(2025, 1, 15),
		Description: "Setoran modal",
		Ref:         "JV-001",
		Type:        model.EntryJournal,
		Postings: []model.Posting{
			{AccountID: debitAcct, Debit: dec(amount)},
			{AccountID: creditAcct, Credit: dec(amount)},
		},
	}
}

func TestValidate_Balanced(t *testing.T) {
	errs := ValidateEntry(balancedEntry("1101", "3101", "100.00"), defaultAccounts)
	assert.Empty(t, errs)
}

func TestValidate_Unbalanced(t *testing.T) {
	e := balancedEntry("1101", "3101", "200")
	e.Postings[1].Credit = dec("150")

	errs := ValidateEntry(e, defaultAccounts)
	require.NotEmpty(t, errs)
	assert.True(t, errs.Has(CodeUnbalanced))
}

func TestValidate_ZeroTotal(t *testing.T) {
	e := balancedEntry("1101", "3101", "0")
	errs := ValidateEntry(e, defaultAccounts)
	assert.True(t, errs.Has(CodeZeroTotal))
	assert.True(t, errs.Has(CodeOneSide), "both zero on a line is not a posting")
	assert.False(t, errs.Has(CodeUnbalanced))
}

func TestValidate_UnknownAndMissingAccount(t *testing.T) {
	e := balancedEntry("9999", "", "10")
	errs := ValidateEntry(e, defaultAccounts)
	assert.True(t, errs.Has(CodeUnknownAccount))
	assert.True(t, errs.Has(CodeMissingAccount))
}

func TestValidate_BothSides(t *testing.T) {
	e := balancedEntry("1101", "3101", "10")
	e.Postings[0].Credit = dec("10")
	e.Postings[1].Debit = dec("10")

	errs := ValidateEntry(e, defaultAccounts)
	assert.True(t, errs.Has(CodeOneSide))
}

func TestValidate_Negative(t *testing.T) {
	e := balancedEntry("1101", "3101", "-10")
	errs := ValidateEntry(e, defaultAccounts)
	assert.True(t, errs.Has(CodeNegativeAmount))
}

func TestValidate_Precision(t *testing.T) {
	e := balancedEntry("1101", "3101", "10.001")
	errs := ValidateEntry(e, defaultAccounts)
	assert.True(t, errs.Has(CodePrecision))
}

func TestValidate_TooFewPostings(t *testing.T) {
	e := balancedEntry("1101", "3101", "10")
	e.Postings = e.Postings[:1]
	errs := ValidateEntry(e, defaultAccounts)
	assert.True(t, errs.Has(CodeTooFewPostings))
}

func TestValidate_HeaderFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.JournalEntry)
		code   Code
	}{
		{"no date", func(e *model.JournalEntry) { e.Date = time.Time{} }, CodeMissingDate},
		{"no ref", func(e *model.JournalEntry) { e.Ref = "  " }, CodeMissingRef},
		{"no description", func(e *model.JournalEntry) { e.Description = "" }, CodeMissingDescription},
		{"bad type", func(e *model.JournalEntry) { e.Type = "transfer" }, CodeInvalidType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := balancedEntry("1101", "3101", "10")
			tt.mutate(&e)
			errs := ValidateEntry(e, defaultAccounts)
			assert.True(t, errs.Has(tt.code), "got %v", errs.Codes())
		})
	}
}

func TestValidate_MultiLineBalanced(t *testing.T) {
	e := model.JournalEntry{
		Date: date(2025, 2, 1), Description: "Gaji dan sewa", Ref: "JV-7", Type: model.EntryJournal,
		Postings: []model.Posting{
			{AccountID: "6101", Debit: dec("300")},
			{AccountID: "5101", Debit: dec("200")},
			{AccountID: "1101", Credit: dec("450")},
			{AccountID: "2101", Credit: dec("50")},
		},
	}
	assert.Empty(t, ValidateEntry(e, defaultAccounts))
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Code: CodeMissingRef, Field: "ref", Description: "document reference is required"},
		{Code: CodeUnbalanced, Field: "postings", Description: "x"},
	}
	assert.Equal(t, "missing_ref [ref]: document reference is required; unbalanced [postings]: x", errs.Error())

	wrapped := fmt.Errorf("validation failed: %w", errs)
	var got ValidationErrors
	require.True(t, errors.As(wrapped, &got))
	assert.Equal(t, []Code{CodeMissingRef, CodeUnbalanced}, got.Codes())
}

func TestHasCents(t *testing.T) {
	assert.True(t, HasCents(dec("10")))
	assert.True(t, HasCents(dec("10.5")))
	assert.True(t, HasCents(dec("10.55")))
	assert.False(t, HasCents(dec("10.555")))
}
