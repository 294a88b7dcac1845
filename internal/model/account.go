package model

import "github.com/shopspring/decimal"

// Category classifies accounts in the chart of accounts and fixes their
// normal balance.
type Category string

const (
	CategoryAsset     Category = "asset"
	CategoryLiability Category = "liability"
	CategoryEquity    Category = "equity"
	CategoryRevenue   Category = "revenue"
	CategoryExpense   Category = "expense"
)

// SubCategory is the finer classification that places an account on a
// statement and in the document pickers.
type SubCategory string

const (
	SubBank                  SubCategory = "Bank"
	SubAccountsReceivable    SubCategory = "Accounts Receivable"
	SubOtherCurrentAsset     SubCategory = "Other Current Asset"
	SubFixedAsset            SubCategory = "Fixed Asset"
	SubOtherAsset            SubCategory = "Other Asset"
	SubCreditCard            SubCategory = "Credit Card"
	SubAccountsPayable       SubCategory = "Accounts Payable"
	SubOtherCurrentLiability SubCategory = "Other Current Liability"
	SubLongTermLiability     SubCategory = "Long Term Liability"
	SubOtherLiability        SubCategory = "Other Liability"
	SubEquity                SubCategory = "Equity"
	SubIncome                SubCategory = "Income"
	SubCostOfSales           SubCategory = "Cost of Sales"
	SubExpense               SubCategory = "Expense"
)

// Categories lists every category in statement order.
var Categories = []Category{
	CategoryAsset,
	CategoryLiability,
	CategoryEquity,
	CategoryRevenue,
	CategoryExpense,
}

var classifications = map[Category][]SubCategory{
	CategoryAsset:     {SubBank, SubAccountsReceivable, SubOtherCurrentAsset, SubFixedAsset, SubOtherAsset},
	CategoryLiability: {SubCreditCard, SubAccountsPayable, SubOtherCurrentLiability, SubLongTermLiability, SubOtherLiability},
	CategoryEquity:    {SubEquity},
	CategoryRevenue:   {SubIncome},
	CategoryExpense:   {SubCostOfSales, SubExpense},
}

// Valid reports whether c is one of the five known categories.
func (c Category) Valid() bool {
	_, ok := classifications[c]
	return ok
}

// DebitNormal reports whether balances in c grow with debits.
// Assets and expenses are debit-normal; everything else is credit-normal.
func (c Category) DebitNormal() bool {
	return c == CategoryAsset || c == CategoryExpense
}

// SubCategories returns the sub-categories allowed under c.
func SubCategories(c Category) []SubCategory {
	subs := classifications[c]
	out := make([]SubCategory, len(subs))
	copy(out, subs)
	return out
}

// ValidSubCategory reports whether sub belongs to the classification of c.
func ValidSubCategory(c Category, sub SubCategory) bool {
	for _, s := range classifications[c] {
		if s == sub {
			return true
		}
	}
	return false
}

// Account represents a row in chart-of-accounts.csv.
type Account struct {
	ID             string          `validate:"required,max=32"`
	Name           string          `validate:"required,max=100"`
	Category       Category        `validate:"required"`
	SubCategory    SubCategory     `validate:"required"`
	OpeningBalance decimal.Decimal // signed, on the normal side of Category
	Deletable      bool
}

// Signed returns the polarity-weighted effect of a debit/credit pair on an
// account of this category.
func (a Account) Signed(debit, credit decimal.Decimal) decimal.Decimal {
	if a.Category.DebitNormal() {
		return debit.Sub(credit)
	}
	return credit.Sub(debit)
}
