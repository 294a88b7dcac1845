package model

import "github.com/shopspring/decimal"

// TaxOption selects how PPN applies to a sale or purchase.
type TaxOption string

const (
	// TaxExclude adds PPN on top of the subtotal.
	TaxExclude TaxOption = "exclude"
	// TaxInclude backs PPN out of a subtotal that already contains it.
	TaxInclude TaxOption = "include"
	// TaxNonPPN is exempt.
	TaxNonPPN TaxOption = "non_ppn"
)

// Valid reports whether o is a known tax option.
func (o TaxOption) Valid() bool {
	return o == TaxExclude || o == TaxInclude || o == TaxNonPPN
}

// TaxSettings holds the PPN rate as a fraction (0.11 = 11%).
type TaxSettings struct {
	PPNRate decimal.Decimal
}
