package builder

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/buku/internal/model"
)

// LineItem is one priced line of a sale or purchase.
type LineItem struct {
	Description string
	Qty         decimal.Decimal
	Price       decimal.Decimal
}

// Amount returns qty × price.
func (li LineItem) Amount() decimal.Decimal {
	return li.Qty.Mul(li.Price)
}

// Subtotal sums qty × price over items, rounded to cents.
func Subtotal(items []LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, li := range items {
		sum = sum.Add(li.Amount())
	}
	return sum.Round(2)
}

// ComputeTax applies a PPN rate to a subtotal.
//
//	exclude: tax = subtotal × rate, total = subtotal + tax
//	include: tax = subtotal − subtotal/(1+rate), total = subtotal
//	non_ppn: tax = 0, total = subtotal
//
// Tax is rounded half away from zero to 2 places and the total is derived
// from the rounded tax. rate must be greater than -1.
func ComputeTax(subtotal, rate decimal.Decimal, opt model.TaxOption) (tax, total decimal.Decimal) {
	switch opt {
	case model.TaxExclude:
		tax = subtotal.Mul(rate).Round(2)
		return tax, subtotal.Add(tax)
	case model.TaxInclude:
		net := subtotal.Div(decimal.NewFromInt(1).Add(rate))
		tax = subtotal.Sub(net).Round(2)
		return tax, subtotal
	default:
		return decimal.Zero, subtotal
	}
}
