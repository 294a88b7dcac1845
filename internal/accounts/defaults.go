package accounts

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/buku/internal/model"
)

// System account IDs the document builders post to by default.
const (
	IDCash               = "1101"
	IDBank               = "1102"
	IDInputTax           = "1103"
	IDReceivable         = "1201"
	IDPayable            = "2101"
	IDOutputTax          = "2102"
	IDCapital            = "3101"
	IDSalesRevenue       = "4101"
	IDSalesRevenueNonPPN = "4102"
	IDPurchases          = "5101"
	IDPurchasesNonPPN    = "5104"
)

// DefaultChart returns the seeded chart of accounts for a new workspace.
// Accounts the builders depend on are not deletable.
func DefaultChart() []model.Account {
	sys := func(id, name string, cat model.Category, sub model.SubCategory) model.Account {
		return model.Account{ID: id, Name: name, Category: cat, SubCategory: sub, OpeningBalance: decimal.Zero}
	}
	user := func(id, name string, cat model.Category, sub model.SubCategory) model.Account {
		a := sys(id, name, cat, sub)
		a.Deletable = true
		return a
	}
	return []model.Account{
		sys(IDCash, "Kas", model.CategoryAsset, model.SubBank),
		user(IDBank, "Bank", model.CategoryAsset, model.SubBank),
		sys(IDInputTax, "PPN Masukan", model.CategoryAsset, model.SubOtherCurrentAsset),
		sys(IDReceivable, "Piutang Usaha", model.CategoryAsset, model.SubAccountsReceivable),
		user("1301", "Peralatan", model.CategoryAsset, model.SubFixedAsset),
		sys(IDPayable, "Utang Usaha", model.CategoryLiability, model.SubAccountsPayable),
		sys(IDOutputTax, "PPN Keluaran", model.CategoryLiability, model.SubOtherCurrentLiability),
		sys(IDCapital, "Modal", model.CategoryEquity, model.SubEquity),
		sys(IDSalesRevenue, "Penjualan", model.CategoryRevenue, model.SubIncome),
		sys(IDSalesRevenueNonPPN, "Penjualan Non-PPN", model.CategoryRevenue, model.SubIncome),
		sys(IDPurchases, "Pembelian", model.CategoryExpense, model.SubCostOfSales),
		sys(IDPurchasesNonPPN, "Pembelian Non-PPN", model.CategoryExpense, model.SubCostOfSales),
		user("6101", "Beban Gaji", model.CategoryExpense, model.SubExpense),
		user("6102", "Beban Sewa", model.CategoryExpense, model.SubExpense),
		user("6103", "Beban Listrik dan Air", model.CategoryExpense, model.SubExpense),
	}
}
