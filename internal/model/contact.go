package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ContactKind separates customers from vendors.
type ContactKind string

const (
	ContactClient   ContactKind = "client"
	ContactSupplier ContactKind = "supplier"
)

// Contact is a client or supplier that sales and purchases refer to.
type Contact struct {
	ID      string      `validate:"required,uuid"`
	Name    string      `validate:"required,max=100"`
	Kind    ContactKind `validate:"required,oneof=client supplier"`
	Email   string      `validate:"omitempty,email"`
	Phone   string
	Address string
}

// BankTransaction represents a parsed bank statement row.
type BankTransaction struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal // negative = money out, positive = money in
	Reference   string
}
