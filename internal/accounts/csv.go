package accounts

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/buku/internal/model"
)

const (
	numFields  = 6
	colID      = 0
	colName    = 1
	colCat     = 2
	colSub     = 3
	colOpening = 4
	colDelete  = 5
)

var header = []string{"account_id", "account_name", "category", "sub_category", "opening_balance", "deletable"}

// ReadAccounts reads chart-of-accounts.csv.
func ReadAccounts(r io.Reader) ([]model.Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var accounts []model.Account
	for i, rec := range records[1:] {
		acct, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// WriteAccounts writes chart-of-accounts.csv.
func WriteAccounts(w io.Writer, accounts []model.Account) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, acct := range accounts {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(acct model.Account) []string {
	row := make([]string, numFields)
	row[colID] = acct.ID
	row[colName] = acct.Name
	row[colCat] = string(acct.Category)
	row[colSub] = string(acct.SubCategory)
	row[colOpening] = acct.OpeningBalance.StringFixed(2)
	row[colDelete] = strconv.FormatBool(acct.Deletable)
	return row
}

// UnmarshalAccount converts a CSV row to an Account.
func UnmarshalAccount(record []string) (model.Account, error) {
	if len(record) != numFields {
		return model.Account{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	opening := decimal.Zero
	if record[colOpening] != "" {
		var err error
		opening, err = decimal.NewFromString(record[colOpening])
		if err != nil {
			return model.Account{}, fmt.Errorf("parsing opening_balance %q: %w", record[colOpening], err)
		}
	}

	deletable := true
	if record[colDelete] != "" {
		var err error
		deletable, err = strconv.ParseBool(record[colDelete])
		if err != nil {
			return model.Account{}, fmt.Errorf("parsing deletable %q: %w", record[colDelete], err)
		}
	}

	return model.Account{
		ID:             record[colID],
		Name:           record[colName],
		Category:       model.Category(record[colCat]),
		SubCategory:    model.SubCategory(record[colSub]),
		OpeningBalance: opening,
		Deletable:      deletable,
	}, nil
}
