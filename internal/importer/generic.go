package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/buku/internal/model"
)

// GenericParser reads bank CSVs addressed by header name. Required columns
// are date and description plus either a signed amount column or a
// debit/credit pair (credit = money in). reference is optional.
type GenericParser struct{}

var dateFormats = []string{"2006-01-02", "02/01/2006", "02-01-2006"}

// Format returns the parser name.
func (p *GenericParser) Format() string { return "generic" }

// Parse reads the CSV and returns BankTransactions in file order.
func (p *GenericParser) Parse(r io.Reader) ([]model.BankTransaction, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	headers, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	col := toIndex(headers)
	for _, k := range []string{"date", "description"} {
		if _, ok := col[k]; !ok {
			return nil, fmt.Errorf("missing column: %s", k)
		}
	}
	_, hasAmount := col["amount"]
	_, hasDebit := col["debit"]
	_, hasCredit := col["credit"]
	if !hasAmount && !(hasDebit && hasCredit) {
		return nil, errors.New("missing column: amount (or debit and credit)")
	}

	var txns []model.BankTransaction
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}

		txn, err := parseGenericRow(rec, col, hasAmount)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

func parseGenericRow(rec []string, col map[string]int, hasAmount bool) (model.BankTransaction, error) {
	field := func(name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	date, err := parseDate(field("date"))
	if err != nil {
		return model.BankTransaction{}, err
	}

	var amount decimal.Decimal
	if hasAmount {
		amount, err = parseAmount(field("amount"))
		if err != nil {
			return model.BankTransaction{}, fmt.Errorf("parsing amount %q: %w", field("amount"), err)
		}
	} else {
		in, err := parseAmount(field("credit"))
		if err != nil {
			return model.BankTransaction{}, fmt.Errorf("parsing credit %q: %w", field("credit"), err)
		}
		out, err := parseAmount(field("debit"))
		if err != nil {
			return model.BankTransaction{}, fmt.Errorf("parsing debit %q: %w", field("debit"), err)
		}
		amount = in.Sub(out.Abs())
	}

	desc := field("description")
	ref := field("reference")
	if ref == "" {
		ref = makeRef(date, desc)
	}
	return model.BankTransaction{Date: date, Description: desc, Amount: amount, Reference: ref}, nil
}

func toIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func parseDate(s string) (time.Time, error) {
	var lastErr error
	for _, f := range dateFormats {
		d, err := time.Parse(f, s)
		if err == nil {
			return d, nil
		}
		lastErr = err
	}
	return time.Time{}, fmt.Errorf("parsing date %q: %w", s, lastErr)
}

// parseAmount accepts "1234.56", "1,234.56" and "1.234,56". A lone comma
// groups thousands when it splits 1-3 leading digits (not "0") from exactly
// three more ("1,234"). Otherwise it is a decimal separator ("12,5", "0,125").
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.Trim(s, "\""))
	if s == "" {
		return decimal.Zero, nil
	}
	s = strings.ReplaceAll(s, " ", "")

	dot := strings.LastIndex(s, ".")
	comma := strings.LastIndex(s, ",")
	switch {
	case dot >= 0 && comma >= 0 && comma > dot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case dot >= 0 && comma >= 0:
		s = strings.ReplaceAll(s, ",", "")
	case comma >= 0 && strings.Count(s, ",") == 1 && !groupsThousands(s, comma):
		s = strings.Replace(s, ",", ".", 1)
	case comma >= 0:
		s = strings.ReplaceAll(s, ",", "")
	}
	return decimal.NewFromString(s)
}

func groupsThousands(s string, comma int) bool {
	lead := strings.TrimLeft(s[:comma], "+-")
	return len(s)-comma-1 == 3 && lead != "" && lead != "0" && len(lead) <= 3
}

// makeRef creates a reference like bank_20250103_TOKOPEDIA.
func makeRef(date time.Time, desc string) string {
	prefix := strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, desc)
	if len(prefix) > 10 {
		prefix = prefix[:10]
	}
	return fmt.Sprintf("bank_%s_%s", date.Format("20060102"), prefix)
}
