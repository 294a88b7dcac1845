package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/buku/internal/builder"
	"github.com/cleared-dev/buku/internal/model"
)

const dateLayout = "2006-01-02"

// parseDate parses YYYY-MM-DD. An empty string is today.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return d, nil
}

// parseOptionalDate parses YYYY-MM-DD. An empty string is the zero time.
func parseOptionalDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return parseDate(s)
}

func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, "_", ""))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	return d, nil
}

// parseItem reads "description:qty:price" or "qty:price". The description
// may itself contain colons.
func parseItem(s string) (builder.LineItem, error) {
	rest, priceStr, ok := cutLast(s)
	if !ok {
		return builder.LineItem{}, fmt.Errorf("invalid item %q (want description:qty:price)", s)
	}
	desc, qtyStr, ok := cutLast(rest)
	if !ok {
		desc, qtyStr = "", rest
	}
	qty, err := parseAmount(qtyStr)
	if err != nil {
		return builder.LineItem{}, fmt.Errorf("item %q: %w", s, err)
	}
	price, err := parseAmount(priceStr)
	if err != nil {
		return builder.LineItem{}, fmt.Errorf("item %q: %w", s, err)
	}
	return builder.LineItem{Description: desc, Qty: qty, Price: price}, nil
}

// parseLine reads "account:amount" into a posting on the given side.
func parseLine(s string, debit bool) (model.Posting, error) {
	acct, amtStr, ok := cutLast(s)
	if !ok || acct == "" {
		return model.Posting{}, fmt.Errorf("invalid line %q (want account:amount)", s)
	}
	amt, err := parseAmount(amtStr)
	if err != nil {
		return model.Posting{}, fmt.Errorf("line %q: %w", s, err)
	}
	if debit {
		return model.Posting{AccountID: acct, Debit: amt}, nil
	}
	return model.Posting{AccountID: acct, Credit: amt}, nil
}

func cutLast(s string) (before, after string, ok bool) {
	i := strings.LastIndex(s, ":")
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+1:], true
}
