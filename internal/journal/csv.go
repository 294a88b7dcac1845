package journal

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/buku/internal/id"
	"github.com/cleared-dev/buku/internal/model"
)

// Header is the CSV header for journal.csv. Each row is one posting; the
// entry fields repeat on every row of the entry.
const Header = "posting_id,date,type,ref,description,counterparty,tax_option,account_id,debit,credit"

const (
	numFields  = 10
	dateFormat = "2006-01-02"
	colID      = 0
	colDate    = 1
	colType    = 2
	colRef     = 3
	colDesc    = 4
	colCparty  = 5
	colTax     = 6
	colAcctID  = 7
	colDebit   = 8
	colCredit  = 9
)

// ReadEntries reads all entries from a journal.csv reader. Rows are grouped
// by entry ID in first-seen order; posting order is preserved.
func ReadEntries(r io.Reader) ([]model.JournalEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading journal CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []model.JournalEntry
	index := make(map[string]int)
	for i, rec := range records[1:] {
		e, p, err := UnmarshalRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		if at, seen := index[e.ID]; seen {
			entries[at].Postings = append(entries[at].Postings, p)
			continue
		}
		e.Postings = []model.Posting{p}
		index[e.ID] = len(entries)
		entries = append(entries, e)
	}
	return entries, nil
}

// WriteEntries writes entries to a journal.csv writer (including header).
func WriteEntries(w io.Writer, entries []model.JournalEntry) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err := writeRows(cw, entries); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// AppendEntries appends entries to an existing journal.csv writer (no header).
func AppendEntries(w io.Writer, entries []model.JournalEntry) error {
	cw := csv.NewWriter(w)
	if err := writeRows(cw, entries); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func writeRows(cw *csv.Writer, entries []model.JournalEntry) error {
	for _, e := range entries {
		for n := range e.Postings {
			if err := cw.Write(MarshalRow(e, n)); err != nil {
				return fmt.Errorf("writing %s: %w", id.FormatPostingID(e.ID, n), err)
			}
		}
	}
	return nil
}

// MarshalRow converts posting n of an entry to a CSV row.
func MarshalRow(e model.JournalEntry, n int) []string {
	p := e.Postings[n]
	row := make([]string, numFields)
	row[colID] = id.FormatPostingID(e.ID, n)
	row[colDate] = e.Date.Format(dateFormat)
	row[colType] = string(e.Type)
	row[colRef] = e.Ref
	row[colDesc] = e.Description
	row[colCparty] = e.Counterparty
	row[colTax] = string(e.TaxOption)
	row[colAcctID] = p.AccountID

	if !p.Debit.IsZero() {
		row[colDebit] = p.Debit.StringFixed(2)
	}
	if !p.Credit.IsZero() {
		row[colCredit] = p.Credit.StringFixed(2)
	}
	return row
}

// UnmarshalRow converts a CSV row to its entry header and posting. The
// returned entry has no postings attached.
func UnmarshalRow(record []string) (model.JournalEntry, model.Posting, error) {
	if len(record) != numFields {
		return model.JournalEntry{}, model.Posting{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := time.Parse(dateFormat, record[colDate])
	if err != nil {
		return model.JournalEntry{}, model.Posting{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}

	debit, err := parseAmount(record[colDebit])
	if err != nil {
		return model.JournalEntry{}, model.Posting{}, fmt.Errorf("parsing debit %q: %w", record[colDebit], err)
	}
	credit, err := parseAmount(record[colCredit])
	if err != nil {
		return model.JournalEntry{}, model.Posting{}, fmt.Errorf("parsing credit %q: %w", record[colCredit], err)
	}

	e := model.JournalEntry{
		ID:           id.EntryGroup(record[colID]),
		Date:         date,
		Type:         model.EntryType(record[colType]),
		Ref:          record[colRef],
		Description:  record[colDesc],
		Counterparty: record[colCparty],
		TaxOption:    model.TaxOption(record[colTax]),
	}
	p := model.Posting{AccountID: record[colAcctID], Debit: debit, Credit: credit}
	return e, p, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
