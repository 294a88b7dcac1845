// Package activity keeps an audit trail of changes made to the books in
// logs/activity.csv.
package activity

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Action names a kind of change to the books.
type Action string

const (
	ActionInit          Action = "init"
	ActionEntryCreate   Action = "entry_create"
	ActionEntryReplace  Action = "entry_replace"
	ActionEntryDelete   Action = "entry_delete"
	ActionImport        Action = "import"
	ActionAccountChange Action = "account_change"
	ActionContactAdd    Action = "contact_add"
	ActionSettings      Action = "settings"
)

// Record is one row of the activity log.
type Record struct {
	Timestamp  time.Time
	User       string
	Action     Action
	Details    string
	EntryID    string
	CommitHash string
}

// Header is the CSV header for activity.csv.
const Header = "timestamp,user,action,details,entry_id,commit_hash"

const (
	numFields = 6

	colTimestamp  = 0
	colUser       = 1
	colAction     = 2
	colDetails    = 3
	colEntryID    = 4
	colCommitHash = 5
)

// Path returns the activity log under a workspace root.
func Path(root string) string {
	return filepath.Join(root, "logs", "activity.csv")
}

// MarshalRecord converts a Record to a CSV row.
func MarshalRecord(r Record) []string {
	row := make([]string, numFields)
	row[colTimestamp] = r.Timestamp.UTC().Format(time.RFC3339)
	row[colUser] = r.User
	row[colAction] = string(r.Action)
	row[colDetails] = r.Details
	row[colEntryID] = r.EntryID
	row[colCommitHash] = r.CommitHash
	return row
}

// UnmarshalRecord converts a CSV row to a Record.
func UnmarshalRecord(rec []string) (Record, error) {
	if len(rec) != numFields {
		return Record{}, fmt.Errorf("expected %d fields, got %d", numFields, len(rec))
	}
	ts, err := time.Parse(time.RFC3339, rec[colTimestamp])
	if err != nil {
		return Record{}, fmt.Errorf("parsing timestamp %q: %w", rec[colTimestamp], err)
	}
	return Record{
		Timestamp:  ts,
		User:       rec[colUser],
		Action:     Action(rec[colAction]),
		Details:    rec[colDetails],
		EntryID:    rec[colEntryID],
		CommitHash: rec[colCommitHash],
	}, nil
}

// Append adds records to the log, writing the header on first use.
func Append(root string, records ...Record) error {
	path := Path(root)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	_, statErr := os.Stat(path)
	fresh := errors.Is(statErr, fs.ErrNotExist)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if fresh {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, r := range records {
		if err := cw.Write(MarshalRecord(r)); err != nil {
			return fmt.Errorf("writing record %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns every record in the log. A missing log is empty.
func Read(root string) ([]Record, error) {
	f, err := os.Open(Path(root))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	return ReadRecords(f)
}

// ReadRecords parses an activity CSV including its header row.
func ReadRecords(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading activity CSV: %w", err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}

	out := make([]Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec, err := UnmarshalRecord(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// ForEntry returns the records that touched entryID, oldest first.
func ForEntry(records []Record, entryID string) []Record {
	var out []Record
	for _, r := range records {
		if r.EntryID == entryID {
			out = append(out, r)
		}
	}
	return out
}
