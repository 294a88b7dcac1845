package id

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatEntryID returns an entry ID like "2025-07-001".
func FormatEntryID(year, month, seq int) string {
	return fmt.Sprintf("%04d-%02d-%03d", year, month, seq)
}

// ForDate returns the entry ID for sequence seq in the month of d.
func ForDate(d time.Time, seq int) string {
	return FormatEntryID(d.Year(), int(d.Month()), seq)
}

// FormatPostingID returns a posting row ID like "2025-07-001a".
// Postings past 'z' continue with "aa", "ab", ...
func FormatPostingID(entryID string, n int) string {
	return entryID + suffix(n)
}

func suffix(n int) string {
	var b []byte
	for n >= 0 {
		b = append([]byte{byte('a' + n%26)}, b...)
		n = n/26 - 1
	}
	return string(b)
}

// ParseEntryID parses "2025-07-001" (with or without a posting suffix)
// into year, month, seq.
func ParseEntryID(id string) (year, month, seq int, err error) {
	base := EntryGroup(id)

	parts := strings.SplitN(base, "-", 3)
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("invalid entry ID format: %q", id)
	}

	year, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid year in entry ID %q: %w", id, err)
	}

	month, err = strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, 0, fmt.Errorf("invalid month in entry ID %q", id)
	}

	seq, err = strconv.Atoi(parts[2])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid sequence in entry ID %q: %w", id, err)
	}

	return year, month, seq, nil
}

// EntryGroup strips the posting suffix from a posting row ID.
// "2025-07-001b" -> "2025-07-001"
func EntryGroup(rowID string) string {
	i := len(rowID)
	for i > 0 && rowID[i-1] >= 'a' && rowID[i-1] <= 'z' {
		i--
	}
	return rowID[:i]
}
