package journal

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/cleared-dev/buku/internal/id"
	"github.com/cleared-dev/buku/internal/model"
)

// FileStore keeps one journal.csv per month under journal/YYYY/MM/.
type FileStore struct {
	root string
}

// NewFileStore creates a FileStore rooted at a workspace directory.
func NewFileStore(root string) *FileStore {
	return &FileStore{root: root}
}

// MonthPath returns the journal file for a year/month.
func (s *FileStore) MonthPath(year, month int) string {
	return filepath.Join(s.root, "journal", fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", month), "journal.csv")
}

// ReadMonth reads all entries for a given year/month. A missing file is an
// empty month.
func (s *FileStore) ReadMonth(year, month int) ([]model.JournalEntry, error) {
	path := s.MonthPath(year, month)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening journal %s: %w", path, err)
	}
	defer f.Close()

	entries, err := ReadEntries(f)
	if err != nil {
		return nil, fmt.Errorf("reading journal %s: %w", path, err)
	}
	return entries, nil
}

// All returns every entry across all month files, ordered by date.
func (s *FileStore) All(ctx context.Context) ([]model.JournalEntry, error) {
	paths, err := filepath.Glob(filepath.Join(s.root, "journal", "*", "*", "journal.csv"))
	if err != nil {
		return nil, fmt.Errorf("listing journal files: %w", err)
	}
	sort.Strings(paths)

	var all []model.JournalEntry
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening journal %s: %w", path, err)
		}
		entries, err := ReadEntries(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("reading journal %s: %w", path, err)
		}
		all = append(all, entries...)
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].Date.Before(all[j].Date) })
	return all, nil
}

// Get returns the entry with entryID, or ErrEntryNotFound.
func (s *FileStore) Get(_ context.Context, entryID string) (model.JournalEntry, error) {
	year, month, _, err := id.ParseEntryID(entryID)
	if err != nil {
		return model.JournalEntry{}, fmt.Errorf("%w: %s", ErrEntryNotFound, entryID)
	}
	entries, err := s.ReadMonth(year, month)
	if err != nil {
		return model.JournalEntry{}, err
	}
	for _, e := range entries {
		if e.ID == entryID {
			return e, nil
		}
	}
	return model.JournalEntry{}, fmt.Errorf("%w: %s", ErrEntryNotFound, entryID)
}

// Create assigns the next sequence number in the entry's month and appends
// its postings to that month's file.
func (s *FileStore) Create(_ context.Context, e model.JournalEntry) (string, error) {
	year, month := e.Date.Year(), int(e.Date.Month())
	existing, err := s.ReadMonth(year, month)
	if err != nil {
		return "", err
	}
	e.ID = id.FormatEntryID(year, month, nextSeq(existing))

	path := s.MonthPath(year, month)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating journal dir: %w", err)
	}

	isNew := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return "", fmt.Errorf("opening journal: %w", err)
	}
	defer f.Close()

	if isNew {
		if _, err := fmt.Fprintln(f, Header); err != nil {
			return "", fmt.Errorf("writing header: %w", err)
		}
	}
	if err := AppendEntries(f, []model.JournalEntry{e}); err != nil {
		return "", fmt.Errorf("appending entry: %w", err)
	}
	return e.ID, nil
}

// Replace swaps the postings and header of an entry. An entry whose new date
// falls in another month moves to that month's file under a new ID.
func (s *FileStore) Replace(ctx context.Context, entryID string, e model.JournalEntry) (string, error) {
	year, month, _, err := id.ParseEntryID(entryID)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrEntryNotFound, entryID)
	}
	entries, err := s.ReadMonth(year, month)
	if err != nil {
		return "", err
	}
	i := indexOf(entries, entryID)
	if i < 0 {
		return "", fmt.Errorf("%w: %s", ErrEntryNotFound, entryID)
	}

	if e.Date.Year() == year && int(e.Date.Month()) == month {
		e.ID = entryID
		entries[i] = e
		if err := s.writeMonth(year, month, entries); err != nil {
			return "", err
		}
		return entryID, nil
	}

	// The new copy is written before the old one is removed.
	newID, err := s.Create(ctx, e)
	if err != nil {
		return "", err
	}
	entries = append(entries[:i], entries[i+1:]...)
	if err := s.writeMonth(year, month, entries); err != nil {
		if derr := s.Delete(ctx, newID); derr != nil {
			return "", errors.Join(err, derr)
		}
		return "", err
	}
	return newID, nil
}

// Delete removes an entry from its month file.
func (s *FileStore) Delete(_ context.Context, entryID string) error {
	year, month, _, err := id.ParseEntryID(entryID)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrEntryNotFound, entryID)
	}
	entries, err := s.ReadMonth(year, month)
	if err != nil {
		return err
	}
	i := indexOf(entries, entryID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrEntryNotFound, entryID)
	}
	return s.writeMonth(year, month, append(entries[:i], entries[i+1:]...))
}

// writeMonth rewrites a month file through a temp file and rename.
func (s *FileStore) writeMonth(year, month int, entries []model.JournalEntry) error {
	path := s.MonthPath(year, month)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating journal dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "journal-*.csv")
	if err != nil {
		return fmt.Errorf("creating temp journal: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteEntries(tmp, entries); err != nil {
		tmp.Close()
		return fmt.Errorf("writing journal %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp journal: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing journal %s: %w", path, err)
	}
	return nil
}

func nextSeq(entries []model.JournalEntry) int {
	maxSeq := 0
	for _, e := range entries {
		_, _, seq, err := id.ParseEntryID(e.ID)
		if err != nil {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	return maxSeq + 1
}

func indexOf(entries []model.JournalEntry, entryID string) int {
	for i, e := range entries {
		if e.ID == entryID {
			return i
		}
	}
	return -1
}
