package journal

import (
	"context"
	"errors"

	"github.com/cleared-dev/buku/internal/model"
)

// ErrEntryNotFound is returned when an entry ID does not resolve.
var ErrEntryNotFound = errors.New("journal entry not found")

// Store persists journal entries together with their postings. All returns
// entries ordered by date, ties in storage order. Create and Replace return
// the ID the entry was stored under.
type Store interface {
	All(ctx context.Context) ([]model.JournalEntry, error)
	Get(ctx context.Context, id string) (model.JournalEntry, error)
	Create(ctx context.Context, e model.JournalEntry) (string, error)
	Replace(ctx context.Context, id string, e model.JournalEntry) (string, error)
	Delete(ctx context.Context, id string) error
}
