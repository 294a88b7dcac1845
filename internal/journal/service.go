package journal

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/cleared-dev/buku/internal/model"
)

// Service validates entries before handing them to a Store. Mutations are
// serialized so a ledger only ever sees whole, balanced entries.
type Service struct {
	mu       sync.Mutex
	store    Store
	accounts AccountChecker
	log      *zap.SugaredLogger
}

// NewService creates a journal Service.
func NewService(store Store, accounts AccountChecker, log *zap.SugaredLogger) *Service {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Service{store: store, accounts: accounts, log: log}
}

// All returns every stored entry, ordered by date.
func (s *Service) All(ctx context.Context) ([]model.JournalEntry, error) {
	return s.store.All(ctx)
}

// Get returns a single entry.
func (s *Service) Get(ctx context.Context, id string) (model.JournalEntry, error) {
	return s.store.Get(ctx, id)
}

// Create validates and stores a new entry. Returns the assigned ID.
func (s *Service) Create(ctx context.Context, e model.JournalEntry) (string, error) {
	if err := s.check(e); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entryID, err := s.store.Create(ctx, e)
	if err != nil {
		return "", fmt.Errorf("storing entry: %w", err)
	}
	s.log.Infow("entry created", "id", entryID, "type", e.Type, "ref", e.Ref, "postings", len(e.Postings))
	return entryID, nil
}

// Replace validates e and swaps it in for the entry stored under id. All old
// postings are discarded. Returns the ID the entry now lives under.
func (s *Service) Replace(ctx context.Context, id string, e model.JournalEntry) (string, error) {
	if err := s.check(e); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	newID, err := s.store.Replace(ctx, id, e)
	if err != nil {
		return "", fmt.Errorf("replacing entry %s: %w", id, err)
	}
	s.log.Infow("entry replaced", "id", id, "new_id", newID, "type", e.Type, "ref", e.Ref, "postings", len(e.Postings))
	return newID, nil
}

// Delete removes an entry and its postings.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting entry %s: %w", id, err)
	}
	s.log.Infow("entry deleted", "id", id)
	return nil
}

// InUse reports whether any stored posting references accountID.
func (s *Service) InUse(accountID string) (bool, error) {
	entries, err := s.store.All(context.Background())
	if err != nil {
		return false, err
	}
	for _, e := range entries {
		for _, p := range e.Postings {
			if p.AccountID == accountID {
				return true, nil
			}
		}
	}
	return false, nil
}

func (s *Service) check(e model.JournalEntry) error {
	verrs := ValidateEntry(e, s.accounts)
	if len(verrs) == 0 {
		return nil
	}
	s.log.Warnw("entry rejected", "ref", e.Ref, "type", e.Type, "codes", verrs.Codes())
	return fmt.Errorf("validation failed: %w", verrs)
}
