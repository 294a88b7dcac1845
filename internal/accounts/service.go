package accounts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/buku/internal/model"
)

var (
	ErrAccountNotFound  = errors.New("account not found")
	ErrDuplicateAccount = errors.New("account already exists")
	ErrNotDeletable     = errors.New("system account cannot be deleted")
	ErrAccountInUse     = errors.New("account is referenced by journal postings")
)

var validate = validator.New()

// UsageChecker reports whether any posting references an account.
type UsageChecker interface {
	InUse(accountID string) (bool, error)
}

// Service provides in-memory lookup and edits over the chart of accounts.
type Service struct {
	accounts []model.Account
	byID     map[string]int
}

// NewService creates a Service from a slice of accounts. Accounts are kept
// sorted by ID.
func NewService(accounts []model.Account) *Service {
	s := &Service{accounts: make([]model.Account, len(accounts))}
	copy(s.accounts, accounts)
	s.reindex()
	return s
}

func (s *Service) reindex() {
	sort.SliceStable(s.accounts, func(i, j int) bool { return s.accounts[i].ID < s.accounts[j].ID })
	s.byID = make(map[string]int, len(s.accounts))
	for i, a := range s.accounts {
		s.byID[a.ID] = i
	}
}

// Path returns the chart-of-accounts location under a workspace root.
func Path(root string) string {
	return filepath.Join(root, "accounts", "chart-of-accounts.csv")
}

// Load reads chart-of-accounts.csv from a workspace root and returns a Service.
func Load(root string) (*Service, error) {
	f, err := os.Open(Path(root))
	if err != nil {
		return nil, fmt.Errorf("opening chart of accounts: %w", err)
	}
	defer f.Close()

	accts, err := ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("reading chart of accounts: %w", err)
	}
	return NewService(accts), nil
}

// Save writes the chart of accounts to accounts/chart-of-accounts.csv.
func (s *Service) Save(root string) error {
	path := Path(root)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating accounts dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating chart of accounts file: %w", err)
	}
	defer f.Close()

	if err := WriteAccounts(f, s.accounts); err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}
	return nil
}

// All returns all accounts ordered by ID.
func (s *Service) All() []model.Account {
	out := make([]model.Account, len(s.accounts))
	copy(out, s.accounts)
	return out
}

// Get returns an account by ID.
func (s *Service) Get(id string) (model.Account, bool) {
	i, ok := s.byID[id]
	if !ok {
		return model.Account{}, false
	}
	return s.accounts[i], true
}

// Exists reports whether an account ID exists.
func (s *Service) Exists(id string) bool {
	_, ok := s.byID[id]
	return ok
}

// ByCategory returns all accounts of the given category.
func (s *Service) ByCategory(cat model.Category) []model.Account {
	var result []model.Account
	for _, a := range s.accounts {
		if a.Category == cat {
			result = append(result, a)
		}
	}
	return result
}

// BySubCategory returns all accounts of the given sub-category, e.g. the
// cash/bank accounts offered when recording a receipt.
func (s *Service) BySubCategory(sub model.SubCategory) []model.Account {
	var result []model.Account
	for _, a := range s.accounts {
		if a.SubCategory == sub {
			result = append(result, a)
		}
	}
	return result
}

// Add validates and inserts a new account.
func (s *Service) Add(acct model.Account) error {
	if err := Validate(acct); err != nil {
		return err
	}
	if s.Exists(acct.ID) {
		return fmt.Errorf("%w: %s", ErrDuplicateAccount, acct.ID)
	}
	s.accounts = append(s.accounts, acct)
	s.reindex()
	return nil
}

// Update replaces the name, classification and opening balance of an
// existing account. The deletable flag of the stored account is kept.
func (s *Service) Update(acct model.Account) error {
	i, ok := s.byID[acct.ID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrAccountNotFound, acct.ID)
	}
	acct.Deletable = s.accounts[i].Deletable
	if err := Validate(acct); err != nil {
		return err
	}
	s.accounts[i] = acct
	return nil
}

// SetOpening changes the opening balance of an account.
func (s *Service) SetOpening(id string, amount decimal.Decimal) error {
	i, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrAccountNotFound, id)
	}
	s.accounts[i].OpeningBalance = amount
	return nil
}

// Delete removes an account. System accounts and accounts with postings
// are refused.
func (s *Service) Delete(id string, usage UsageChecker) error {
	i, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrAccountNotFound, id)
	}
	if !s.accounts[i].Deletable {
		return fmt.Errorf("%w: %s", ErrNotDeletable, id)
	}
	if usage != nil {
		used, err := usage.InUse(id)
		if err != nil {
			return fmt.Errorf("checking postings for %s: %w", id, err)
		}
		if used {
			return fmt.Errorf("%w: %s", ErrAccountInUse, id)
		}
	}
	s.accounts = append(s.accounts[:i], s.accounts[i+1:]...)
	s.reindex()
	return nil
}

// Validate checks field shape and that the sub-category belongs to the
// category's classification.
func Validate(acct model.Account) error {
	if err := validate.Struct(acct); err != nil {
		return fmt.Errorf("invalid account %q: %w", acct.ID, err)
	}
	if !acct.Category.Valid() {
		return fmt.Errorf("invalid account %q: unknown category %q", acct.ID, acct.Category)
	}
	if !model.ValidSubCategory(acct.Category, acct.SubCategory) {
		return fmt.Errorf("invalid account %q: sub-category %q not allowed for %s", acct.ID, acct.SubCategory, acct.Category)
	}
	return nil
}
