// Package contacts stores the clients and suppliers that sales and
// purchases refer to.
package contacts

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/cleared-dev/buku/internal/model"
)

// ErrContactNotFound is returned when a contact cannot be resolved.
var ErrContactNotFound = errors.New("contact not found")

// Header is the CSV header for contacts.csv.
const Header = "contact_id,name,kind,email,phone,address"

const numFields = 6

var validate = validator.New()

// Path returns the contacts file under a workspace root.
func Path(root string) string {
	return filepath.Join(root, "contacts", "contacts.csv")
}

// Book is the in-memory contact list.
type Book struct {
	contacts []model.Contact
}

// NewBook creates a Book from existing contacts.
func NewBook(contacts []model.Contact) *Book {
	b := &Book{contacts: make([]model.Contact, len(contacts))}
	copy(b.contacts, contacts)
	return b
}

// Load reads contacts.csv. A missing file is an empty book.
func Load(root string) (*Book, error) {
	f, err := os.Open(Path(root))
	if errors.Is(err, fs.ErrNotExist) {
		return NewBook(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening contacts: %w", err)
	}
	defer f.Close()

	cs, err := ReadContacts(f)
	if err != nil {
		return nil, fmt.Errorf("reading contacts: %w", err)
	}
	return NewBook(cs), nil
}

// Save writes the book to contacts/contacts.csv.
func (b *Book) Save(root string) error {
	path := Path(root)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating contacts dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating contacts file: %w", err)
	}
	defer f.Close()

	if err := WriteContacts(f, b.contacts); err != nil {
		return fmt.Errorf("writing contacts: %w", err)
	}
	return nil
}

// All returns every contact in insertion order.
func (b *Book) All() []model.Contact {
	out := make([]model.Contact, len(b.contacts))
	copy(out, b.contacts)
	return out
}

// ByKind returns the clients or the suppliers.
func (b *Book) ByKind(kind model.ContactKind) []model.Contact {
	var out []model.Contact
	for _, c := range b.contacts {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// Get returns a contact by ID.
func (b *Book) Get(id string) (model.Contact, error) {
	for _, c := range b.contacts {
		if c.ID == id {
			return c, nil
		}
	}
	return model.Contact{}, fmt.Errorf("%w: %s", ErrContactNotFound, id)
}

// Find resolves a contact of the given kind by ID or by case-insensitive
// name.
func (b *Book) Find(kind model.ContactKind, idOrName string) (model.Contact, error) {
	for _, c := range b.contacts {
		if c.Kind != kind {
			continue
		}
		if c.ID == idOrName || strings.EqualFold(c.Name, idOrName) {
			return c, nil
		}
	}
	return model.Contact{}, fmt.Errorf("%w: %s %q", ErrContactNotFound, kind, idOrName)
}

// Add assigns a new UUID, validates and appends a contact. Returns the
// stored contact.
func (b *Book) Add(c model.Contact) (model.Contact, error) {
	c.ID = uuid.NewString()
	c.Name = strings.TrimSpace(c.Name)
	if err := validate.Struct(c); err != nil {
		return model.Contact{}, fmt.Errorf("invalid contact %q: %w", c.Name, err)
	}
	b.contacts = append(b.contacts, c)
	return c, nil
}

// ReadContacts reads contacts from a CSV reader (expects header row).
func ReadContacts(r io.Reader) ([]model.Contact, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading contacts CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	out := make([]model.Contact, 0, len(records)-1)
	for i, rec := range records[1:] {
		c := model.Contact{
			ID:      rec[0],
			Name:    rec[1],
			Kind:    model.ContactKind(rec[2]),
			Email:   rec[3],
			Phone:   rec[4],
			Address: rec[5],
		}
		if c.Kind != model.ContactClient && c.Kind != model.ContactSupplier {
			return nil, fmt.Errorf("row %d: unknown contact kind %q", i+2, rec[2])
		}
		out = append(out, c)
	}
	return out, nil
}

// WriteContacts writes contacts to a CSV writer (including header).
func WriteContacts(w io.Writer, contacts []model.Contact) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, c := range contacts {
		if err := cw.Write([]string{c.ID, c.Name, string(c.Kind), c.Email, c.Phone, c.Address}); err != nil {
			return fmt.Errorf("writing contact %s: %w", c.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
