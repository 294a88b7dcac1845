package importer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cleared-dev/buku/internal/builder"
	"github.com/cleared-dev/buku/internal/model"
)

// Parser converts a bank CSV file into BankTransactions.
type Parser interface {
	Parse(r io.Reader) ([]model.BankTransaction, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// FileInfo describes a CSV file in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&GenericParser{})
	return r
}

const (
	importDir    = "import"
	processedDir = "import/processed"
)

// Scan returns CSV files waiting in <root>/import/.
func Scan(root string) ([]FileInfo, error) {
	dir := filepath.Join(root, importDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{Name: e.Name(), Path: filepath.Join(dir, e.Name()), Size: info.Size()})
	}
	return files, nil
}

// ParseFile opens path and runs it through p.
func ParseFile(p Parser, path string) ([]model.BankTransaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	txns, err := p.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s as %s: %w", filepath.Base(path), p.Format(), err)
	}
	return txns, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(root, fileName string) error {
	src := filepath.Join(root, importDir, fileName)
	dstDir := filepath.Join(root, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}
	if err := os.Rename(src, filepath.Join(dstDir, fileName)); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}

// CashDocument is a bank row turned into a cash receipt or payment input.
type CashDocument struct {
	Receipt bool
	Input   builder.CashInput
}

// ToCashInputs maps money in to receipts crediting inAccountID and money out
// to payments debiting outAccountID. Zero-amount rows are dropped.
func ToCashInputs(txns []model.BankTransaction, bankAccountID, inAccountID, outAccountID string) []CashDocument {
	docs := make([]CashDocument, 0, len(txns))
	for _, t := range txns {
		if t.Amount.IsZero() {
			continue
		}
		desc := t.Description
		if strings.TrimSpace(desc) == "" {
			desc = "Mutasi bank"
		}
		counter := outAccountID
		if t.Amount.IsPositive() {
			counter = inAccountID
		}
		docs = append(docs, CashDocument{
			Receipt: t.Amount.IsPositive(),
			Input: builder.CashInput{
				Date:             t.Date,
				Ref:              t.Reference,
				Description:      desc,
				AccountID:        bankAccountID,
				CounterAccountID: counter,
				Amount:           t.Amount.Abs(),
			},
		})
	}
	return docs
}

// Build turns a CashDocument into a journal entry.
func Build(b *builder.Builder, doc CashDocument) (model.JournalEntry, error) {
	if doc.Receipt {
		return b.CashReceipt(doc.Input)
	}
	return b.CashPayment(doc.Input)
}
