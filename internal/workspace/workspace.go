// Package workspace wires a books directory: configuration, logger, chart
// of accounts, contacts, journal storage and the document builder.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/cleared-dev/buku/internal/accounts"
	"github.com/cleared-dev/buku/internal/activity"
	"github.com/cleared-dev/buku/internal/builder"
	"github.com/cleared-dev/buku/internal/config"
	"github.com/cleared-dev/buku/internal/contacts"
	"github.com/cleared-dev/buku/internal/gitops"
	"github.com/cleared-dev/buku/internal/journal"
	"github.com/cleared-dev/buku/internal/journal/sqlstore"
	"github.com/cleared-dev/buku/internal/logger"
	"github.com/cleared-dev/buku/internal/model"
)

// ErrNotWorkspace is returned when root has no buku.yaml.
var ErrNotWorkspace = errors.New("not a buku workspace (run buku init)")

// Dirs are created by Init under the workspace root.
var Dirs = []string{
	"accounts",
	"contacts",
	"journal",
	"logs",
	"import",
	filepath.Join("import", "processed"),
}

// Workspace is an opened set of books.
type Workspace struct {
	Root     string
	Config   *config.Config
	Log      *zap.SugaredLogger
	Accounts *accounts.Service
	Contacts *contacts.Book
	Journal  *journal.Service
	Builder  *builder.Builder

	// fileConfig is buku.yaml as stored, without environment overrides.
	fileConfig *config.Config
	closeStore func() error
}

// Init lays out a new workspace at root with the default chart and config,
// and makes the first commit when git is enabled.
func Init(ctx context.Context, root string, cfg *config.Config) (string, error) {
	if _, err := os.Stat(config.Path(root)); err == nil {
		return "", fmt.Errorf("%s already exists in %s", config.FileName, root)
	}
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	for _, d := range Dirs {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			return "", fmt.Errorf("creating directory %s: %w", d, err)
		}
	}
	if err := config.Save(config.Path(root), cfg); err != nil {
		return "", err
	}
	if err := accounts.NewService(accounts.DefaultChart()).Save(root); err != nil {
		return "", fmt.Errorf("writing chart of accounts: %w", err)
	}
	if err := contacts.NewBook(nil).Save(root); err != nil {
		return "", fmt.Errorf("writing contacts: %w", err)
	}

	ignore := ".env\n*.db\n"
	if err := os.WriteFile(filepath.Join(root, ".gitignore"), []byte(ignore), 0o644); err != nil {
		return "", fmt.Errorf("writing .gitignore: %w", err)
	}
	if err := os.WriteFile(filepath.Join(root, "import", ".gitkeep"), nil, 0o644); err != nil {
		return "", fmt.Errorf("writing .gitkeep: %w", err)
	}

	if !cfg.Git.AutoCommit {
		return "", nil
	}
	if !gitops.IsRepo(root) {
		if err := gitops.Init(ctx, root); err != nil {
			return "", err
		}
	}
	hash, err := gitops.CommitAll(ctx, root, "init: "+cfg.Business.Name, author(cfg))
	if err != nil {
		return "", fmt.Errorf("initial commit: %w", err)
	}
	return hash, nil
}

// Open loads the workspace at root. Environment overrides from .env and the
// process environment are applied before validation.
func Open(root string) (*Workspace, error) {
	cfg, err := config.Load(config.Path(root))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotWorkspace, root)
	}
	if err != nil {
		return nil, err
	}
	onDisk := *cfg
	env, err := config.LoadEnv(root)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(env); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, err
	}
	return open(root, cfg, &onDisk, log)
}

// OpenWith loads the workspace using an already-built config and logger.
func OpenWith(root string, cfg *config.Config, log *zap.SugaredLogger) (*Workspace, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	onDisk := *cfg
	return open(root, cfg, &onDisk, log)
}

func open(root string, cfg, fileCfg *config.Config, log *zap.SugaredLogger) (*Workspace, error) {
	chart, err := accounts.Load(root)
	if err != nil {
		return nil, err
	}
	book, err := contacts.Load(root)
	if err != nil {
		return nil, err
	}

	store, closeStore, err := openStore(root, cfg.Storage, log)
	if err != nil {
		return nil, err
	}

	b := builder.New(chart, cfg.TaxSettings())
	b.System = cfg.BuilderAccounts()

	return &Workspace{
		Root:       root,
		Config:     cfg,
		Log:        log,
		Accounts:   chart,
		Contacts:   book,
		Journal:    journal.NewService(store, chart, log),
		Builder:    b,
		fileConfig: fileCfg,
		closeStore: closeStore,
	}, nil
}

func openStore(root string, sc config.StorageConfig, log *zap.SugaredLogger) (journal.Store, func() error, error) {
	switch sc.Driver {
	case config.DriverCSV:
		log.Debugw("journal storage opened", "driver", sc.Driver, "root", root)
		return journal.NewFileStore(root), func() error { return nil }, nil
	case config.DriverSQLite, config.DriverPostgres:
		dsn := sc.DSN
		if dsn == "" && sc.Driver == config.DriverSQLite {
			dsn = filepath.Join(root, "journal", "buku.db")
		}
		db, err := sqlstore.Open(sc.Driver, dsn)
		if err != nil {
			return nil, nil, err
		}
		store, err := sqlstore.New(db)
		if err != nil {
			return nil, nil, err
		}
		log.Debugw("journal storage opened", "driver", sc.Driver)
		return store, store.Close, nil
	}
	return nil, nil, fmt.Errorf("unsupported storage driver %q", sc.Driver)
}

// Close releases the journal store and flushes the logger.
func (w *Workspace) Close() error {
	logger.Sync(w.Log)
	if w.closeStore == nil {
		return nil
	}
	return w.closeStore()
}

// Entries returns every journal entry.
func (w *Workspace) Entries(ctx context.Context) ([]model.JournalEntry, error) {
	return w.Journal.All(ctx)
}

// SaveAccounts persists the chart of accounts.
func (w *Workspace) SaveAccounts() error {
	return w.Accounts.Save(w.Root)
}

// SaveContacts persists the contact book.
func (w *Workspace) SaveContacts() error {
	return w.Contacts.Save(w.Root)
}

// UpdateConfig applies change to both the effective config and the stored
// buku.yaml, then refreshes the builder. Environment overrides are never
// written to disk.
func (w *Workspace) UpdateConfig(change func(*config.Config)) error {
	effective := *w.Config
	change(&effective)
	if err := effective.Validate(); err != nil {
		return err
	}
	onDisk := *w.fileConfig
	change(&onDisk)
	if err := config.Save(config.Path(w.Root), &onDisk); err != nil {
		return err
	}

	*w.Config = effective
	*w.fileConfig = onDisk
	w.Builder.Tax = w.Config.TaxSettings()
	w.Builder.System = w.Config.BuilderAccounts()
	return nil
}

// Record commits the pending change when auto-commit is on and appends an
// activity row carrying that commit's hash. The activity row itself lands
// in the next commit.
func (w *Workspace) Record(ctx context.Context, action activity.Action, details, entryID string) (string, error) {
	hash, err := w.Commit(ctx, fmt.Sprintf("%s: %s", action, details))
	if err != nil {
		return "", err
	}
	rec := activity.Record{
		Timestamp:  time.Now(),
		User:       w.Config.Git.AuthorName,
		Action:     action,
		Details:    details,
		EntryID:    entryID,
		CommitHash: hash,
	}
	if err := activity.Append(w.Root, rec); err != nil {
		return "", err
	}
	return hash, nil
}

// Commit stages and commits the workspace when auto-commit is enabled and
// the root is a git repository. Returns "" when nothing was committed.
func (w *Workspace) Commit(ctx context.Context, message string) (string, error) {
	if !w.Config.Git.AutoCommit || !gitops.IsRepo(w.Root) {
		return "", nil
	}
	hash, err := gitops.CommitAll(ctx, w.Root, message, author(w.Config))
	if errors.Is(err, gitops.ErrNothingToCommit) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	w.Log.Infow("committed", "hash", hash, "message", message)
	return hash, nil
}

func author(cfg *config.Config) gitops.Author {
	return gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}
}
