// Package sqlstore persists journal entries in a SQL database through gorm.
// SQLite and PostgreSQL are supported.
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/cleared-dev/buku/internal/journal"
	"github.com/cleared-dev/buku/internal/model"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type entryRow struct {
	RowID        uint         `gorm:"primaryKey;autoIncrement"`
	EntryID      string       `gorm:"size:64;uniqueIndex;not null"`
	Date         time.Time    `gorm:"index;not null"`
	Type         string       `gorm:"size:32;not null"`
	Ref          string       `gorm:"size:100;not null"`
	Description  string       `gorm:"not null"`
	Counterparty string       `gorm:"size:255"`
	TaxOption    string       `gorm:"size:16"`
	Postings     []postingRow `gorm:"foreignKey:EntryRowID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (entryRow) TableName() string { return "journal_entries" }

type postingRow struct {
	ID         uint            `gorm:"primaryKey;autoIncrement"`
	EntryRowID uint            `gorm:"index;not null"`
	AccountID  string          `gorm:"size:32;index;not null"`
	Debit      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Credit     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

func (postingRow) TableName() string { return "journal_postings" }

// Open connects to a database for the given driver.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Store implements journal.Store over gorm.
type Store struct {
	db *gorm.DB
}

var _ journal.Store = (*Store)(nil)

// New migrates the schema and returns a Store.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&entryRow{}, &postingRow{}); err != nil {
		return nil, fmt.Errorf("migrating journal tables: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func orderedPostings(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}

// All returns every entry with its postings, ordered by date then insertion.
func (s *Store) All(ctx context.Context) ([]model.JournalEntry, error) {
	var rows []entryRow
	err := s.db.WithContext(ctx).
		Preload("Postings", orderedPostings).
		Order("date").Order("row_id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("loading entries: %w", err)
	}

	entries := make([]model.JournalEntry, len(rows))
	for i, r := range rows {
		entries[i] = toModel(r)
	}
	return entries, nil
}

// Get returns the entry with id, or journal.ErrEntryNotFound.
func (s *Store) Get(ctx context.Context, id string) (model.JournalEntry, error) {
	row, err := s.find(s.db.WithContext(ctx).Preload("Postings", orderedPostings), id)
	if err != nil {
		return model.JournalEntry{}, err
	}
	return toModel(row), nil
}

// Create stores an entry and its postings. A blank ID is replaced by a
// time-ordered UUIDv7.
func (s *Store) Create(ctx context.Context, e model.JournalEntry) (string, error) {
	if e.ID == "" {
		u, err := uuid.NewV7()
		if err != nil {
			return "", fmt.Errorf("generating entry id: %w", err)
		}
		e.ID = u.String()
	}
	row := fromModel(e)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", fmt.Errorf("creating entry: %w", err)
	}
	return e.ID, nil
}

// Replace deletes the old postings, updates the entry header and inserts
// the new postings in one transaction. The ID is kept.
func (s *Store) Replace(ctx context.Context, id string, e model.JournalEntry) (string, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := s.find(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Where("entry_row_id = ?", row.RowID).Delete(&postingRow{}).Error; err != nil {
			return fmt.Errorf("deleting postings: %w", err)
		}

		e.ID = id
		updated := fromModel(e)
		updated.RowID = row.RowID
		updated.CreatedAt = row.CreatedAt
		if err := tx.Omit(clause.Associations).Save(&updated).Error; err != nil {
			return fmt.Errorf("updating entry: %w", err)
		}

		postings := updated.Postings
		for i := range postings {
			postings[i].EntryRowID = row.RowID
		}
		if len(postings) > 0 {
			if err := tx.Create(&postings).Error; err != nil {
				return fmt.Errorf("inserting postings: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// Delete removes an entry and its postings.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := s.find(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Where("entry_row_id = ?", row.RowID).Delete(&postingRow{}).Error; err != nil {
			return fmt.Errorf("deleting postings: %w", err)
		}
		if err := tx.Delete(&entryRow{}, row.RowID).Error; err != nil {
			return fmt.Errorf("deleting entry: %w", err)
		}
		return nil
	})
}

func (s *Store) find(db *gorm.DB, id string) (entryRow, error) {
	var row entryRow
	err := db.Where("entry_id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entryRow{}, fmt.Errorf("%w: %s", journal.ErrEntryNotFound, id)
	}
	if err != nil {
		return entryRow{}, fmt.Errorf("loading entry %s: %w", id, err)
	}
	return row, nil
}

func fromModel(e model.JournalEntry) entryRow {
	row := entryRow{
		EntryID:      e.ID,
		Date:         e.Date,
		Type:         string(e.Type),
		Ref:          e.Ref,
		Description:  e.Description,
		Counterparty: e.Counterparty,
		TaxOption:    string(e.TaxOption),
		Postings:     make([]postingRow, len(e.Postings)),
	}
	for i, p := range e.Postings {
		row.Postings[i] = postingRow{AccountID: p.AccountID, Debit: p.Debit, Credit: p.Credit}
	}
	return row
}

func toModel(r entryRow) model.JournalEntry {
	e := model.JournalEntry{
		ID:           r.EntryID,
		Date:         r.Date.UTC(),
		Type:         model.EntryType(r.Type),
		Ref:          r.Ref,
		Description:  r.Description,
		Counterparty: r.Counterparty,
		TaxOption:    model.TaxOption(r.TaxOption),
		Postings:     make([]model.Posting, len(r.Postings)),
	}
	for i, p := range r.Postings {
		e.Postings[i] = model.Posting{AccountID: p.AccountID, Debit: p.Debit, Credit: p.Credit}
	}
	return e
}
