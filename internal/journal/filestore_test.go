package journal

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/buku/internal/model"
)

func TestFileStore_CreateAssignsSequence(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := NewFileStore(dir)

	first, err := store.Create(ctx, balancedEntry("1101", "3101", "10"))
	require.NoError(t, err)
	assert.Equal(t, "2025-01-001", first)

	second, err := store.Create(ctx, balancedEntry("6101", "1101", "4"))
	require.NoError(t, err)
	assert.Equal(t, "2025-01-002", second)

	_, err = os.Stat(filepath.Join(dir, "journal", "2025", "01", "journal.csv"))
	require.NoError(t, err)

	entries, err := store.ReadMonth(2025, 1)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.True(t, entries[1].Postings[0].Debit.Equal(dec("4")))
}

func TestFileStore_AllOrdersByDateAcrossMonths(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(t.TempDir())

	feb := balancedEntry("1101", "3101", "1")
	feb.Date = date(2025, 2, 1)
	lateJan := balancedEntry("1101", "3101", "2")
	lateJan.Date = date(2025, 1, 20)
	earlyJan := balancedEntry("1101", "3101", "3")
	earlyJan.Date = date(2025, 1, 5)

	for _, e := range []model.JournalEntry{feb, lateJan, earlyJan} {
		_, err := store.Create(ctx, e)
		require.NoError(t, err)
	}

	all, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "2025-01-002", all[0].ID, "5 Jan was created second in January")
	assert.Equal(t, "2025-01-001", all[1].ID)
	assert.Equal(t, "2025-02-001", all[2].ID)
}

func TestFileStore_GetMissing(t *testing.T) {
	store := NewFileStore(t.TempDir())
	_, err := store.Get(context.Background(), "2025-01-001")
	assert.ErrorIs(t, err, ErrEntryNotFound)

	_, err = store.Get(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestFileStore_ReplaceSameMonth(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(t.TempDir())

	entryID, err := store.Create(ctx, balancedEntry("1101", "3101", "10"))
	require.NoError(t, err)
	_, err = store.Create(ctx, balancedEntry("6101", "1101", "3"))
	require.NoError(t, err)

	edited := balancedEntry("1101", "3101", "25")
	edited.Postings = append(edited.Postings, model.Posting{AccountID: "1101", Debit: dec("5")}, model.Posting{AccountID: "3101", Credit: dec("5")})
	newID, err := store.Replace(ctx, entryID, edited)
	require.NoError(t, err)
	assert.Equal(t, entryID, newID)

	got, err := store.Get(ctx, entryID)
	require.NoError(t, err)
	require.Len(t, got.Postings, 4, "old postings are gone, new ones stored")
	assert.True(t, got.Postings[0].Debit.Equal(dec("25")))

	month, err := store.ReadMonth(2025, 1)
	require.NoError(t, err)
	assert.Len(t, month, 2)
}

func TestFileStore_ReplaceMovesMonth(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(t.TempDir())

	entryID, err := store.Create(ctx, balancedEntry("1101", "3101", "10"))
	require.NoError(t, err)

	moved := balancedEntry("1101", "3101", "10")
	moved.Date = date(2025, 3, 2)
	newID, err := store.Replace(ctx, entryID, moved)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-001", newID)

	_, err = store.Get(ctx, entryID)
	assert.ErrorIs(t, err, ErrEntryNotFound)
	_, err = store.Get(ctx, newID)
	require.NoError(t, err)
}

func TestFileStore_ReplaceMoveFailureKeepsOriginal(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := NewFileStore(dir)

	entryID, err := store.Create(ctx, balancedEntry("1101", "3101", "10"))
	require.NoError(t, err)

	// A regular file where the February directory should be.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "journal", "2025", "02"), []byte("x"), 0o644))

	moved := balancedEntry("1101", "3101", "10")
	moved.Date = date(2025, 2, 3)
	_, err = store.Replace(ctx, entryID, moved)
	require.Error(t, err)

	all, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, entryID, all[0].ID)
	assert.Equal(t, 15, all[0].Date.Day())
}

func TestFileStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(t.TempDir())

	a, err := store.Create(ctx, balancedEntry("1101", "3101", "10"))
	require.NoError(t, err)
	b, err := store.Create(ctx, balancedEntry("1101", "3101", "20"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, a))
	assert.ErrorIs(t, store.Delete(ctx, a), ErrEntryNotFound)

	all, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, b, all[0].ID)

	c, err := store.Create(ctx, balancedEntry("1101", "3101", "30"))
	require.NoError(t, err)
	assert.Equal(t, "2025-01-003", c, "sequence continues after the highest remaining ID")
}
