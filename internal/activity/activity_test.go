package activity

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(action Action, entryID string) Record {
	return Record{
		Timestamp:  time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC),
		User:       "Pemilik",
		Action:     action,
		Details:    "Penjualan kepada Toko Maju, INV-001",
		EntryID:    entryID,
		CommitHash: "abc1234",
	}
}

func TestAppendAndRead(t *testing.T) {
	dir := t.TempDir()

	recs, err := Read(dir)
	require.NoError(t, err)
	assert.Nil(t, recs)

	require.NoError(t, Append(dir, record(ActionEntryCreate, "2025-01-001")))
	require.NoError(t, Append(dir,
		record(ActionEntryReplace, "2025-01-001"),
		record(ActionEntryDelete, "2025-01-002"),
	))

	recs, err = Read(dir)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, record(ActionEntryCreate, "2025-01-001"), recs[0])
	assert.Equal(t, ActionEntryDelete, recs[2].Action)

	data, err := os.ReadFile(Path(dir))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), Header), "header written once")

	hist := ForEntry(recs, "2025-01-001")
	require.Len(t, hist, 2)
	assert.Equal(t, ActionEntryReplace, hist[1].Action)
}

func TestMarshalRecord_TimestampUTC(t *testing.T) {
	r := record(ActionInit, "")
	r.Timestamp = time.Date(2025, 1, 15, 17, 30, 0, 0, time.FixedZone("WIB", 7*3600))
	row := MarshalRecord(r)
	assert.Equal(t, "2025-01-15T10:30:00Z", row[colTimestamp])
}

func TestUnmarshalRecord_Errors(t *testing.T) {
	_, err := UnmarshalRecord([]string{"one", "two"})
	assert.ErrorContains(t, err, "expected 6 fields")

	_, err = UnmarshalRecord([]string{"yesterday", "u", "init", "", "", ""})
	assert.ErrorContains(t, err, "parsing timestamp")
}

func TestRead_HeaderOnly(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "logs"), 0o755))
	require.NoError(t, os.WriteFile(Path(dir), []byte(Header+"\n"), 0o644))

	recs, err := Read(dir)
	require.NoError(t, err)
	assert.Nil(t, recs)
}
