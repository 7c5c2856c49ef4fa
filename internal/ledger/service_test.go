package ledger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centavo-dev/centavo/internal/model"
)

func TestMerge_KeepsFirstOccurrence(t *testing.T) {
	existing := testTx("111", "UBER TRIP")
	existing.Category = "Transport"

	incoming := testTx("111", "UBER TRIP")

	merged := Merge([]model.Transaction{existing}, []model.Transaction{incoming})
	require.Len(t, merged, 1)
	// The already-categorized historical row survives the re-import.
	assert.Equal(t, "Transport", merged[0].Category)
}

func TestMerge_UnionsDistinctIdentities(t *testing.T) {
	merged := Merge(
		[]model.Transaction{testTx("111", "A")},
		[]model.Transaction{testTx("222", "B"), testTx("333", "C")},
	)
	assert.Len(t, merged, 3)
}

func TestMerge_Idempotent(t *testing.T) {
	batch := []model.Transaction{testTx("111", "A"), testTx("222", "B")}

	once := Merge(nil, batch)
	twice := Merge(once, batch)
	assert.Len(t, twice, len(once))
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir(), zerolog.Nop(), false)

	txns := []model.Transaction{testTx("111", "UBER TRIP")}
	require.NoError(t, store.Save(txns))

	got, err := store.Load()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "111", got[0].TxID)

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(store.CSVPath()))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestStore_LoadMissingLedger(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "nowhere"), zerolog.Nop(), false)

	got, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_SaveCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data", "processed")
	store := NewStore(dir, zerolog.Nop(), false)

	require.NoError(t, store.Save([]model.Transaction{testTx("111", "A")}))
	_, err := os.Stat(store.CSVPath())
	require.NoError(t, err)
}

func TestStore_ParquetMirrorWritten(t *testing.T) {
	store := NewStore(t.TempDir(), zerolog.Nop(), true)

	require.NoError(t, store.Save([]model.Transaction{testTx("111", "A")}))

	info, err := os.Stat(store.ParquetPath())
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestStore_MirrorFailureIsNonFatal(t *testing.T) {
	dir := t.TempDir()
	// A directory at the mirror path makes the parquet write fail.
	require.NoError(t, os.MkdirAll(filepath.Join(dir, parquetFile), 0o755))

	store := NewStore(dir, zerolog.Nop(), true)
	require.NoError(t, store.Save([]model.Transaction{testTx("111", "A")}))

	_, err := os.Stat(store.CSVPath())
	require.NoError(t, err)
}
