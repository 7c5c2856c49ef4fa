package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centavo-dev/centavo/internal/model"
	"github.com/centavo-dev/centavo/internal/ofx"
)

func TestItauConvert(t *testing.T) {
	raws := []ofx.RawTransaction{
		{
			DatePosted: "20240115120000[-03:BRT]",
			Amount:     "-45.90",
			Memo:       "UBER TRIP",
			FitID:      "ABC123",
		},
	}

	txns, diag := (&ItauConverter{}).Convert(raws, "itau_extrato.ofx")
	require.Len(t, txns, 1)
	assert.Zero(t, diag.Dropped)

	tx := txns[0]
	assert.Equal(t, "2024-01-15", tx.Date.Format("2006-01-02"))
	assert.Equal(t, "UBER TRIP", tx.Description)
	assert.Equal(t, "-45.90", tx.Amount.StringFixed(2))
	assert.Equal(t, model.SourceItau, tx.Source)
	assert.Equal(t, model.TypeExpense, tx.Type)
	assert.Equal(t, "ABC123", tx.ExternalID)
	assert.Equal(t, "itau_extrato.ofx", tx.FileName)
	assert.Equal(t, model.DefaultCategory, tx.Category)
	assert.NotEmpty(t, tx.TxID)
}

func TestItauConvert_SecondaryReferenceFallback(t *testing.T) {
	raws := []ofx.RawTransaction{
		{
			DatePosted: "20240120",
			Amount:     "3500.00",
			Name:       "SALARY ACME",
			RefNum:     "R1",
			CheckNum:   "C1",
		},
	}

	txns, _ := (&ItauConverter{}).Convert(raws, "f.ofx")
	require.Len(t, txns, 1)
	assert.Equal(t, "R1|C1", txns[0].ExternalID)
	assert.Equal(t, model.TypeIncome, txns[0].Type)
	assert.Equal(t, "SALARY ACME", txns[0].Description)
}

func TestItauConvert_BlankReferencesUseCompositeIdentity(t *testing.T) {
	raw := ofx.RawTransaction{
		DatePosted: "20240121",
		Amount:     "-10.00",
		Memo:       "PADARIA",
	}

	txns, _ := (&ItauConverter{}).Convert([]ofx.RawTransaction{raw}, "f.ofx")
	require.Len(t, txns, 1)
	assert.Empty(t, txns[0].ExternalID)

	// Same row imported again derives the same identity.
	again, _ := (&ItauConverter{}).Convert([]ofx.RawTransaction{raw}, "f.ofx")
	assert.Equal(t, txns[0].TxID, again[0].TxID)
}

func TestConvert_DropsUnparsableRows(t *testing.T) {
	raws := []ofx.RawTransaction{
		{DatePosted: "not-a-date", Amount: "-1.00", Memo: "BAD DATE"},
		{DatePosted: "20240101", Amount: "abc", Memo: "BAD AMOUNT"},
		{DatePosted: "20240102", Amount: "-2.00", Memo: "GOOD"},
	}

	txns, diag := (&NubankConverter{}).Convert(raws, "nubank.ofx")
	require.Len(t, txns, 1)
	assert.Equal(t, "GOOD", txns[0].Description)
	assert.Equal(t, 2, diag.Dropped)
	require.Len(t, diag.Causes, 2)
	assert.Contains(t, diag.Causes[0], "posted date")
	assert.Contains(t, diag.Causes[1], "amount")
}

func TestConvert_MemoFallsBackToName(t *testing.T) {
	raws := []ofx.RawTransaction{
		{DatePosted: "20240103", Amount: "-5.00", Name: "MERCADO  LIVRE "},
	}

	txns, _ := (&NubankConverter{}).Convert(raws, "f.ofx")
	require.Len(t, txns, 1)
	assert.Equal(t, "MERCADO LIVRE", txns[0].Description)
}

func TestConvert_ZeroAmountIsIncome(t *testing.T) {
	raws := []ofx.RawTransaction{
		{DatePosted: "20240104", Amount: "0.00", Memo: "ADJUSTMENT"},
	}

	txns, _ := (&NubankConverter{}).Convert(raws, "f.ofx")
	require.Len(t, txns, 1)
	assert.Equal(t, model.TypeIncome, txns[0].Type)
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()

	assert.NotNil(t, r.Get("itau"))
	assert.NotNil(t, r.Get("NUBANK"))
	assert.Nil(t, r.Get("chase"))
	assert.Equal(t, []string{"itau", "nubank"}, r.Sources())
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register(&ItauConverter{})
	assert.Panics(t, func() { r.Register(&ItauConverter{}) })
}

func TestSelectStatement_KeywordMatch(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"aaa.ofx", "extrato_janeiro.ofx", "nubank-2024.ofx"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte{}, 0o644))
	}

	path, err := SelectStatement(dir, &ItauConverter{})
	require.NoError(t, err)
	assert.Equal(t, "extrato_janeiro.ofx", filepath.Base(path))

	path, err = SelectStatement(dir, &NubankConverter{})
	require.NoError(t, err)
	assert.Equal(t, "nubank-2024.ofx", filepath.Base(path))
}

func TestSelectStatement_FallsBackToFirst(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.ofx", "a.OFX", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte{}, 0o644))
	}

	path, err := SelectStatement(dir, &ItauConverter{})
	require.NoError(t, err)
	assert.Equal(t, "a.OFX", filepath.Base(path))
}

func TestSelectStatement_EmptyInbox(t *testing.T) {
	dir := t.TempDir()

	_, err := SelectStatement(dir, &ItauConverter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no .ofx files")
}
