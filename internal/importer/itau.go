package importer

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/centavo-dev/centavo/internal/model"
	"github.com/centavo-dev/centavo/internal/ofx"
	"github.com/centavo-dev/centavo/internal/txid"
)

// ItauConverter canonicalizes Itaú OFX exports. Itaú statements often ship
// an empty FITID, so REFNUM/CHECKNUM serve as fallback identity material.
type ItauConverter struct{}

// Source returns the ledger origin tag.
func (c *ItauConverter) Source() string { return model.SourceItau }

// Keywords returns inbox filename hints for Itaú exports.
func (c *ItauConverter) Keywords() []string {
	return []string{"itau", "itaú", "extrato"}
}

// Convert canonicalizes raw rows into Transactions.
func (c *ItauConverter) Convert(raws []ofx.RawTransaction, fileName string) ([]model.Transaction, Diagnostics) {
	var diag Diagnostics

	txns := make([]model.Transaction, 0, len(raws))
	for i, raw := range raws {
		t, ok := canonicalize(raw, c.Source(), fileName, i, &diag)
		if !ok {
			continue
		}

		if t.ExternalID == "" {
			ref := strings.TrimSpace(raw.RefNum)
			check := strings.TrimSpace(raw.CheckNum)
			if ref != "" || check != "" {
				t.ExternalID = ref + "|" + check
			}
		}

		t.TxID = txid.ForTransaction(t)
		txns = append(txns, t)
	}
	return txns, diag
}

// canonicalize holds the source-independent field mapping shared by all
// converters. Returns false when the row fails date or amount coercion.
func canonicalize(raw ofx.RawTransaction, source, fileName string, i int, diag *Diagnostics) (model.Transaction, bool) {
	date, ok := parsePostedDate(raw.DatePosted)
	if !ok {
		diag.drop(fmt.Sprintf("block %d: unparsable posted date %q", i+1, raw.DatePosted))
		return model.Transaction{}, false
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(raw.Amount))
	if err != nil {
		diag.drop(fmt.Sprintf("block %d: unparsable amount %q", i+1, raw.Amount))
		return model.Transaction{}, false
	}

	return model.Transaction{
		Date:        date,
		Description: description(raw),
		Amount:      amount,
		Source:      source,
		Type:        model.TypeForAmount(amount),
		ExternalID:  strings.TrimSpace(raw.FitID),
		FileName:    fileName,
		Category:    model.DefaultCategory,
		Subcategory: model.DefaultCategory,
	}, true
}
