package importer

import (
	"github.com/centavo-dev/centavo/internal/model"
	"github.com/centavo-dev/centavo/internal/ofx"
	"github.com/centavo-dev/centavo/internal/txid"
)

// NubankConverter canonicalizes Nubank OFX exports. Nubank always issues a
// FITID, so no secondary reference fallback is needed.
type NubankConverter struct{}

// Source returns the ledger origin tag.
func (c *NubankConverter) Source() string { return model.SourceNubank }

// Keywords returns inbox filename hints for Nubank exports.
func (c *NubankConverter) Keywords() []string {
	return []string{"nubank"}
}

// Convert canonicalizes raw rows into Transactions.
func (c *NubankConverter) Convert(raws []ofx.RawTransaction, fileName string) ([]model.Transaction, Diagnostics) {
	var diag Diagnostics

	txns := make([]model.Transaction, 0, len(raws))
	for i, raw := range raws {
		t, ok := canonicalize(raw, c.Source(), fileName, i, &diag)
		if !ok {
			continue
		}
		t.TxID = txid.ForTransaction(t)
		txns = append(txns, t)
	}
	return txns, diag
}
