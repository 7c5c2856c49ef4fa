// Package txid derives the stable identity used to deduplicate ledger
// transactions across imports.
package txid

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/centavo-dev/centavo/internal/model"
)

// KeyMaterial returns the identity key for a transaction. The provider
// reference (external_id) wins when present; a bare "ref|check" pair with
// both sides blank is degenerate and falls through to the composite key
// date|description|amount|source.
func KeyMaterial(t model.Transaction) string {
	if ext := strings.TrimSpace(t.ExternalID); ext != "" && ext != "|" {
		return ext
	}
	return t.Date.Format("2006-01-02") + "|" + t.Description + "|" + t.Amount.String() + "|" + t.Source
}

// Derive hashes key material into a fixed-width identity. xxhash64 keeps
// the mapping stable across runs and platforms, which is what makes
// re-importing the same statement idempotent.
func Derive(key string) string {
	return strconv.FormatUint(xxhash.Sum64String(key), 10)
}

// ForTransaction is shorthand for Derive(KeyMaterial(t)).
func ForTransaction(t model.Transaction) string {
	return Derive(KeyMaterial(t))
}
