// Package ledger reads, merges, and persists the transaction ledger.
package ledger

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/centavo-dev/centavo/internal/model"
)

const (
	csvFile     = "ledger.csv"
	parquetFile = "ledger.parquet"
)

// Store reads and writes the ledger files under a data directory.
// The ledger assumes a single writer; no cross-process locking is taken.
type Store struct {
	dir    string
	log    zerolog.Logger
	mirror bool
}

// NewStore creates a Store rooted at dir. When mirror is true, Save also
// attempts a best-effort parquet copy.
func NewStore(dir string, log zerolog.Logger, mirror bool) *Store {
	return &Store{dir: dir, log: log, mirror: mirror}
}

// CSVPath returns the authoritative ledger file path.
func (s *Store) CSVPath() string { return filepath.Join(s.dir, csvFile) }

// ParquetPath returns the columnar mirror path.
func (s *Store) ParquetPath() string { return filepath.Join(s.dir, parquetFile) }

// Load returns the persisted ledger, or nil if none exists yet.
func (s *Store) Load() ([]model.Transaction, error) {
	f, err := os.Open(s.CSVPath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}
	defer f.Close()

	txns, err := ReadTransactions(f)
	if err != nil {
		return nil, fmt.Errorf("reading ledger %s: %w", s.CSVPath(), err)
	}
	return txns, nil
}

// Merge unions existing and incoming transactions, deduplicating by tx_id
// and keeping the first occurrence. Existing rows come first, so a
// re-import never clobbers an already-categorized historical row.
func Merge(existing, incoming []model.Transaction) []model.Transaction {
	merged := make([]model.Transaction, 0, len(existing)+len(incoming))
	seen := make(map[string]struct{}, len(existing)+len(incoming))

	for _, batch := range [][]model.Transaction{existing, incoming} {
		for _, t := range batch {
			if _, dup := seen[t.TxID]; dup {
				continue
			}
			seen[t.TxID] = struct{}{}
			merged = append(merged, t)
		}
	}
	return merged
}

// Save rewrites the ledger in full: the CSV is written to a temp file in the
// same directory and renamed over the original, so a failed run never leaves
// a truncated ledger. The parquet mirror is written afterwards; its failure
// is logged and ignored.
func (s *Store) Save(txns []model.Transaction) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating ledger dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, csvFile+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp ledger: %w", err)
	}

	if err := WriteTransactions(tmp, txns); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing temp ledger: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.CSVPath()); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing ledger: %w", err)
	}

	if s.mirror {
		if err := writeParquet(s.ParquetPath(), txns); err != nil {
			s.log.Warn().Err(err).Str("path", s.ParquetPath()).Msg("parquet mirror write failed")
		}
	}
	return nil
}
