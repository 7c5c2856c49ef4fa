// Package importer converts raw statement blocks into canonical ledger
// transactions, one converter per supported bank.
package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/centavo-dev/centavo/internal/model"
	"github.com/centavo-dev/centavo/internal/ofx"
)

// Converter maps one bank's raw statement rows to Transactions.
type Converter interface {
	// Source is the lower-cased origin tag written to the ledger.
	Source() string
	// Keywords are filename substrings that identify this bank's
	// exports in the inbox.
	Keywords() []string
	// Convert canonicalizes raw rows. Rows with an unparsable date or
	// amount are excluded and accounted for in the Diagnostics.
	Convert(raws []ofx.RawTransaction, fileName string) ([]model.Transaction, Diagnostics)
}

// Diagnostics aggregates rows dropped during conversion so callers can
// detect systematic parsing regressions instead of silent data loss.
type Diagnostics struct {
	Dropped int
	Causes  []string // sample causes, capped at maxCauses
}

const maxCauses = 5

func (d *Diagnostics) drop(cause string) {
	d.Dropped++
	if len(d.Causes) < maxCauses {
		d.Causes = append(d.Causes, cause)
	}
}

// Registry holds converters by source name.
type Registry struct {
	converters map[string]Converter
}

// NewRegistry creates an empty converter registry.
func NewRegistry() *Registry {
	return &Registry{converters: make(map[string]Converter)}
}

// Register adds a converter. Panics on duplicate source.
func (r *Registry) Register(c Converter) {
	key := strings.ToLower(c.Source())
	if _, ok := r.converters[key]; ok {
		panic("duplicate converter source: " + key)
	}
	r.converters[key] = c
}

// Get returns the converter for source, or nil.
func (r *Registry) Get(source string) Converter {
	return r.converters[strings.ToLower(source)]
}

// Sources returns the registered source names, sorted.
func (r *Registry) Sources() []string {
	names := make([]string, 0, len(r.converters))
	for name := range r.converters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry returns a registry with all built-in converters.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&ItauConverter{})
	r.Register(&NubankConverter{})
	return r
}

// SelectStatement picks the .ofx file in inboxDir to import for a converter:
// the first file (lexicographically) whose name contains one of the
// converter's keywords, else the lexicographically first .ofx file.
func SelectStatement(inboxDir string, c Converter) (string, error) {
	entries, err := os.ReadDir(inboxDir)
	if err != nil {
		return "", fmt.Errorf("reading inbox: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(e.Name()), ".ofx") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", fmt.Errorf("no .ofx files in %s: drop a %s export there and retry", inboxDir, c.Source())
	}
	sort.Strings(names)

	for _, name := range names {
		lower := strings.ToLower(name)
		for _, kw := range c.Keywords() {
			if strings.Contains(lower, kw) {
				return filepath.Join(inboxDir, name), nil
			}
		}
	}
	return filepath.Join(inboxDir, names[0]), nil
}

// parsePostedDate reads the first 8 digits of a DTPOSTED value as YYYYMMDD,
// ignoring any trailing time or timezone suffix.
func parsePostedDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if len(s) < 8 {
		return time.Time{}, false
	}
	d, err := time.Parse("20060102", s[:8])
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// description returns the memo, falling back to the name field, with
// runs of whitespace collapsed.
func description(raw ofx.RawTransaction) string {
	memo := strings.Join(strings.Fields(raw.Memo), " ")
	if memo != "" {
		return memo
	}
	return strings.Join(strings.Fields(raw.Name), " ")
}
