// Package auditlog records one row per pipeline run in an append-only CSV,
// making imported/dropped/duplicate counts durable for operators.
package auditlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Entry is one row in the import log.
type Entry struct {
	Timestamp  time.Time
	RunID      string
	Action     string // "import" or "apply-rules"
	Source     string // statement source, empty for rule passes
	FileName   string // statement file, empty for rule passes
	Rows       int    // rows imported or categorized
	Dropped    int    // rows excluded by field coercion
	Duplicates int    // rows skipped by tx_id dedup
	Total      int    // ledger size after the run
}

// Header is the CSV header for import-log.csv.
const Header = "timestamp,run_id,action,source,file_name,rows,dropped,duplicates,total"

const (
	numFields = 9
	logDir    = "logs"
	logFile   = "logs/import-log.csv"

	colTimestamp  = 0
	colRunID      = 1
	colAction     = 2
	colSource     = 3
	colFileName   = 4
	colRows       = 5
	colDropped    = 6
	colDuplicates = 7
	colTotal      = 8
)

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colRunID] = e.RunID
	row[colAction] = e.Action
	row[colSource] = e.Source
	row[colFileName] = e.FileName
	row[colRows] = strconv.Itoa(e.Rows)
	row[colDropped] = strconv.Itoa(e.Dropped)
	row[colDuplicates] = strconv.Itoa(e.Duplicates)
	row[colTotal] = strconv.Itoa(e.Total)
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	counts := make([]int, 4)
	for i, col := range []int{colRows, colDropped, colDuplicates, colTotal} {
		n, err := strconv.Atoi(record[col])
		if err != nil {
			return Entry{}, fmt.Errorf("parsing count %q: %w", record[col], err)
		}
		counts[i] = n
	}

	return Entry{
		Timestamp:  ts,
		RunID:      record[colRunID],
		Action:     record[colAction],
		Source:     record[colSource],
		FileName:   record[colFileName],
		Rows:       counts[0],
		Dropped:    counts[1],
		Duplicates: counts[2],
		Total:      counts[3],
	}, nil
}

// Append writes an entry to <projectRoot>/logs/import-log.csv, creating the
// file and header if needed.
func Append(projectRoot string, e Entry) error {
	dir := filepath.Join(projectRoot, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(projectRoot, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	if err := cw.Write(MarshalEntry(e)); err != nil {
		return fmt.Errorf("writing entry: %w", err)
	}
	return cw.Error()
}

// Read returns all entries from <projectRoot>/logs/import-log.csv.
// Returns nil if the file does not exist.
func Read(projectRoot string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(projectRoot, logFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading import log CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
