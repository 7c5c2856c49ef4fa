// Package ofx extracts transaction blocks from OFX (SGML-flavored) bank
// statement exports. The grammar is deliberately lenient: leaf tags have no
// reliable closing marker, fields may appear in any order or be missing, and
// marker case is ignored. Bytes outside ASCII pass through untouched, so
// legacy single-byte encodings do not abort a parse.
package ofx

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoTransactions is returned when a statement contains no
// transaction blocks at all.
var ErrNoTransactions = errors.New("no transaction blocks found in statement")

// RawTransaction holds the untyped leaf fields of one <STMTTRN> block.
// Any field may be empty.
type RawTransaction struct {
	DatePosted string // DTPOSTED
	Amount     string // TRNAMT
	Memo       string // MEMO
	Name       string // NAME, fallback description
	FitID      string // FITID, provider transaction id
	CheckNum   string // CHECKNUM
	RefNum     string // REFNUM
}

const (
	blockStart = "<stmttrn>"
	blockEnd   = "</stmttrn>"
)

// Parse reads a full OFX statement and returns one RawTransaction per
// <STMTTRN> block, in file order. A statement with zero blocks fails
// with ErrNoTransactions.
func Parse(r io.Reader) ([]RawTransaction, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading statement: %w", err)
	}

	blocks := scanBlocks(string(data))
	if len(blocks) == 0 {
		return nil, ErrNoTransactions
	}

	raws := make([]RawTransaction, 0, len(blocks))
	for _, b := range blocks {
		fields := scanFields(b)
		raws = append(raws, RawTransaction{
			DatePosted: fields["DTPOSTED"],
			Amount:     fields["TRNAMT"],
			Memo:       fields["MEMO"],
			Name:       fields["NAME"],
			FitID:      fields["FITID"],
			CheckNum:   fields["CHECKNUM"],
			RefNum:     fields["REFNUM"],
		})
	}
	return raws, nil
}

// scanBlocks returns the inner text of each <STMTTRN>...</STMTTRN> pair,
// matched case-insensitively. An unterminated trailing block is ignored.
func scanBlocks(text string) []string {
	// Byte-wise ASCII fold: unlike strings.ToLower it preserves length on
	// invalid UTF-8, so indexes into lower stay valid in text.
	lower := lowerASCII(text)

	var blocks []string
	pos := 0
	for {
		start := strings.Index(lower[pos:], blockStart)
		if start < 0 {
			break
		}
		start += pos + len(blockStart)

		end := strings.Index(lower[start:], blockEnd)
		if end < 0 {
			break
		}
		blocks = append(blocks, text[start:start+end])
		pos = start + end + len(blockEnd)
	}
	return blocks
}

// scanFields walks a block and collects <TAG>value pairs. A value runs from
// the tag to end-of-line or the next marker, whichever comes first. Closing
// tags and empty values are skipped; the first non-empty occurrence of a
// tag wins.
func scanFields(block string) map[string]string {
	fields := make(map[string]string)

	i := 0
	for i < len(block) {
		if block[i] != '<' {
			i++
			continue
		}
		gt := strings.IndexByte(block[i:], '>')
		if gt < 0 {
			break
		}
		tag := strings.ToUpper(strings.TrimSpace(block[i+1 : i+gt]))
		i += gt + 1

		if tag == "" || strings.HasPrefix(tag, "/") {
			continue
		}

		end := i
		for end < len(block) {
			if c := block[end]; c == '<' || c == '\r' || c == '\n' {
				break
			}
			end++
		}

		value := strings.TrimSpace(block[i:end])
		if _, seen := fields[tag]; !seen && value != "" {
			fields[tag] = value
		}
		i = end
	}
	return fields
}

func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
