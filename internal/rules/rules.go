// Package rules loads the categorization rule table and applies it to
// ledger transactions.
package rules

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/centavo-dev/centavo/internal/model"
)

// Header is the CSV header for rules.csv.
const Header = "pattern,priority,category,subcategory,type_hint"

// defaultPriority is assigned to rules with a missing or non-numeric
// priority, so they sort after every explicitly ordered rule.
const defaultPriority = 9999

// Rule is one row of the rule table, compiled and ready to apply.
type Rule struct {
	Pattern     string
	Priority    int
	Category    string
	Subcategory string
	TypeHint    model.TxType // empty or invalid means no override

	re *regexp.Regexp
}

// Matches reports whether the rule's pattern is found anywhere in desc,
// case-insensitively.
func (r Rule) Matches(desc string) bool {
	return r.re.MatchString(desc)
}

// Load reads and compiles the rule table from path. The returned list is
// sorted ascending by priority with a stable sort, so rules with equal
// priority keep their file order.
func Load(path string, log zerolog.Logger) ([]Rule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening rules: %w", err)
	}
	defer f.Close()

	rules, err := Read(f, log)
	if err != nil {
		return nil, fmt.Errorf("reading rules %s: %w", path, err)
	}
	return rules, nil
}

// Read compiles rules from CSV. A malformed individual row (wrong field
// count, invalid pattern) is skipped with a warning; rules without a
// category are excluded entirely.
func Read(r io.Reader, log zerolog.Logger) ([]Rule, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading rules CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	idx, err := headerIndex(records[0])
	if err != nil {
		return nil, err
	}

	var rules []Rule
	for i, rec := range records[1:] {
		row := i + 2
		if len(rec) != len(records[0]) {
			log.Warn().Int("row", row).Msg("skipping malformed rule row")
			continue
		}

		category := strings.TrimSpace(rec[idx["category"]])
		if category == "" {
			continue
		}

		pattern := strings.TrimSpace(rec[idx["pattern"]])
		re, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			log.Warn().Int("row", row).Str("pattern", pattern).Err(err).Msg("skipping rule with invalid pattern")
			continue
		}

		priority := defaultPriority
		if n, err := strconv.Atoi(strings.TrimSpace(rec[idx["priority"]])); err == nil {
			priority = n
		}

		rules = append(rules, Rule{
			Pattern:     pattern,
			Priority:    priority,
			Category:    category,
			Subcategory: strings.TrimSpace(rec[idx["subcategory"]]),
			TypeHint:    model.TxType(strings.ToLower(strings.TrimSpace(rec[idx["type_hint"]]))),
			re:          re,
		})
	}

	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority < rules[j].Priority
	})
	return rules, nil
}

func headerIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, name := range strings.Split(Header, ",") {
		if _, ok := idx[name]; !ok {
			return nil, fmt.Errorf("rules header missing column %q", name)
		}
	}
	return idx, nil
}
