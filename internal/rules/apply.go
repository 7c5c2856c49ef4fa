package rules

import (
	"github.com/centavo-dev/centavo/internal/model"
)

// Apply assigns categories to transactions still at the default category.
// For each such transaction the first matching rule in priority order wins:
// category is set, subcategory falls back to the category when the rule
// leaves it blank, and a valid type hint overwrites the sign-derived type.
// Categorization is one-shot: rows with a non-default category are never
// revisited, so re-running with new or reordered rules leaves them alone.
// Returns the number of transactions categorized.
func Apply(txns []model.Transaction, rules []Rule) int {
	applied := 0
	for i := range txns {
		if txns[i].Categorized() {
			continue
		}
		for _, r := range rules {
			if !r.Matches(txns[i].Description) {
				continue
			}

			txns[i].Category = r.Category
			if r.Subcategory != "" {
				txns[i].Subcategory = r.Subcategory
			} else {
				txns[i].Subcategory = r.Category
			}
			if r.TypeHint.Valid() {
				txns[i].Type = r.TypeHint
			}

			applied++
			break
		}
	}
	return applied
}
