package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TxType classifies the direction/purpose of a transaction.
type TxType string

const (
	TypeExpense    TxType = "expense"
	TypeIncome     TxType = "income"
	TypeTransfer   TxType = "transfer"
	TypeInvestment TxType = "investment"
)

// Valid reports whether t is one of the known transaction types.
func (t TxType) Valid() bool {
	switch t {
	case TypeExpense, TypeIncome, TypeTransfer, TypeInvestment:
		return true
	}
	return false
}

// TypeForAmount derives the default type from the amount sign:
// negative is an expense, everything else income.
func TypeForAmount(amount decimal.Decimal) TxType {
	if amount.IsNegative() {
		return TypeExpense
	}
	return TypeIncome
}

// Supported statement sources, lower-cased as persisted in the ledger.
const (
	SourceItau   = "itau"
	SourceNubank = "nubank"
)

// DefaultCategory marks a transaction no rule has touched yet.
const DefaultCategory = "Uncategorized"

// Transaction is one row in ledger.csv.
type Transaction struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal // negative = outflow, non-negative = inflow
	Source      string
	Type        TxType
	ExternalID  string // provider-issued reference, may be empty
	FileName    string // originating statement file
	TxID        string // stable dedup identity, string-encoded uint64
	Category    string
	Subcategory string
}

// Categorized reports whether a rule has already assigned a category.
// Categorization is one-shot: once this is true, rule passes skip the row.
func (t Transaction) Categorized() bool {
	return t.Category != "" && t.Category != DefaultCategory
}
