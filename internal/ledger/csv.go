package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/centavo-dev/centavo/internal/model"
)

// Header is the CSV header for ledger.csv. Downstream consumers depend on
// these column names and the lower-case source/type values; column order is
// not part of the contract, so reads locate columns by name.
const Header = "date,description,amount,source,external_id,file_name,type,tx_id,category,subcategory"

const dateFormat = "2006-01-02"

var columns = strings.Split(Header, ",")

// ReadTransactions reads all ledger rows from r.
func ReadTransactions(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading ledger CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	idx, err := headerIndex(records[0])
	if err != nil {
		return nil, err
	}

	var txns []model.Transaction
	for i, rec := range records[1:] {
		t, err := unmarshalTransaction(rec, idx)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, t)
	}
	return txns, nil
}

// WriteTransactions writes the full ledger to w, header included.
func WriteTransactions(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, t := range txns {
		if err := cw.Write(MarshalTransaction(t)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalTransaction converts a Transaction to a CSV row in Header order.
func MarshalTransaction(t model.Transaction) []string {
	return []string{
		t.Date.Format(dateFormat),
		t.Description,
		t.Amount.String(),
		t.Source,
		t.ExternalID,
		t.FileName,
		string(t.Type),
		t.TxID,
		t.Category,
		t.Subcategory,
	}
}

// headerIndex maps column names to positions and verifies every contract
// column is present.
func headerIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, name := range columns {
		if _, ok := idx[name]; !ok {
			return nil, fmt.Errorf("ledger header missing column %q", name)
		}
	}
	return idx, nil
}

func unmarshalTransaction(rec []string, idx map[string]int) (model.Transaction, error) {
	get := func(col string) string { return rec[idx[col]] }

	date, err := time.Parse(dateFormat, get("date"))
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing date %q: %w", get("date"), err)
	}

	amount, err := decimal.NewFromString(get("amount"))
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", get("amount"), err)
	}

	return model.Transaction{
		Date:        date,
		Description: get("description"),
		Amount:      amount,
		Source:      get("source"),
		Type:        model.TxType(get("type")),
		ExternalID:  get("external_id"),
		FileName:    get("file_name"),
		TxID:        get("tx_id"),
		Category:    get("category"),
		Subcategory: get("subcategory"),
	}, nil
}
