package ledger

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/centavo-dev/centavo/internal/model"
)

// parquetRow mirrors the ledger CSV columns one-to-one so downstream
// consumers see the same schema in both formats.
type parquetRow struct {
	Date        string `parquet:"date"`
	Description string `parquet:"description"`
	Amount      string `parquet:"amount"`
	Source      string `parquet:"source"`
	ExternalID  string `parquet:"external_id"`
	FileName    string `parquet:"file_name"`
	Type        string `parquet:"type"`
	TxID        string `parquet:"tx_id"`
	Category    string `parquet:"category"`
	Subcategory string `parquet:"subcategory"`
}

func writeParquet(path string, txns []model.Transaction) error {
	rows := make([]parquetRow, len(txns))
	for i, t := range txns {
		rows[i] = parquetRow{
			Date:        t.Date.Format(dateFormat),
			Description: t.Description,
			Amount:      t.Amount.String(),
			Source:      t.Source,
			ExternalID:  t.ExternalID,
			FileName:    t.FileName,
			Type:        string(t.Type),
			TxID:        t.TxID,
			Category:    t.Category,
			Subcategory: t.Subcategory,
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating parquet mirror: %w", err)
	}

	w := parquet.NewGenericWriter[parquetRow](f)
	if _, err := w.Write(rows); err != nil {
		w.Close()
		f.Close()
		return fmt.Errorf("writing parquet rows: %w", err)
	}
	if err := w.Close(); err != nil {
		f.Close()
		return fmt.Errorf("closing parquet writer: %w", err)
	}
	return f.Close()
}
