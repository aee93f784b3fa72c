// Package export writes fully paged receipt listings to reports.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/Veraticus/receipts/internal/model"
	"github.com/Veraticus/receipts/internal/service"
	"github.com/Veraticus/receipts/internal/sheets"
)

// CSVWriter writes receipts as CSV. With items enabled it writes one row per
// receipt line instead of one row per receipt.
type CSVWriter struct {
	out   io.Writer
	items bool
}

// NewCSVWriter creates a CSV report writer.
func NewCSVWriter(out io.Writer, items bool) *CSVWriter {
	return &CSVWriter{out: out, items: items}
}

// Write implements service.ReportWriter.
func (c *CSVWriter) Write(ctx context.Context, receipts []model.Receipt, _ *service.ReportSummary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	w := csv.NewWriter(c.out)
	var records [][]string
	if c.items {
		records = itemRecords(receipts)
	} else {
		records = receiptRecords(receipts)
	}

	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

func receiptRecords(receipts []model.Receipt) [][]string {
	rows := sheets.BuildReceiptRows(receipts)
	records := make([][]string, 0, len(rows)+1)
	records = append(records, []string{"id", "date", "store", "category", "items", "subtotal", "tax", "discount", "total"})
	for _, r := range rows {
		records = append(records, []string{
			strconv.FormatInt(r.ID, 10),
			r.Date,
			r.Store,
			r.Category,
			strconv.Itoa(r.ItemCount),
			r.Subtotal.StringFixed(2),
			r.Tax.StringFixed(2),
			r.Discount.StringFixed(2),
			r.Total.StringFixed(2),
		})
	}
	return records
}

func itemRecords(receipts []model.Receipt) [][]string {
	rows := sheets.BuildItemRows(receipts)
	records := make([][]string, 0, len(rows)+1)
	records = append(records, []string{"receipt_id", "date", "store", "item", "category", "storage", "quantity", "unit_price", "line_total"})
	for _, r := range rows {
		records = append(records, []string{
			strconv.FormatInt(r.ReceiptID, 10),
			r.Date,
			r.Store,
			r.Name,
			r.Category,
			r.Storage,
			r.Quantity.String(),
			r.UnitPrice.StringFixed(2),
			r.LineTotal.StringFixed(2),
		})
	}
	return records
}
