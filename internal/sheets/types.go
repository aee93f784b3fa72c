package sheets

import (
	"slices"
	"strings"

	"github.com/Veraticus/receipts/internal/model"
	"github.com/Veraticus/receipts/internal/service"
	"github.com/shopspring/decimal"
)

// Tab titles.
const (
	SummaryTab  = "Summary"
	ReceiptsTab = "Receipts"
	ItemsTab    = "Items"
)

// ReceiptRow is a single row in the Receipts tab.
type ReceiptRow struct {
	Date      string
	Store     string
	Category  string
	Subtotal  decimal.Decimal
	Tax       decimal.Decimal
	Discount  decimal.Decimal
	Total     decimal.Decimal
	ItemCount int
	ID        int64
}

// ItemRow is a single row in the Items tab.
type ItemRow struct {
	Date      string
	Store     string
	Name      string
	Category  string
	Storage   string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
	ReceiptID int64
}

// MonthRow is a single row of the monthly breakdown on the Summary tab.
type MonthRow struct {
	Month        string
	Label        string
	TotalSpent   decimal.Decimal
	ReceiptCount int
}

// BuildReceiptRows converts receipts to rows, newest first.
func BuildReceiptRows(receipts []model.Receipt) []ReceiptRow {
	rows := make([]ReceiptRow, 0, len(receipts))
	for _, r := range sortedByDate(receipts) {
		rows = append(rows, ReceiptRow{
			ID:        r.ID,
			Date:      r.Date.String(),
			Store:     r.Store,
			Category:  model.FormatCategoryLabel(r.CategoryName()),
			Subtotal:  r.Subtotal,
			Tax:       r.Tax,
			Discount:  r.Discount,
			Total:     r.Total,
			ItemCount: len(r.ReceiptItems),
		})
	}
	return rows
}

// BuildItemRows flattens receipt lines into rows, in receipt order.
func BuildItemRows(receipts []model.Receipt) []ItemRow {
	var rows []ItemRow
	for _, r := range sortedByDate(receipts) {
		for _, ri := range r.ReceiptItems {
			rows = append(rows, ItemRow{
				ReceiptID: r.ID,
				Date:      r.Date.String(),
				Store:     r.Store,
				Name:      ri.Item.Name,
				Category:  model.FormatCategoryLabel(ri.Item.Category),
				Storage:   model.FormatCategoryLabel(ri.Item.Storage),
				Quantity:  ri.Quantity,
				UnitPrice: ri.UnitPrice,
				LineTotal: ri.LineTotal,
			})
		}
	}
	return rows
}

// BuildMonthRows returns the summary's monthly totals, newest month first.
func BuildMonthRows(summary *service.ReportSummary, label func(string) string) []MonthRow {
	if summary == nil {
		return nil
	}
	totals := slices.Clone(summary.MonthlyTotals)
	slices.SortFunc(totals, func(a, b model.MonthlyTotal) int {
		return strings.Compare(b.Month, a.Month)
	})

	rows := make([]MonthRow, 0, len(totals))
	for _, mt := range totals {
		rows = append(rows, MonthRow{
			Month:        mt.Month,
			Label:        label(mt.Month),
			TotalSpent:   mt.TotalSpent,
			ReceiptCount: mt.ReceiptCount,
		})
	}
	return rows
}

func sortedByDate(receipts []model.Receipt) []model.Receipt {
	sorted := slices.Clone(receipts)
	slices.SortStableFunc(sorted, func(a, b model.Receipt) int {
		return b.Date.Compare(a.Date.Time)
	})
	return sorted
}
