package listing

import (
	"time"

	"github.com/Veraticus/receipts/internal/model"
	"github.com/shopspring/decimal"
)

// MonthGroup is the receipts of one calendar month as rendered under a month header.
type MonthGroup struct {
	Month        string
	Receipts     []model.Receipt
	TotalSpent   decimal.Decimal
	ReceiptCount int
	// FromCache is false when the server sent no aggregate for the month and
	// the figures are summed from the loaded receipts instead.
	FromCache bool
}

// Label returns the month as "January 2025".
func (g MonthGroup) Label() string {
	return MonthLabel(g.Month)
}

// GroupByMonth groups receipts by the year-month of their date, keeping the order
// in which months are first seen. Totals come from the aggregate cache so a partly
// loaded month shows its full figures.
func GroupByMonth(receipts []model.Receipt, totals map[string]model.MonthlyTotal) []MonthGroup {
	var groups []MonthGroup
	index := make(map[string]int)

	for _, r := range receipts {
		month := r.MonthKey()
		i, ok := index[month]
		if !ok {
			i = len(groups)
			index[month] = i
			groups = append(groups, MonthGroup{Month: month})
		}
		groups[i].Receipts = append(groups[i].Receipts, r)
	}

	for i := range groups {
		g := &groups[i]
		if mt, ok := totals[g.Month]; ok {
			g.TotalSpent = mt.TotalSpent
			g.ReceiptCount = mt.ReceiptCount
			g.FromCache = true
			continue
		}
		sum := decimal.Zero
		for _, r := range g.Receipts {
			sum = sum.Add(r.Total)
		}
		g.TotalSpent = sum
		g.ReceiptCount = len(g.Receipts)
	}

	return groups
}

// MonthLabel formats a YYYY-MM key as "January 2025". Unparseable keys are returned as is
// and the empty key reads "Undated".
func MonthLabel(month string) string {
	if month == "" {
		return "Undated"
	}
	t, err := time.Parse(model.MonthLayout, month)
	if err != nil {
		return month
	}
	return t.Format("January 2006")
}
