package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/receipts/internal/listing"
	"github.com/Veraticus/receipts/internal/model"
	"github.com/Veraticus/receipts/internal/service"
	"github.com/shopspring/decimal"
)

// ProgressFunc is called after each page with the receipts loaded so far and
// the server's total.
type ProgressFunc func(loaded, total int)

// Exporter pages through a listing and hands the result to report writers.
type Exporter struct {
	backend  listing.Backend
	progress ProgressFunc
	writers  []service.ReportWriter
}

// NewExporter creates an exporter. At least one writer is required.
func NewExporter(backend listing.Backend, progress ProgressFunc, writers ...service.ReportWriter) (*Exporter, error) {
	if len(writers) == 0 {
		return nil, errors.New("no report writers configured")
	}
	return &Exporter{backend: backend, progress: progress, writers: writers}, nil
}

// Run loads every receipt matching filters and writes it to each writer.
// Writers run in order; a failing writer does not stop the others.
func (e *Exporter) Run(ctx context.Context, filters model.Filters) (*service.ReportSummary, error) {
	controller := listing.NewController(e.backend)

	state, err := controller.LoadAll(ctx, filters, func(s listing.State) {
		if e.progress != nil {
			e.progress(len(s.Receipts), s.TotalElements)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load receipts: %w", err)
	}

	summary := Summarize(state, time.Now())
	slog.Info("Loaded receipts for export",
		"receipts", summary.ReceiptCount,
		"months", len(summary.MonthlyTotals))

	var errs []error
	for _, w := range e.writers {
		if writeErr := w.Write(ctx, state.Receipts, summary); writeErr != nil {
			slog.Error("Report writer failed", "writer", fmt.Sprintf("%T", w), "error", writeErr)
			errs = append(errs, writeErr)
		}
	}

	return summary, errors.Join(errs...)
}

// Summarize builds the report summary for a fully loaded listing.
func Summarize(state listing.State, now time.Time) *service.ReportSummary {
	total := decimal.Zero
	for _, r := range state.Receipts {
		total = total.Add(r.Total)
	}
	return &service.ReportSummary{
		GeneratedAt:   now,
		Filters:       state.Filters,
		MonthlyTotals: state.SortedTotals(),
		TotalSpent:    total,
		ReceiptCount:  len(state.Receipts),
	}
}
