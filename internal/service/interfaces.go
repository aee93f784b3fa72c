// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"io"
	"time"

	"github.com/Veraticus/receipts/internal/model"
	"github.com/shopspring/decimal"
)

// ReceiptLister fetches pages of the receipts listing.
type ReceiptLister interface {
	ListReceipts(ctx context.Context, filters model.Filters, page, size int) (*model.Page, error)
}

// ReceiptService is the full receipts REST contract used by the client.
type ReceiptService interface {
	ReceiptLister

	AvailableMonths(ctx context.Context) ([]model.MonthOption, error)
	ReceiptCategories(ctx context.Context) ([]string, error)
	ItemCategories(ctx context.Context) ([]string, error)
	StorageTypes(ctx context.Context) ([]string, error)
	LoadFilterOptions(ctx context.Context) (*model.FilterOptions, error)

	// UpdateReceipt returns nil when the server did not echo the saved receipt.
	UpdateReceipt(ctx context.Context, id int64, update model.ReceiptUpdate) (*model.Receipt, error)
	DeleteReceipt(ctx context.Context, id int64) error
}

// Uploader sends receipt images to the ingestion pipeline.
type Uploader interface {
	Upload(ctx context.Context, fileName string, body io.Reader) error
}

// UploadJournal records upload attempts locally.
type UploadJournal interface {
	RecordUpload(ctx context.Context, record *model.UploadRecord) error
	RecentUploads(ctx context.Context, limit int) ([]model.UploadRecord, error)
	Close() error
}

// ReportWriter exports a receipt listing somewhere outside the client.
type ReportWriter interface {
	Write(ctx context.Context, receipts []model.Receipt, summary *ReportSummary) error
}

// ReportSummary contains aggregate information for an export.
type ReportSummary struct {
	GeneratedAt   time.Time
	Filters       model.Filters
	MonthlyTotals []model.MonthlyTotal
	TotalSpent    decimal.Decimal
	ReceiptCount  int
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
