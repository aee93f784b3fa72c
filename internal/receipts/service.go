// Package receipts implements the receipts REST contract on top of the api client.
package receipts

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Veraticus/receipts/internal/api"
	"github.com/Veraticus/receipts/internal/model"
	"golang.org/x/sync/errgroup"
)

// Endpoint paths.
const (
	receiptsPath        = "/api/receipts"
	availableMonthsPath = "/api/receipts/available-months"
	receiptCatsPath     = "/api/receipts/categories"
	itemCatsPath        = "/api/items/categories"
	storageTypesPath    = "/api/items/storage-types"
)

// Transport is the subset of the api client the service needs.
type Transport interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Send(ctx context.Context, method, path string, body, out any) error
}

// Service issues receipts queries and mutations.
type Service struct {
	transport    Transport
	updateMethod string
}

// Option configures a Service.
type Option func(*Service)

// WithUpdateMethod selects PATCH (default) or PUT for receipt updates.
func WithUpdateMethod(method string) Option {
	return func(s *Service) {
		switch strings.ToUpper(method) {
		case http.MethodPut:
			s.updateMethod = http.MethodPut
		case http.MethodPatch, "":
			s.updateMethod = http.MethodPatch
		default:
			slog.Warn("Unsupported update method, using PATCH", "method", method)
			s.updateMethod = http.MethodPatch
		}
	}
}

// NewService creates a receipts service using transport.
func NewService(transport Transport, opts ...Option) *Service {
	s := &Service{
		transport:    transport,
		updateMethod: http.MethodPatch,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewHTTPService is a convenience constructor over a fresh api client.
func NewHTTPService(baseURL string, clientOpts []api.Option, opts ...Option) (*Service, error) {
	client, err := api.NewClient(baseURL, clientOpts...)
	if err != nil {
		return nil, err
	}
	return NewService(client, opts...), nil
}

// BuildQuery turns filters and paging into query parameters. Empty filters are omitted.
// The date range is only sent when both ends are present.
func BuildQuery(filters model.Filters, page, size int) url.Values {
	q := url.Values{}

	if search := strings.TrimSpace(filters.Search); search != "" {
		q.Set("search", search)
		if fields := filters.FieldNames(); len(fields) > 0 {
			q.Set("fields", strings.Join(fields, ","))
		}
	}
	if filters.Month != "" {
		q.Set("month", filters.Month)
	}
	if filters.Category != "" {
		q.Set("category", filters.Category)
	}
	if filters.ItemCategory != "" {
		q.Set("itemCategory", filters.ItemCategory)
	}
	if filters.Storage != "" {
		q.Set("storage", filters.Storage)
	}
	if store := strings.TrimSpace(filters.Store); store != "" {
		q.Set("store", store)
	}
	if filters.HasDateRange() {
		q.Set("startDate", filters.StartDate)
		q.Set("endDate", filters.EndDate)
	}

	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))

	return q
}

// ListReceipts fetches one page of receipts matching filters.
func (s *Service) ListReceipts(ctx context.Context, filters model.Filters, page, size int) (*model.Page, error) {
	var result model.Page
	if err := s.transport.Get(ctx, receiptsPath, BuildQuery(filters, page, size), &result); err != nil {
		return nil, fmt.Errorf("failed to list receipts: %w", err)
	}
	if result.Receipts == nil {
		result.Receipts = []model.Receipt{}
	}
	return &result, nil
}

// AvailableMonths lists the months that have receipts.
func (s *Service) AvailableMonths(ctx context.Context) ([]model.MonthOption, error) {
	var months []model.MonthOption
	if err := s.transport.Get(ctx, availableMonthsPath, nil, &months); err != nil {
		return nil, fmt.Errorf("failed to load available months: %w", err)
	}
	return months, nil
}

// ReceiptCategories lists receipt-level categories.
func (s *Service) ReceiptCategories(ctx context.Context) ([]string, error) {
	return s.getStrings(ctx, receiptCatsPath, "receipt categories")
}

// ItemCategories lists item-level categories.
func (s *Service) ItemCategories(ctx context.Context) ([]string, error) {
	return s.getStrings(ctx, itemCatsPath, "item categories")
}

// StorageTypes lists item storage types.
func (s *Service) StorageTypes(ctx context.Context) ([]string, error) {
	return s.getStrings(ctx, storageTypesPath, "storage types")
}

func (s *Service) getStrings(ctx context.Context, path, what string) ([]string, error) {
	var values []string
	if err := s.transport.Get(ctx, path, nil, &values); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", what, err)
	}
	return values, nil
}

// LoadFilterOptions fetches every filter selector's values concurrently.
func (s *Service) LoadFilterOptions(ctx context.Context) (*model.FilterOptions, error) {
	var opts model.FilterOptions

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		months, err := s.AvailableMonths(gctx)
		opts.Months = months
		return err
	})
	g.Go(func() error {
		cats, err := s.ReceiptCategories(gctx)
		opts.Categories = cats
		return err
	})
	g.Go(func() error {
		cats, err := s.ItemCategories(gctx)
		opts.ItemCategories = cats
		return err
	})
	g.Go(func() error {
		types, err := s.StorageTypes(gctx)
		opts.StorageTypes = types
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &opts, nil
}

// UpdateReceipt applies a partial update and returns the server's view of the receipt.
// It returns nil without an error when the server accepted the update but sent no
// receipt back (204, an empty body, or an object without id and date).
func (s *Service) UpdateReceipt(ctx context.Context, id int64, update model.ReceiptUpdate) (*model.Receipt, error) {
	var updated *model.Receipt
	if err := s.transport.Send(ctx, s.updateMethod, receiptPath(id), update, &updated); err != nil {
		return nil, fmt.Errorf("failed to update receipt %d: %w", id, err)
	}
	if updated == nil || (updated.ID == 0 && updated.Date.IsZero()) {
		return nil, nil
	}
	if updated.ID == 0 {
		updated.ID = id
	}
	return updated, nil
}

// DeleteReceipt removes a receipt.
func (s *Service) DeleteReceipt(ctx context.Context, id int64) error {
	if err := s.transport.Send(ctx, http.MethodDelete, receiptPath(id), nil, nil); err != nil {
		return fmt.Errorf("failed to delete receipt %d: %w", id, err)
	}
	return nil
}

func receiptPath(id int64) string {
	return receiptsPath + "/" + strconv.FormatInt(id, 10)
}
