package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Veraticus/receipts/internal/api"
	"github.com/Veraticus/receipts/internal/common"
	"github.com/Veraticus/receipts/internal/config"
	"github.com/Veraticus/receipts/internal/model"
	"github.com/Veraticus/receipts/internal/receipts"
	"github.com/Veraticus/receipts/internal/service"
	"github.com/Veraticus/receipts/internal/storage"
	"github.com/Veraticus/receipts/internal/upload"
	"github.com/spf13/cobra"
)

// envKeyReplacer maps config keys such as api.base_url to RECEIPTS_API_BASE_URL.
var envKeyReplacer = strings.NewReplacer(".", "_")

// newReceiptService builds the REST client from configuration.
func newReceiptService() (*receipts.Service, *config.APIConfig, error) {
	cfg, err := config.LoadAPIConfig()
	if err != nil {
		return nil, nil, err
	}

	svc, err := receipts.NewHTTPService(cfg.BaseURL,
		[]api.Option{api.WithTimeout(cfg.Timeout)},
		receipts.WithUpdateMethod(cfg.UpdateMethod))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create receipts client: %w", err)
	}
	return svc, cfg, nil
}

// initStorage opens the upload journal and runs migrations.
func initStorage(ctx context.Context, dbPath string) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// newUploadService wires the webhook client and, when enabled, the journal.
// The returned close function is always safe to call.
func newUploadService(ctx context.Context, cfg *config.APIConfig) (*upload.Service, func(), error) {
	client := upload.NewClient(cfg.WebhookURL, upload.WithTimeout(cfg.UploadTimeout))
	if !client.Configured() {
		return nil, func() {}, upload.ErrMissingWebhook
	}

	var journal service.UploadJournal
	closeFn := func() {}
	if cfg.Journal {
		store, err := initStorage(ctx, cfg.DatabasePath)
		if err != nil {
			return nil, closeFn, err
		}
		journal = store
		closeFn = func() { _ = store.Close() }
	}

	return upload.NewService(client, journal), closeFn, nil
}

// addFilterFlags registers the listing filter flags on cmd.
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("search", "", "free-text search")
	cmd.Flags().StringSlice("fields", nil, "restrict search to fields (store, item, category)")
	cmd.Flags().String("month", "", "month to show (YYYY-MM)")
	cmd.Flags().String("category", "", "receipt category (e.g. GROCERIES)")
	cmd.Flags().String("item-category", "", "item category (e.g. DAIRY)")
	cmd.Flags().String("storage", "", "item storage type (e.g. FRIDGE)")
	cmd.Flags().String("store", "", "store name")
	cmd.Flags().String("from", "", "start of date range (YYYY-MM-DD, needs --to)")
	cmd.Flags().String("to", "", "end of date range (YYYY-MM-DD, needs --from)")
}

// filtersFromFlags reads the flags registered by addFilterFlags.
func filtersFromFlags(cmd *cobra.Command) (model.Filters, error) {
	flags := cmd.Flags()
	var f model.Filters
	f.Search, _ = flags.GetString("search")
	f.Month, _ = flags.GetString("month")
	f.Category, _ = flags.GetString("category")
	f.ItemCategory, _ = flags.GetString("item-category")
	f.Storage, _ = flags.GetString("storage")
	f.Store, _ = flags.GetString("store")
	f.StartDate, _ = flags.GetString("from")
	f.EndDate, _ = flags.GetString("to")

	f.Category = strings.ToUpper(f.Category)
	f.ItemCategory = strings.ToUpper(f.ItemCategory)
	f.Storage = strings.ToUpper(f.Storage)

	fields, _ := flags.GetStringSlice("fields")
	for _, name := range fields {
		field, err := parseSearchField(name)
		if err != nil {
			return model.Filters{}, err
		}
		if !f.HasField(field) {
			f.Fields = append(f.Fields, field)
		}
	}

	if (f.StartDate == "") != (f.EndDate == "") {
		return model.Filters{}, common.NewValidationError("dates", "--from and --to must be used together")
	}
	for _, d := range []string{f.StartDate, f.EndDate} {
		if d == "" {
			continue
		}
		if _, err := model.ParseDate(d); err != nil {
			return model.Filters{}, common.NewValidationError("dates", fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", d))
		}
	}

	return f, nil
}

func parseSearchField(name string) (model.SearchField, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, field := range model.AllSearchFields {
		if string(field) == name {
			return field, nil
		}
	}
	return "", common.NewValidationError("fields", fmt.Sprintf("unknown search field %q (use store, item or category)", name))
}

// parseReceiptID reads a positive receipt id argument.
func parseReceiptID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(arg, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, common.NewValidationError("id", fmt.Sprintf("invalid receipt id %q", arg))
	}
	return id, nil
}
