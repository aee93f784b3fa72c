package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Veraticus/receipts/internal/common"
	"github.com/Veraticus/receipts/internal/listing"
	"github.com/Veraticus/receipts/internal/model"
	"github.com/Veraticus/receipts/internal/service"
	"github.com/shopspring/decimal"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Writer implements the ReportWriter interface for Google Sheets.
type Writer struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

// tab is the prepared content of one sheet.
type tab struct {
	title         string
	values        [][]any
	currencyCols  []int64
	headerRow     int64
	columnCount   int64
	frozenRows    int64
	titleRowStyle bool
}

// NewWriter creates a new Google Sheets report writer.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	srv, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Writer{
		config:  config,
		service: srv,
		logger:  logger,
	}, nil
}

// Write implements the ReportWriter interface.
func (w *Writer) Write(ctx context.Context, receipts []model.Receipt, summary *service.ReportSummary) error {
	w.logger.Info("starting sheets export",
		"receipts", len(receipts),
		"spreadsheet", w.config.SpreadsheetName)

	tabs := w.prepareTabs(receipts, summary)

	spreadsheetID, sheetIDs, err := w.getOrCreateSpreadsheet(ctx, tabs)
	if err != nil {
		return fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	retryOpts := service.RetryOptions{
		MaxAttempts:  w.config.RetryAttempts,
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	for _, t := range tabs {
		if clearErr := w.clearSheet(ctx, spreadsheetID, t.title); clearErr != nil {
			return fmt.Errorf("failed to clear %s: %w", t.title, clearErr)
		}

		err = common.WithRetry(ctx, func() error {
			return w.writeData(ctx, spreadsheetID, t.title, t.values)
		}, retryOpts)
		if err != nil {
			return fmt.Errorf("failed to write %s: %w", t.title, err)
		}
	}

	if w.config.EnableFormatting {
		err = common.WithRetry(ctx, func() error {
			return w.applyFormatting(ctx, spreadsheetID, tabs, sheetIDs)
		}, retryOpts)
		if err != nil {
			// Don't fail the export if only formatting fails
			w.logger.Warn("failed to apply formatting", "error", err)
		}
	}

	w.logger.Info("sheets export completed",
		"spreadsheet_id", spreadsheetID,
		"tabs", len(tabs))

	return nil
}

// createSheetsService creates a Google Sheets API client for the configured credentials.
func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	switch config.AuthMethod() {
	case AuthServiceAccount:
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}
		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}
		tokenSource = jwtConfig.TokenSource(ctx)
	case AuthOAuth2:
		oauth := OAuth2Config{ClientID: config.ClientID, ClientSecret: config.ClientSecret}.oauth("")
		tokenSource = oauth.TokenSource(ctx, &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		})
	default:
		return nil, fmt.Errorf("%w: google sheets credentials", common.ErrMissingConfig)
	}

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(oauth2.NewClient(ctx, tokenSource)))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}
	return srv, nil
}

// getOrCreateSpreadsheet returns the spreadsheet ID and the sheet ID of every tab,
// adding tabs that do not exist yet.
func (w *Writer) getOrCreateSpreadsheet(ctx context.Context, tabs []tab) (string, map[string]int64, error) {
	if w.config.SpreadsheetID == "" {
		spreadsheet := &sheets.Spreadsheet{
			Properties: &sheets.SpreadsheetProperties{
				Title:    w.config.SpreadsheetName,
				TimeZone: w.config.TimeZone,
			},
		}
		for _, t := range tabs {
			spreadsheet.Sheets = append(spreadsheet.Sheets, &sheets.Sheet{
				Properties: &sheets.SheetProperties{Title: t.title},
			})
		}

		created, err := w.service.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
		if err != nil {
			return "", nil, fmt.Errorf("unable to create spreadsheet: %w", err)
		}

		w.logger.Info("created new spreadsheet",
			"id", created.SpreadsheetId,
			"url", created.SpreadsheetUrl)

		return created.SpreadsheetId, sheetIDsByTitle(created.Sheets), nil
	}

	existing, err := w.service.Spreadsheets.Get(w.config.SpreadsheetID).Context(ctx).Do()
	if err != nil {
		return "", nil, fmt.Errorf("unable to access spreadsheet %s: %w", w.config.SpreadsheetID, err)
	}

	ids := sheetIDsByTitle(existing.Sheets)
	var requests []*sheets.Request
	for _, t := range tabs {
		if _, ok := ids[t.title]; ok {
			continue
		}
		requests = append(requests, &sheets.Request{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: t.title},
			},
		})
	}
	if len(requests) == 0 {
		return existing.SpreadsheetId, ids, nil
	}

	resp, err := w.service.Spreadsheets.BatchUpdate(existing.SpreadsheetId, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	if err != nil {
		return "", nil, fmt.Errorf("unable to add tabs: %w", err)
	}
	for _, reply := range resp.Replies {
		if reply.AddSheet != nil && reply.AddSheet.Properties != nil {
			ids[reply.AddSheet.Properties.Title] = reply.AddSheet.Properties.SheetId
		}
	}

	return existing.SpreadsheetId, ids, nil
}

func sheetIDsByTitle(list []*sheets.Sheet) map[string]int64 {
	ids := make(map[string]int64, len(list))
	for _, s := range list {
		if s.Properties != nil {
			ids[s.Properties.Title] = s.Properties.SheetId
		}
	}
	return ids
}

// clearSheet clears all data from one tab.
func (w *Writer) clearSheet(ctx context.Context, spreadsheetID, title string) error {
	_, err := w.service.Spreadsheets.Values.Clear(spreadsheetID, a1(title, "A:Z"), &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

// prepareTabs builds the content of every exported tab.
func (w *Writer) prepareTabs(receipts []model.Receipt, summary *service.ReportSummary) []tab {
	tabs := []tab{
		summaryTab(receipts, summary),
		receiptsTab(receipts),
	}
	if w.config.IncludeItems {
		tabs = append(tabs, itemsTab(receipts))
	}
	return tabs
}

func summaryTab(receipts []model.Receipt, summary *service.ReportSummary) tab {
	if summary == nil {
		summary = &service.ReportSummary{GeneratedAt: time.Now()}
	}
	months := BuildMonthRows(summary, listing.MonthLabel)

	values := make([][]any, 0, 10+len(months))
	values = append(values,
		[]any{"Receipts Report", summary.GeneratedAt.Format("Jan 2, 2006 15:04")},
		[]any{},
		[]any{"Filters", describeFilters(summary.Filters)},
		[]any{"Receipts", len(receipts)},
		[]any{"Total Spent", money(summary.TotalSpent)},
		[]any{},
		[]any{"Monthly Totals"},
		[]any{"Month", "Receipts", "Total Spent"},
	)
	for _, m := range months {
		values = append(values, []any{m.Label, m.ReceiptCount, money(m.TotalSpent)})
	}

	return tab{
		title:         SummaryTab,
		values:        values,
		currencyCols:  []int64{2},
		headerRow:     7,
		columnCount:   3,
		frozenRows:    1,
		titleRowStyle: true,
	}
}

func receiptsTab(receipts []model.Receipt) tab {
	rows := BuildReceiptRows(receipts)
	values := make([][]any, 0, len(rows)+1)
	values = append(values, []any{"Date", "Store", "Category", "Items", "Subtotal", "Tax", "Discount", "Total", "ID"})
	for _, r := range rows {
		values = append(values, []any{
			r.Date, r.Store, r.Category, r.ItemCount,
			money(r.Subtotal), money(r.Tax), money(r.Discount), money(r.Total),
			r.ID,
		})
	}
	return tab{
		title:        ReceiptsTab,
		values:       values,
		currencyCols: []int64{4, 5, 6, 7},
		columnCount:  9,
		frozenRows:   1,
	}
}

func itemsTab(receipts []model.Receipt) tab {
	rows := BuildItemRows(receipts)
	values := make([][]any, 0, len(rows)+1)
	values = append(values, []any{"Date", "Store", "Item", "Category", "Storage", "Quantity", "Unit Price", "Line Total", "Receipt ID"})
	for _, r := range rows {
		values = append(values, []any{
			r.Date, r.Store, r.Name, r.Category, r.Storage,
			r.Quantity.InexactFloat64(), money(r.UnitPrice), money(r.LineTotal),
			r.ReceiptID,
		})
	}
	return tab{
		title:        ItemsTab,
		values:       values,
		currencyCols: []int64{6, 7},
		columnCount:  9,
		frozenRows:   1,
	}
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func describeFilters(f model.Filters) string {
	if f.IsEmpty() {
		return "All receipts"
	}
	var parts []string
	add := func(label, value string) {
		if value != "" {
			parts = append(parts, label+": "+value)
		}
	}
	add("Search", f.Search)
	add("Month", f.Month)
	add("Category", model.FormatCategoryLabel(f.Category))
	add("Item category", model.FormatCategoryLabel(f.ItemCategory))
	add("Storage", model.FormatCategoryLabel(f.Storage))
	add("Store", f.Store)
	if f.HasDateRange() {
		add("Dates", f.StartDate+" to "+f.EndDate)
	}
	return strings.Join(parts, ", ")
}

// writeData writes values to a tab in batches.
func (w *Writer) writeData(ctx context.Context, spreadsheetID, title string, values [][]any) error {
	for i := 0; i < len(values); i += w.config.BatchSize {
		end := min(i+w.config.BatchSize, len(values))

		batch := values[i:end]
		valueRange := &sheets.ValueRange{
			Values: batch,
		}

		_, err := w.service.Spreadsheets.Values.Update(spreadsheetID, a1(title, fmt.Sprintf("A%d", i+1)), valueRange).
			ValueInputOption("USER_ENTERED").
			Context(ctx).
			Do()
		if err != nil {
			return fmt.Errorf("failed to write batch starting at row %d: %w", i+1, err)
		}

		w.logger.Debug("wrote batch", "tab", title, "start_row", i+1, "rows", len(batch))
	}

	return nil
}

// applyFormatting applies header, currency and sizing formats to every tab.
func (w *Writer) applyFormatting(ctx context.Context, spreadsheetID string, tabs []tab, sheetIDs map[string]int64) error {
	var requests []*sheets.Request
	for _, t := range tabs {
		id, ok := sheetIDs[t.title]
		if !ok {
			continue
		}
		requests = append(requests, formatRequests(t, id)...)
	}
	if len(requests) == 0 {
		return nil
	}

	_, err := w.service.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	return err
}

func formatRequests(t tab, sheetID int64) []*sheets.Request {
	rows := int64(len(t.values))

	requests := []*sheets.Request{
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    t.headerRow,
					EndRowIndex:      t.headerRow + 1,
					StartColumnIndex: 0,
					EndColumnIndex:   t.columnCount,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						TextFormat: &sheets.TextFormat{Bold: true},
					},
				},
				Fields: "userEnteredFormat.textFormat",
			},
		},
	}

	if t.titleRowStyle {
		requests = append(requests, &sheets.Request{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    0,
					EndRowIndex:      1,
					StartColumnIndex: 0,
					EndColumnIndex:   2,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						TextFormat: &sheets.TextFormat{Bold: true, FontSize: 16},
					},
				},
				Fields: "userEnteredFormat.textFormat",
			},
		})
	}

	for _, col := range t.currencyCols {
		requests = append(requests, &sheets.Request{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    0,
					EndRowIndex:      rows,
					StartColumnIndex: col,
					EndColumnIndex:   col + 1,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						NumberFormat: &sheets.NumberFormat{
							Type:    "CURRENCY",
							Pattern: "$#,##0.00",
						},
					},
				},
				Fields: "userEnteredFormat.numberFormat",
			},
		})
	}

	requests = append(requests,
		&sheets.Request{
			AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
				Dimensions: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "COLUMNS",
					StartIndex: 0,
					EndIndex:   t.columnCount,
				},
			},
		},
		&sheets.Request{
			UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: &sheets.SheetProperties{
					SheetId: sheetID,
					GridProperties: &sheets.GridProperties{
						FrozenRowCount: t.frozenRows,
					},
				},
				Fields: "gridProperties.frozenRowCount",
			},
		},
	)

	return requests
}

func a1(title, cells string) string {
	return fmt.Sprintf("'%s'!%s", title, cells)
}
