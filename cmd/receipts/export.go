package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/receipts/internal/cli"
	"github.com/Veraticus/receipts/internal/common"
	"github.com/Veraticus/receipts/internal/config"
	"github.com/Veraticus/receipts/internal/export"
	"github.com/Veraticus/receipts/internal/filter"
	"github.com/Veraticus/receipts/internal/service"
	"github.com/Veraticus/receipts/internal/sheets"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export receipts to CSV or Google Sheets",
		Long: `Export every receipt matching the filters.

CSV goes to --output (or stdout). Sheets writes Summary, Receipts and Items tabs
to the configured spreadsheet; run 'receipts auth sheets' first.`,
		RunE: runExport,
	}

	addFilterFlags(cmd)
	cmd.Flags().StringSlice("format", []string{"csv"}, "output formats: csv, sheets")
	cmd.Flags().StringP("output", "o", "", "CSV output file (default stdout)")
	cmd.Flags().Bool("items", false, "write one CSV row per line item instead of per receipt")

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	filters, err := filtersFromFlags(cmd)
	if err != nil {
		return err
	}
	filters = filter.Effective(filters)
	formats, _ := cmd.Flags().GetStringSlice("format")
	output, _ := cmd.Flags().GetString("output")
	items, _ := cmd.Flags().GetBool("items")

	interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx := interrupts.HandleInterrupts(cmd.Context(), "Export stopped before anything was written.")

	svc, _, err := newReceiptService()
	if err != nil {
		return err
	}

	var (
		writers []service.ReportWriter
		closers []func() error
	)
	defer func() {
		for _, c := range closers {
			if closeErr := c(); closeErr != nil {
				slog.Warn("Failed to close export output", "error", closeErr)
			}
		}
	}()

	for _, format := range formats {
		switch strings.ToLower(strings.TrimSpace(format)) {
		case "csv":
			out, closeFn, openErr := csvOutput(cmd.OutOrStdout(), output)
			if openErr != nil {
				return openErr
			}
			closers = append(closers, closeFn)
			writers = append(writers, export.NewCSVWriter(out, items))
		case "sheets":
			sheetsCfg, cfgErr := config.LoadSheetsConfig()
			if cfgErr != nil {
				return fmt.Errorf("%w: google sheets: %w (run 'receipts auth sheets')", common.ErrMissingConfig, cfgErr)
			}
			w, newErr := sheets.NewWriter(ctx, *sheetsCfg, slog.Default())
			if newErr != nil {
				return fmt.Errorf("failed to create sheets writer: %w", newErr)
			}
			writers = append(writers, w)
		default:
			return common.NewValidationError("format", fmt.Sprintf("unknown export format %q (use csv or sheets)", format))
		}
	}

	// Keep the bar off stdout when CSV is streamed there.
	progressOut := cmd.ErrOrStderr()
	bar := newLoadBar(progressOut)
	exporter, err := export.NewExporter(svc, func(loaded, total int) {
		bar.ChangeMax(total)
		_ = bar.Set(loaded)
	}, writers...)
	if err != nil {
		return err
	}

	summary, err := exporter.Run(ctx, filters)
	_ = bar.Finish()
	if err != nil {
		if interrupts.WasInterrupted() {
			return common.NewUserError("Export canceled", err)
		}
		return err
	}

	fmt.Fprintln(progressOut, cli.FormatSuccess(fmt.Sprintf("Exported %d receipts totalling %s",
		summary.ReceiptCount, cli.FormatMoney(summary.TotalSpent))))
	if output != "" {
		fmt.Fprintln(progressOut, cli.FormatInfo("CSV written to "+output))
	}
	return nil
}

// csvOutput opens path for writing, or returns stdout when path is empty.
func csvOutput(stdout io.Writer, path string) (io.Writer, func() error, error) {
	if path == "" {
		return stdout, func() error { return nil }, nil
	}
	path = config.ExpandPath(path)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(path) //nolint:gosec // path is chosen by the user
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return f, f.Close, nil
}

func newLoadBar(out io.Writer) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(out),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Loading receipts...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(out); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}
