package main

import (
	"errors"
	"log/slog"

	"github.com/Veraticus/receipts/internal/common"
	"github.com/Veraticus/receipts/internal/config"
	"github.com/Veraticus/receipts/internal/tui"
	"github.com/Veraticus/receipts/internal/tui/components"
	"github.com/Veraticus/receipts/internal/tui/themes"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func browseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse receipts interactively",
		Long: `Open the interactive receipts browser.

Receipts are grouped by month with the month's total and count. Scroll down and
more receipts load automatically. Press / to search, m/c/i/s to cycle the month,
category, item category and storage filters, e to edit, d to delete, u to upload
and ? for all keys.`,
		RunE: runBrowse,
	}

	addFilterFlags(cmd)
	cmd.Flags().String("view", "", "initial layout: cards or table (default from ui.view)")
	cmd.Flags().String("theme", "", "color theme: default or catppuccin-mocha (default from ui.theme)")
	cmd.Flags().String("log-file", "", "write logs here while the browser runs (default ui.log_file, else browse.log in the state dir)")

	return cmd
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	filters, err := filtersFromFlags(cmd)
	if err != nil {
		return err
	}

	svc, apiCfg, err := newReceiptService()
	if err != nil {
		return err
	}

	opts := []tui.Option{
		tui.WithService(svc),
		tui.WithFilters(filters),
		tui.WithView(components.ParseViewMode(flagOrConfig(cmd, "view", "ui.view"))),
		tui.WithTheme(themes.GetTheme(flagOrConfig(cmd, "theme", "ui.theme"))),
	}

	logFile := config.BrowseLog()
	if v, _ := cmd.Flags().GetString("log-file"); v != "" {
		logFile = config.ExpandPath(v)
	}
	opts = append(opts, tui.WithLogFile(logFile))

	uploads, closeUploads, err := newUploadService(ctx, apiCfg)
	defer closeUploads()
	switch {
	case err == nil:
		opts = append(opts, tui.WithUploader(uploads))
	case errors.Is(err, common.ErrMissingConfig):
		slog.Debug("Uploads disabled", "reason", err)
	default:
		return err
	}

	return tui.Run(ctx, opts...)
}

// flagOrConfig returns the flag value when set, otherwise the config key.
func flagOrConfig(cmd *cobra.Command, flag, key string) string {
	if v, _ := cmd.Flags().GetString(flag); v != "" {
		return v
	}
	return viper.GetString(key)
}
