package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/Veraticus/receipts/internal/cli"
	"github.com/Veraticus/receipts/internal/common"
	"github.com/Veraticus/receipts/internal/config"
	"github.com/Veraticus/receipts/internal/model"
	"github.com/Veraticus/receipts/internal/upload"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func uploadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload FILE...",
		Short: "Upload receipt images",
		Long: `Upload one or more receipt images to the ingestion webhook.

Images must be JPEG, PNG, GIF, WebP or HEIC and smaller than 10MB. Invalid files
are rejected before anything is sent. Every attempt is recorded in the local
upload journal (see 'receipts uploads').`,
		Args: cobra.MinimumNArgs(1),
		RunE: runUpload,
	}

	cmd.Flags().Bool("no-progress", false, "do not show a progress bar")

	return cmd
}

func runUpload(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	noProgress, _ := cmd.Flags().GetBool("no-progress")

	apiCfg, err := config.LoadAPIConfig()
	if err != nil {
		return err
	}

	svc, closeFn, err := newUploadService(ctx, apiCfg)
	defer closeFn()
	if err != nil {
		return err
	}

	var failed int
	for _, path := range args {
		var wrap upload.ReaderWrapper
		if !noProgress {
			wrap = progressWrapper(out, path)
		}

		f, uploadErr := svc.UploadFile(ctx, path, wrap)
		if uploadErr != nil {
			failed++
			slog.Debug("Upload failed", "file", path, "error", uploadErr)
			fmt.Fprintln(out, cli.FormatError(fmt.Sprintf("%s: %s", path, uploadMessage(uploadErr))))
			if ctx.Err() != nil {
				return ctx.Err()
			}
			continue
		}
		fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("%s: %s", f.Name, upload.SuccessMessage)))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d uploads failed", failed, len(args))
	}
	return nil
}

// uploadMessage is the text shown for a failed upload.
func uploadMessage(err error) string {
	switch {
	case errors.Is(err, common.ErrValidation), errors.Is(err, upload.ErrMissingWebhook):
		return common.UserMessage(err, err.Error())
	default:
		return common.UserMessage(err, upload.FailureMessage)
	}
}

// progressWrapper streams the request body through a byte progress bar.
func progressWrapper(out io.Writer, name string) upload.ReaderWrapper {
	return func(r io.Reader, size int64) io.Reader {
		bar := progressbar.NewOptions64(size,
			progressbar.OptionSetWriter(out),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription("[cyan][bold]"+name+"[reset]"),
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
		reader := progressbar.NewReader(r, bar)
		return &reader
	}
}

func uploadsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "uploads",
		Short: "Show recent upload attempts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			limit, _ := cmd.Flags().GetInt("limit")
			prune, _ := cmd.Flags().GetDuration("prune")

			apiCfg, err := config.LoadAPIConfig()
			if err != nil {
				return err
			}

			store, err := initStorage(ctx, apiCfg.DatabasePath)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			out := cmd.OutOrStdout()
			if prune > 0 {
				n, pruneErr := store.PruneUploads(ctx, time.Now().Add(-prune))
				if pruneErr != nil {
					return fmt.Errorf("failed to prune upload journal: %w", pruneErr)
				}
				fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Removed %d old uploads", n)))
			}

			records, err := store.RecentUploads(ctx, limit)
			if err != nil {
				return fmt.Errorf("failed to read upload journal: %w", err)
			}

			if len(records) == 0 {
				fmt.Fprintln(out, cli.FormatInfo("No uploads recorded yet"))
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "WHEN\tFILE\tSIZE\tSTATUS\tMESSAGE")
			for _, rec := range records {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					rec.CreatedAt.Local().Format("2006-01-02 15:04"),
					rec.FileName,
					formatBytes(rec.SizeBytes),
					rec.Status,
					rec.Message)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			stats, err := store.UploadStats(ctx)
			if err != nil {
				slog.Warn("Failed to read upload stats", "error", err)
				return nil
			}
			fmt.Fprintf(out, "\n%d succeeded, %d failed, %d rejected\n",
				stats[model.UploadSucceeded], stats[model.UploadFailed], stats[model.UploadRejected])
			return nil
		},
	}

	cmd.Flags().Int("limit", 20, "number of uploads to show")
	cmd.Flags().Duration("prune", 0, "first remove entries older than this (e.g. 720h)")

	return cmd
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
