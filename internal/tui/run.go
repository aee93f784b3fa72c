// Package tui implements the interactive receipts browser.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Veraticus/receipts/internal/common"
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the receipts browser and blocks until the user quits.
// Quitting cancels ctx for every request still in flight.
func Run(ctx context.Context, opts ...Option) error {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.Service == nil {
		return fmt.Errorf("%w: receipts service is required", common.ErrMissingConfig)
	}

	restoreLogs, err := redirectLogs(ctx, cfg.LogFile)
	if err != nil {
		return err
	}
	defer restoreLogs()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(
		newModel(ctx, cfg),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("receipts browser failed: %w", err)
	}
	return nil
}

// redirectLogs points the default logger away from the terminal while the
// browser owns it: into path when set, otherwise nowhere. The returned func
// restores the previous logger.
func redirectLogs(ctx context.Context, path string) (func(), error) {
	previous := slog.Default()
	level := slog.LevelInfo
	if previous.Enabled(ctx, slog.LevelDebug) {
		level = slog.LevelDebug
	}

	if path == "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return func() { slog.SetDefault(previous) }, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := tea.LogToFile(path, "receipts")
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})))
	return func() {
		slog.SetDefault(previous)
		_ = f.Close()
	}, nil
}
