package tui

import (
	"context"

	"github.com/Veraticus/receipts/internal/model"
	"github.com/Veraticus/receipts/internal/service"
	"github.com/Veraticus/receipts/internal/tui/components"
	"github.com/Veraticus/receipts/internal/tui/themes"
	"github.com/Veraticus/receipts/internal/upload"
)

// Uploader uploads a receipt image from disk.
type Uploader interface {
	UploadFile(ctx context.Context, path string, wrap upload.ReaderWrapper) (upload.File, error)
}

// Config holds TUI configuration.
type Config struct {
	Theme    themes.Theme
	Service  service.ReceiptService
	Uploader Uploader
	Filters  model.Filters
	LogFile  string
	View     components.ViewMode
	Width    int
	Height   int
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:  themes.Default,
		View:   components.ViewCards,
		Width:  100,
		Height: 30,
	}
}

// WithService sets the receipts backend.
func WithService(svc service.ReceiptService) Option {
	return func(c *Config) {
		c.Service = svc
	}
}

// WithUploader enables image upload from the browser.
func WithUploader(u Uploader) Option {
	return func(c *Config) {
		c.Uploader = u
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithView selects the initial layout.
func WithView(view components.ViewMode) Option {
	return func(c *Config) {
		c.View = view
	}
}

// WithFilters sets the filters the browser starts with.
func WithFilters(filters model.Filters) Option {
	return func(c *Config) {
		c.Filters = filters.Clone()
	}
}

// WithLogFile sends log output to path while the browser owns the terminal.
func WithLogFile(path string) Option {
	return func(c *Config) {
		c.LogFile = path
	}
}
