package config

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Veraticus/receipts/internal/common"
	"github.com/spf13/viper"
)

// Defaults for the receipts backend connection.
const (
	DefaultBaseURL       = "http://localhost:8080"
	DefaultAPITimeout    = 30 * time.Second
	DefaultUploadTimeout = 2 * time.Minute
	DatabaseFile         = "receipts.db"
	BrowseLogFile        = "browse.log"
)

// APIConfig is everything the client needs to reach the backend and the upload webhook.
type APIConfig struct {
	BaseURL       string
	UpdateMethod  string
	WebhookURL    string
	DatabasePath  string
	Timeout       time.Duration
	UploadTimeout time.Duration
	Journal       bool
}

// LoadAPIConfig reads the API configuration from Viper with environment fallbacks.
// Precedence:
// 1. Viper configuration (config file or RECEIPTS_ env vars)
// 2. RECEIPTS_API_URL / VITE_API_URL and RECEIPTS_WEBHOOK_URL
// 3. Default values
func LoadAPIConfig() (*APIConfig, error) {
	cfg := &APIConfig{
		BaseURL:       viper.GetString("api.base_url"),
		UpdateMethod:  strings.ToUpper(viper.GetString("api.update_method")),
		WebhookURL:    viper.GetString("upload.webhook_url"),
		DatabasePath:  viper.GetString("database.path"),
		Timeout:       viper.GetDuration("api.timeout"),
		UploadTimeout: viper.GetDuration("upload.timeout"),
		Journal:       true,
	}
	if viper.IsSet("upload.journal") {
		cfg.Journal = viper.GetBool("upload.journal")
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = firstEnv("RECEIPTS_API_URL", "VITE_API_URL")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.WebhookURL == "" {
		cfg.WebhookURL = firstEnv("RECEIPTS_WEBHOOK_URL", "VITE_WEBHOOK_URL")
	}
	if cfg.UpdateMethod == "" {
		cfg.UpdateMethod = http.MethodPatch
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultAPITimeout
	}
	if cfg.UploadTimeout <= 0 {
		cfg.UploadTimeout = DefaultUploadTimeout
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = filepath.Join(DataDir(), DatabaseFile)
	}
	cfg.DatabasePath = ExpandPath(cfg.DatabasePath)
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values LoadAPIConfig cannot default.
func (c *APIConfig) Validate() error {
	switch c.UpdateMethod {
	case http.MethodPatch, http.MethodPut:
	default:
		return fmt.Errorf("%w: api.update_method must be PATCH or PUT, got %q", common.ErrInvalidConfig, c.UpdateMethod)
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("%w: api.base_url %q must be an http(s) URL", common.ErrInvalidConfig, c.BaseURL)
	}
	return nil
}

// BrowseLog is where logs go while the browser owns the terminal: ui.log_file
// when set, otherwise browse.log in StateDir.
func BrowseLog() string {
	if v := viper.GetString("ui.log_file"); v != "" {
		return ExpandPath(v)
	}
	return filepath.Join(StateDir(), BrowseLogFile)
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}
