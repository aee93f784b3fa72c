package config

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/receipts/internal/common"
	"github.com/Veraticus/receipts/internal/sheets"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	for _, key := range []string{
		"RECEIPTS_API_URL", "VITE_API_URL", "RECEIPTS_WEBHOOK_URL", "VITE_WEBHOOK_URL",
		"GOOGLE_SHEETS_CLIENT_ID", "GOOGLE_SHEETS_CLIENT_SECRET", "GOOGLE_SHEETS_REFRESH_TOKEN",
		"GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH", "GOOGLE_SHEETS_SPREADSHEET_ID", "GOOGLE_SHEETS_SPREADSHEET_NAME",
		"XDG_CONFIG_HOME", "XDG_DATA_HOME", "XDG_STATE_HOME",
	} {
		t.Setenv(key, "")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("RECEIPTS_TEST_DIR", "/srv/data")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "tilde", in: "~", want: home},
		{name: "tilde path", in: "~/receipts.db", want: filepath.Join(home, "receipts.db")},
		{name: "env var", in: "$RECEIPTS_TEST_DIR/receipts.db", want: "/srv/data/receipts.db"},
		{name: "plain", in: "/tmp/receipts.db", want: "/tmp/receipts.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}

func TestLoadAPIConfig_Defaults(t *testing.T) {
	resetViper(t)

	cfg, err := LoadAPIConfig()
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, http.MethodPatch, cfg.UpdateMethod)
	assert.Equal(t, DefaultAPITimeout, cfg.Timeout)
	assert.Equal(t, DefaultUploadTimeout, cfg.UploadTimeout)
	assert.True(t, cfg.Journal)
	assert.Empty(t, cfg.WebhookURL)
	assert.Equal(t, filepath.Join(DataDir(), DatabaseFile), cfg.DatabasePath)
	assert.Contains(t, cfg.DatabasePath, filepath.Join(".local", "share", "receipts"))
}

func TestLoadAPIConfig_Precedence(t *testing.T) {
	resetViper(t)
	t.Setenv("VITE_API_URL", "http://vite:8080")
	t.Setenv("RECEIPTS_WEBHOOK_URL", "https://hooks.example.com/receipt")

	cfg, err := LoadAPIConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://vite:8080", cfg.BaseURL)
	assert.Equal(t, "https://hooks.example.com/receipt", cfg.WebhookURL)

	t.Setenv("RECEIPTS_API_URL", "http://env:8080/")
	cfg, err = LoadAPIConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://env:8080", cfg.BaseURL)

	viper.Set("api.base_url", "https://config.example.com")
	viper.Set("api.update_method", "put")
	viper.Set("api.timeout", "5s")
	viper.Set("upload.journal", false)
	cfg, err = LoadAPIConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://config.example.com", cfg.BaseURL)
	assert.Equal(t, http.MethodPut, cfg.UpdateMethod)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.False(t, cfg.Journal)
}

func TestLoadAPIConfig_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "update method", key: "api.update_method", value: "POST"},
		{name: "base url scheme", key: "api.base_url", value: "ftp://receipts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper(t)
			viper.Set(tt.key, tt.value)

			_, err := LoadAPIConfig()
			assert.ErrorIs(t, err, common.ErrInvalidConfig)
		})
	}
}

func TestLoadSheetsConfig(t *testing.T) {
	resetViper(t)

	_, err := LoadSheetsConfig()
	assert.Error(t, err, "no credentials configured")

	viper.Set("sheets.service_account_path", "/keys/sa.json")
	viper.Set("sheets.include_items", false)
	t.Setenv("GOOGLE_SHEETS_SPREADSHEET_NAME", "Household")
	t.Setenv("GOOGLE_SHEETS_SPREADSHEET_ID", "abc123")

	cfg, err := LoadSheetsConfig()
	require.NoError(t, err)
	assert.Equal(t, "/keys/sa.json", cfg.ServiceAccountPath)
	assert.Equal(t, "Household", cfg.SpreadsheetName)
	assert.Equal(t, "abc123", cfg.SpreadsheetID)
	assert.False(t, cfg.IncludeItems)

	viper.Set("sheets.spreadsheet_name", "From Config")
	cfg, err = LoadSheetsConfig()
	require.NoError(t, err)
	assert.Equal(t, "From Config", cfg.SpreadsheetName)
	assert.NotEqual(t, sheets.DefaultSpreadsheetName, cfg.SpreadsheetName)
}

func TestSheetsTokenFile(t *testing.T) {
	resetViper(t)
	assert.Contains(t, SheetsTokenFile(), filepath.Join(".config", "receipts", "sheets-token.json"))

	viper.Set("sheets.token_file", "/tmp/token.json")
	assert.Equal(t, "/tmp/token.json", SheetsTokenFile())
}

func TestXDGDirs(t *testing.T) {
	resetViper(t)
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".config", AppName), ConfigDir())
	assert.Equal(t, filepath.Join(home, ".local", "share", AppName), DataDir())

	t.Setenv("XDG_CONFIG_HOME", "/etc/xdg-test")
	t.Setenv("XDG_DATA_HOME", "/var/xdg-test")
	assert.Equal(t, "/etc/xdg-test/receipts/config.yaml", ConfigFile("config.yaml"))
	assert.Equal(t, "/var/xdg-test/receipts", DataDir())
}

func TestBrowseLog(t *testing.T) {
	resetViper(t)
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".local", "state", AppName, BrowseLogFile), BrowseLog())

	t.Setenv("XDG_STATE_HOME", "/var/state-test")
	assert.Equal(t, "/var/state-test/receipts/browse.log", BrowseLog())

	viper.Set("ui.log_file", "~/receipts-browse.log")
	assert.Equal(t, filepath.Join(home, "receipts-browse.log"), BrowseLog())
}
