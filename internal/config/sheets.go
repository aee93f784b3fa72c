package config

import (
	"os"

	"github.com/Veraticus/receipts/internal/sheets"
	"github.com/spf13/viper"
)

// sheetsSources maps each string setting to its config key and the
// GOOGLE_SHEETS_* variable used when the key is unset.
var sheetsSources = []struct {
	key   string
	env   string
	field func(*sheets.Config) *string
	path  bool
}{
	{key: "sheets.service_account_path", env: "GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH", path: true,
		field: func(c *sheets.Config) *string { return &c.ServiceAccountPath }},
	{key: "sheets.client_id", env: "GOOGLE_SHEETS_CLIENT_ID",
		field: func(c *sheets.Config) *string { return &c.ClientID }},
	{key: "sheets.client_secret", env: "GOOGLE_SHEETS_CLIENT_SECRET",
		field: func(c *sheets.Config) *string { return &c.ClientSecret }},
	{key: "sheets.refresh_token", env: "GOOGLE_SHEETS_REFRESH_TOKEN",
		field: func(c *sheets.Config) *string { return &c.RefreshToken }},
	{key: "sheets.spreadsheet_id", env: "GOOGLE_SHEETS_SPREADSHEET_ID",
		field: func(c *sheets.Config) *string { return &c.SpreadsheetID }},
	{key: "sheets.spreadsheet_name", env: "GOOGLE_SHEETS_SPREADSHEET_NAME",
		field: func(c *sheets.Config) *string { return &c.SpreadsheetName }},
	{key: "sheets.time_zone",
		field: func(c *sheets.Config) *string { return &c.TimeZone }},
}

// LoadSheetsConfig loads Google Sheets configuration. For each setting the
// config file (or RECEIPTS_SHEETS_* env var) wins, then GOOGLE_SHEETS_*, then
// the default.
func LoadSheetsConfig() (*sheets.Config, error) {
	cfg := sheets.DefaultConfig()

	for _, src := range sheetsSources {
		v := viper.GetString(src.key)
		if v == "" && src.env != "" {
			v = os.Getenv(src.env)
		}
		if v == "" {
			continue
		}
		if src.path {
			v = ExpandPath(v)
		}
		*src.field(&cfg) = v
	}

	if viper.IsSet("sheets.include_items") {
		cfg.IncludeItems = viper.GetBool("sheets.include_items")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SheetsTokenFile is where `receipts auth sheets` stores the OAuth2 token.
func SheetsTokenFile() string {
	if v := viper.GetString("sheets.token_file"); v != "" {
		return ExpandPath(v)
	}
	return ConfigFile("sheets-token.json")
}
