// Package sheets exports receipt listings to Google Sheets.
package sheets

import (
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/receipts/internal/common"
)

// DefaultSpreadsheetName is used when creating a new spreadsheet.
const DefaultSpreadsheetName = "Receipts"

// AuthMethod is how the writer obtains Google credentials.
type AuthMethod int

const (
	AuthNone AuthMethod = iota
	AuthOAuth2
	AuthServiceAccount
	AuthAmbiguous
)

// Config holds the configuration for the Google Sheets writer.
type Config struct {
	ClientID           string
	ClientSecret       string
	RefreshToken       string
	ServiceAccountPath string
	SpreadsheetID      string
	SpreadsheetName    string
	TimeZone           string
	BatchSize          int
	RetryAttempts      int
	RetryDelay         time.Duration
	EnableFormatting   bool
	IncludeItems       bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		SpreadsheetName:  DefaultSpreadsheetName,
		EnableFormatting: true,
		IncludeItems:     true,
		TimeZone:         "America/New_York",
		BatchSize:        1000,
		RetryAttempts:    3,
		RetryDelay:       time.Second,
	}
}

// AuthMethod reports which credentials are configured. OAuth2 needs all three
// of client id, secret and refresh token.
func (c *Config) AuthMethod() AuthMethod {
	oauth := c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
	sa := c.ServiceAccountPath != ""
	switch {
	case oauth && sa:
		return AuthAmbiguous
	case oauth:
		return AuthOAuth2
	case sa:
		return AuthServiceAccount
	default:
		return AuthNone
	}
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var errs []error

	switch c.AuthMethod() {
	case AuthNone:
		errs = append(errs, errors.New("no authentication method configured"))
	case AuthAmbiguous:
		errs = append(errs, errors.New("multiple authentication methods configured; use either OAuth2 or service account"))
	}
	if c.BatchSize <= 0 {
		errs = append(errs, errors.New("batch size must be positive"))
	}
	if c.RetryAttempts < 0 {
		errs = append(errs, errors.New("retry attempts cannot be negative"))
	}
	if c.RetryDelay < 0 {
		errs = append(errs, errors.New("retry delay cannot be negative"))
	}
	if c.TimeZone != "" {
		if _, err := time.LoadLocation(c.TimeZone); err != nil {
			errs = append(errs, fmt.Errorf("invalid time zone %q: %w", c.TimeZone, err))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", common.ErrInvalidConfig, errors.Join(errs...))
}
