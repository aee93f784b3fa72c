// Package model defines the core domain models used throughout the application.
package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// MonthLayout is the wire format for month keys.
const MonthLayout = "2006-01"

// Date is a calendar date without a time component.
type Date struct {
	time.Time
}

// NewDate returns the Date for the given year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string. Longer timestamps are truncated to their date part.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{Time: t}, nil
}

// String formats the date as YYYY-MM-DD, or "" for the zero date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MonthKey returns the YYYY-MM key of the date.
func (d Date) MonthKey() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(MonthLayout)
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Item is a catalog entry referenced by receipt lines.
type Item struct {
	CreatedAt      time.Time `json:"createdAt,omitempty"`
	Name           string    `json:"name"`
	NormalizedName string    `json:"normalizedName,omitempty"`
	Category       string    `json:"category,omitempty"`
	Storage        string    `json:"storage,omitempty"`
	ID             int64     `json:"id"`
}

// ReceiptItem is one line on a receipt. An ID of 0 means the line has not been persisted.
type ReceiptItem struct {
	CreatedAt time.Time       `json:"createdAt,omitempty"`
	Item      Item            `json:"item"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	LineTotal decimal.Decimal `json:"lineTotal"`
	ID        int64           `json:"id"`
}

// IsNew reports whether the line has not been saved yet.
func (ri ReceiptItem) IsNew() bool {
	return ri.ID == 0
}

// Receipt is one purchase with its totals and line items.
type Receipt struct {
	Date         Date            `json:"date"`
	CreatedAt    time.Time       `json:"createdAt,omitempty"`
	Category     *string         `json:"category,omitempty"`
	Store        string          `json:"store"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Tax          decimal.Decimal `json:"tax"`
	Discount     decimal.Decimal `json:"discount"`
	Total        decimal.Decimal `json:"total"`
	ReceiptItems []ReceiptItem   `json:"receiptItems"`
	ID           int64           `json:"id"`
}

// MonthKey returns the YYYY-MM month the receipt belongs to.
func (r Receipt) MonthKey() string {
	return r.Date.MonthKey()
}

// CategoryName returns the receipt category or "" when unset.
func (r Receipt) CategoryName() string {
	if r.Category == nil {
		return ""
	}
	return *r.Category
}

// ExpectedTotal returns subtotal + tax - discount.
func (r Receipt) ExpectedTotal() decimal.Decimal {
	return r.Subtotal.Add(r.Tax).Sub(r.Discount)
}

// MonthlyTotal is the server's aggregate for one calendar month.
type MonthlyTotal struct {
	Month        string          `json:"month"`
	TotalSpent   decimal.Decimal `json:"totalSpent"`
	ReceiptCount int             `json:"receiptCount"`
}

// Page is one page of the receipts listing.
type Page struct {
	Receipts      []Receipt      `json:"receipts"`
	MonthlyTotals []MonthlyTotal `json:"monthlyTotals"`
	Page          int            `json:"page"`
	Size          int            `json:"size"`
	TotalElements int            `json:"totalElements"`
	TotalPages    int            `json:"totalPages"`
	HasNext       bool           `json:"hasNext"`
}

// MonthOption is a selectable month in the month filter.
type MonthOption struct {
	Month string `json:"month"`
	Label string `json:"label"`
}

// FilterOptions holds the values that populate the filter selectors.
type FilterOptions struct {
	Months         []MonthOption
	Categories     []string
	ItemCategories []string
	StorageTypes   []string
}

// FormatCategoryLabel turns an enum value such as "PERSONAL_CARE" into "Personal Care".
func FormatCategoryLabel(value string) string {
	words := strings.Fields(strings.ReplaceAll(value, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
