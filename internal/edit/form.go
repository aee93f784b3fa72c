// Package edit implements the receipt edit form: line bookkeeping, validation,
// and the update payload sent to the backend.
package edit

import (
	"fmt"
	"strings"

	"github.com/Veraticus/receipts/internal/common"
	"github.com/Veraticus/receipts/internal/model"
	"github.com/shopspring/decimal"
)

// Defaults for lines added in the form.
const (
	DefaultItemCategory = "OTHER"
	DefaultItemStorage  = "PANTRY"
)

// Line is one editable receipt line.
type Line struct {
	Name      string
	Category  string
	Storage   string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
	// ID is the receipt line id, 0 for lines added in the form.
	ID int64
	// ItemID is the catalog item id, 0 when the item should be created.
	ItemID int64
}

// Form holds a receipt being edited. Header amounts are kept as typed.
type Form struct {
	Store     string
	Date      string
	Category  string
	Subtotal  string
	Tax       string
	Discount  string
	Total     string
	Lines     []Line
	ReceiptID int64
}

// FromReceipt populates a form from a loaded receipt.
func FromReceipt(r model.Receipt) Form {
	f := Form{
		ReceiptID: r.ID,
		Store:     r.Store,
		Date:      r.Date.String(),
		Category:  r.CategoryName(),
		Subtotal:  r.Subtotal.String(),
		Tax:       r.Tax.String(),
		Discount:  r.Discount.String(),
		Total:     r.Total.String(),
		Lines:     make([]Line, 0, len(r.ReceiptItems)),
	}
	for _, ri := range r.ReceiptItems {
		f.Lines = append(f.Lines, Line{
			ID:        ri.ID,
			ItemID:    ri.Item.ID,
			Name:      ri.Item.Name,
			Category:  ri.Item.Category,
			Storage:   ri.Item.Storage,
			Quantity:  ri.Quantity,
			UnitPrice: ri.UnitPrice,
			LineTotal: ri.LineTotal,
		})
	}
	return f
}

// parseNumber reads a typed number; anything unparseable counts as zero.
func parseNumber(text string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func (f *Form) line(i int) (*Line, error) {
	if i < 0 || i >= len(f.Lines) {
		return nil, fmt.Errorf("line %d out of range", i)
	}
	return &f.Lines[i], nil
}

// SetQuantity updates a line's quantity and recomputes its line total.
func (f *Form) SetQuantity(i int, text string) error {
	l, err := f.line(i)
	if err != nil {
		return err
	}
	l.Quantity = parseNumber(text)
	l.LineTotal = l.Quantity.Mul(l.UnitPrice)
	return nil
}

// SetUnitPrice updates a line's unit price and recomputes its line total.
func (f *Form) SetUnitPrice(i int, text string) error {
	l, err := f.line(i)
	if err != nil {
		return err
	}
	l.UnitPrice = parseNumber(text)
	l.LineTotal = l.Quantity.Mul(l.UnitPrice)
	return nil
}

// SetItemName renames a line's item.
func (f *Form) SetItemName(i int, name string) error {
	l, err := f.line(i)
	if err != nil {
		return err
	}
	l.Name = name
	return nil
}

// AddItem appends an empty line and returns its index.
func (f *Form) AddItem() int {
	f.Lines = append(f.Lines, Line{
		Category:  DefaultItemCategory,
		Storage:   DefaultItemStorage,
		Quantity:  decimal.NewFromInt(1),
		UnitPrice: decimal.Zero,
		LineTotal: decimal.Zero,
	})
	return len(f.Lines) - 1
}

// RemoveItem drops a line. Removed lines are simply left out of the update.
func (f *Form) RemoveItem(i int) error {
	if _, err := f.line(i); err != nil {
		return err
	}
	f.Lines = append(f.Lines[:i], f.Lines[i+1:]...)
	return nil
}

// ItemsTotal sums the line totals.
func (f Form) ItemsTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range f.Lines {
		sum = sum.Add(l.LineTotal)
	}
	return sum
}

type amount struct {
	field string
	label string
	text  string
}

func (f Form) amounts() []amount {
	return []amount{
		{field: "subtotal", label: "Subtotal", text: f.Subtotal},
		{field: "tax", label: "Tax", text: f.Tax},
		{field: "discount", label: "Discount", text: f.Discount},
		{field: "total", label: "Total", text: f.Total},
	}
}

// parseAmount reads a header amount. Blank means zero.
func parseAmount(a amount) (decimal.Decimal, error) {
	text := strings.TrimSpace(a.text)
	if text == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, common.NewValidationError(a.field, a.label+" must be a number")
	}
	return d, nil
}

// Validate checks the form in the order the user reads it and returns the first problem.
func (f Form) Validate() error {
	if strings.TrimSpace(f.Store) == "" {
		return common.NewValidationError("store", "Store name is required")
	}
	if strings.TrimSpace(f.Date) == "" {
		return common.NewValidationError("date", "Date is required")
	}
	if _, err := model.ParseDate(f.Date); err != nil {
		return common.NewValidationError("date", "Date must be in YYYY-MM-DD format")
	}

	for _, a := range f.amounts() {
		d, err := parseAmount(a)
		if err != nil {
			return err
		}
		if d.IsNegative() {
			return common.NewValidationError(a.field, a.label+" cannot be negative")
		}
	}

	for _, l := range f.Lines {
		if strings.TrimSpace(l.Name) == "" {
			return common.NewValidationError("items", "All items must have a name")
		}
		if !l.Quantity.IsPositive() {
			return common.NewValidationError("items", "All items must have a positive quantity")
		}
		if l.UnitPrice.IsNegative() {
			return common.NewValidationError("items", "Item prices cannot be negative")
		}
	}

	return nil
}

// Payload validates the form and builds the update body.
// Existing lines keep their id. Existing catalog items are referenced by id
// alone; new ones carry name, category and storage so the backend creates them.
func (f Form) Payload() (model.ReceiptUpdate, error) {
	if err := f.Validate(); err != nil {
		return model.ReceiptUpdate{}, err
	}

	date, _ := model.ParseDate(f.Date)
	values := make([]decimal.Decimal, 0, 4)
	for _, a := range f.amounts() {
		d, _ := parseAmount(a)
		values = append(values, d)
	}

	update := model.ReceiptUpdate{
		Store:        strings.TrimSpace(f.Store),
		Date:         date,
		Subtotal:     values[0],
		Tax:          values[1],
		Discount:     values[2],
		Total:        values[3],
		ReceiptItems: make([]model.ReceiptItemUpdate, 0, len(f.Lines)),
	}
	if category := strings.TrimSpace(f.Category); category != "" {
		update.Category = &category
	}

	for _, l := range f.Lines {
		line := model.ReceiptItemUpdate{
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			LineTotal: l.LineTotal,
		}
		if l.ID > 0 {
			line.ID = l.ID
		}
		if l.ItemID > 0 {
			line.Item = model.ItemRef{ID: l.ItemID}
		} else {
			line.Item = model.ItemRef{
				Name:     strings.TrimSpace(l.Name),
				Category: l.Category,
				Storage:  l.Storage,
			}
		}
		update.ReceiptItems = append(update.ReceiptItems, line)
	}

	return update, nil
}
