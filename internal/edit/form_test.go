package edit

import (
	"encoding/json"
	"testing"

	"github.com/Veraticus/receipts/internal/common"
	"github.com/Veraticus/receipts/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleReceipt() model.Receipt {
	category := "GROCERIES"
	return model.Receipt{
		ID:       5,
		Store:    "Aldi",
		Date:     model.NewDate(2025, 1, 5),
		Category: &category,
		Subtotal: dec("10.00"),
		Tax:      dec("0.70"),
		Discount: dec("0"),
		Total:    dec("10.70"),
		ReceiptItems: []model.ReceiptItem{
			{
				ID:        11,
				Item:      model.Item{ID: 3, Name: "Milk", Category: "DAIRY", Storage: "FRIDGE"},
				Quantity:  dec("2"),
				UnitPrice: dec("1.25"),
				LineTotal: dec("2.50"),
			},
		},
	}
}

func TestFromReceipt(t *testing.T) {
	f := FromReceipt(sampleReceipt())

	assert.Equal(t, int64(5), f.ReceiptID)
	assert.Equal(t, "Aldi", f.Store)
	assert.Equal(t, "2025-01-05", f.Date)
	assert.Equal(t, "GROCERIES", f.Category)
	require.Len(t, f.Lines, 1)
	assert.Equal(t, "Milk", f.Lines[0].Name)
	assert.Equal(t, int64(11), f.Lines[0].ID)
	assert.Equal(t, int64(3), f.Lines[0].ItemID)
	assert.True(t, dec("2.50").Equal(f.Lines[0].LineTotal))
}

func TestForm_LineTotalRecomputed(t *testing.T) {
	f := FromReceipt(sampleReceipt())

	require.NoError(t, f.SetQuantity(0, "3"))
	assert.True(t, dec("3.75").Equal(f.Lines[0].LineTotal))

	require.NoError(t, f.SetUnitPrice(0, "0.5"))
	assert.True(t, dec("1.5").Equal(f.Lines[0].LineTotal))

	require.NoError(t, f.SetQuantity(0, "abc"))
	assert.True(t, f.Lines[0].Quantity.IsZero())
	assert.True(t, f.Lines[0].LineTotal.IsZero())

	assert.Error(t, f.SetQuantity(4, "1"))
}

func TestForm_AddAndRemoveItem(t *testing.T) {
	f := FromReceipt(sampleReceipt())

	i := f.AddItem()

	assert.Equal(t, 1, i)
	added := f.Lines[i]
	assert.Equal(t, int64(0), added.ID)
	assert.Equal(t, int64(0), added.ItemID)
	assert.Equal(t, "OTHER", added.Category)
	assert.Equal(t, "PANTRY", added.Storage)
	assert.True(t, decimal.NewFromInt(1).Equal(added.Quantity))
	assert.True(t, added.UnitPrice.IsZero())

	require.NoError(t, f.RemoveItem(0))
	require.Len(t, f.Lines, 1)
	assert.Equal(t, int64(0), f.Lines[0].ID)
	assert.Error(t, f.RemoveItem(3))
}

func TestForm_Validate(t *testing.T) {
	tests := []struct {
		mutate func(*Form)
		name   string
		want   string
	}{
		{name: "valid", mutate: func(*Form) {}},
		{name: "blank store", mutate: func(f *Form) { f.Store = "  " }, want: "Store name is required"},
		{name: "no date", mutate: func(f *Form) { f.Date = "" }, want: "Date is required"},
		{name: "bad date", mutate: func(f *Form) { f.Date = "05/01/2025" }, want: "Date must be in YYYY-MM-DD format"},
		{name: "negative subtotal", mutate: func(f *Form) { f.Subtotal = "-1" }, want: "Subtotal cannot be negative"},
		{name: "negative tax", mutate: func(f *Form) { f.Tax = "-0.01" }, want: "Tax cannot be negative"},
		{name: "negative discount", mutate: func(f *Form) { f.Discount = "-2" }, want: "Discount cannot be negative"},
		{name: "negative total", mutate: func(f *Form) { f.Total = "-3" }, want: "Total cannot be negative"},
		{name: "not a number", mutate: func(f *Form) { f.Total = "ten" }, want: "Total must be a number"},
		{name: "blank amount is zero", mutate: func(f *Form) { f.Discount = "" }},
		{name: "unnamed item", mutate: func(f *Form) { f.AddItem() }, want: "All items must have a name"},
		{
			name:   "zero quantity",
			mutate: func(f *Form) { _ = f.SetQuantity(0, "0") },
			want:   "All items must have a positive quantity",
		},
		{
			name:   "negative price",
			mutate: func(f *Form) { _ = f.SetUnitPrice(0, "-1") },
			want:   "Item prices cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := FromReceipt(sampleReceipt())
			tt.mutate(&f)

			err := f.Validate()
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrValidation)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestForm_Payload(t *testing.T) {
	f := FromReceipt(sampleReceipt())
	f.Store = " Lidl "
	i := f.AddItem()
	require.NoError(t, f.SetItemName(i, "Bread"))
	require.NoError(t, f.SetUnitPrice(i, "2.20"))

	update, err := f.Payload()
	require.NoError(t, err)

	assert.Equal(t, "Lidl", update.Store)
	assert.Equal(t, "2025-01-05", update.Date.String())
	require.NotNil(t, update.Category)
	assert.Equal(t, "GROCERIES", *update.Category)
	assert.True(t, dec("10.70").Equal(update.Total))
	require.Len(t, update.ReceiptItems, 2)

	existing := update.ReceiptItems[0]
	assert.Equal(t, int64(11), existing.ID)
	assert.Equal(t, model.ItemRef{ID: 3}, existing.Item)

	added := update.ReceiptItems[1]
	assert.Equal(t, int64(0), added.ID)
	assert.Equal(t, model.ItemRef{Name: "Bread", Category: "OTHER", Storage: "PANTRY"}, added.Item)
	assert.True(t, dec("2.20").Equal(added.LineTotal))

	raw, err := json.Marshal(update)
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(raw, &wire))
	items := wire["receiptItems"].([]any)
	assert.NotContains(t, items[1].(map[string]any), "id")
	assert.Equal(t, map[string]any{"id": float64(3)}, items[0].(map[string]any)["item"])
}

func TestForm_PayloadEmptyCategoryIsNull(t *testing.T) {
	f := FromReceipt(sampleReceipt())
	f.Category = ""

	update, err := f.Payload()
	require.NoError(t, err)
	assert.Nil(t, update.Category)

	raw, err := json.Marshal(update)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"category":null`)
}

func TestForm_PayloadRejectsInvalid(t *testing.T) {
	f := FromReceipt(sampleReceipt())
	f.Store = ""

	_, err := f.Payload()
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestForm_ItemsTotal(t *testing.T) {
	f := FromReceipt(sampleReceipt())
	i := f.AddItem()
	require.NoError(t, f.SetUnitPrice(i, "1.10"))

	assert.True(t, dec("3.60").Equal(f.ItemsTotal()))
}
