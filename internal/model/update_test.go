package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReceiptUpdate_ApplyTo(t *testing.T) {
	created := time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)
	milk := Item{ID: 7, Name: "Milk", Category: "DAIRY", Storage: "FRIDGE"}
	prev := Receipt{
		ID:        12,
		CreatedAt: created,
		Store:     "Aldi",
		Date:      NewDate(2025, time.March, 2),
		Total:     decimal.RequireFromString("10.80"),
		ReceiptItems: []ReceiptItem{
			{ID: 1, CreatedAt: created, Item: milk, Quantity: decimal.NewFromInt(2), LineTotal: decimal.NewFromInt(10)},
			{ID: 2, Item: Item{ID: 8, Name: "Bread"}, Quantity: decimal.NewFromInt(1)},
		},
	}
	category := "GROCERIES"

	got := ReceiptUpdate{
		Store:    "Aldi Nord",
		Date:     NewDate(2025, time.April, 1),
		Category: &category,
		Total:    decimal.RequireFromString("12.50"),
		ReceiptItems: []ReceiptItemUpdate{
			{ID: 1, Item: ItemRef{ID: 7}, Quantity: decimal.NewFromInt(3), LineTotal: decimal.NewFromInt(12)},
			{Item: ItemRef{Name: "Eggs", Category: "DAIRY"}, Quantity: decimal.NewFromInt(1), LineTotal: decimal.RequireFromString("0.50")},
		},
	}.ApplyTo(prev)

	assert.Equal(t, int64(12), got.ID)
	assert.Equal(t, created, got.CreatedAt)
	assert.Equal(t, "Aldi Nord", got.Store)
	assert.Equal(t, "2025-04", got.MonthKey())
	assert.Equal(t, "GROCERIES", got.CategoryName())
	assert.True(t, got.Total.Equal(decimal.RequireFromString("12.5")))

	require.Len(t, got.ReceiptItems, 2)
	assert.Equal(t, milk, got.ReceiptItems[0].Item)
	assert.Equal(t, created, got.ReceiptItems[0].CreatedAt)
	assert.True(t, got.ReceiptItems[0].Quantity.Equal(decimal.NewFromInt(3)))
	assert.True(t, got.ReceiptItems[1].IsNew())
	assert.Equal(t, "Eggs", got.ReceiptItems[1].Item.Name)

	assert.Len(t, prev.ReceiptItems, 2, "previous receipt is not modified")
	assert.Equal(t, "Aldi", prev.Store)
}

func TestReceiptUpdate_MarshalJSON_Numbers(t *testing.T) {
	category := "GROCERIES"
	data, err := json.Marshal(ReceiptUpdate{
		Store:    "Lidl",
		Date:     NewDate(2025, time.February, 3),
		Category: &category,
		Total:    decimal.RequireFromString("3.10"),
		ReceiptItems: []ReceiptItemUpdate{
			{Item: ItemRef{ID: 7}, Quantity: decimal.NewFromInt(2), UnitPrice: decimal.RequireFromString("1.55"), LineTotal: decimal.RequireFromString("3.1")},
		},
	})
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, 3.1, body["total"])
	assert.Equal(t, 0.0, body["tax"])
	assert.Equal(t, "GROCERIES", body["category"])
	lines, ok := body["receiptItems"].([]any)
	require.True(t, ok)
	require.Len(t, lines, 1)
	line, ok := lines[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 1.55, line["unitPrice"])
	assert.Equal(t, map[string]any{"id": 7.0}, line["item"])
	assert.NotContains(t, line, "id")
}

func TestMarshalJSON_LeavesDecimalDefaults(t *testing.T) {
	_, err := json.Marshal(MonthlyTotal{Month: "2025-03", TotalSpent: decimal.NewFromInt(15)})
	require.NoError(t, err)

	data, err := json.Marshal(decimal.RequireFromString("1.5"))
	require.NoError(t, err)
	assert.Equal(t, `"1.5"`, string(data), "plain decimals keep the library's quoting")
}
