package model

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// The backend reads amounts as JSON numbers. Each wire type shadows its decimal
// fields with json.Number instead of flipping decimal.MarshalJSONWithoutQuotes,
// which would change every decimal in the program.

func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

// MarshalJSON writes amounts as numbers.
func (r Receipt) MarshalJSON() ([]byte, error) {
	type plain Receipt
	return json.Marshal(struct {
		plain
		Subtotal json.Number `json:"subtotal"`
		Tax      json.Number `json:"tax"`
		Discount json.Number `json:"discount"`
		Total    json.Number `json:"total"`
	}{plain(r), number(r.Subtotal), number(r.Tax), number(r.Discount), number(r.Total)})
}

// MarshalJSON writes amounts as numbers.
func (ri ReceiptItem) MarshalJSON() ([]byte, error) {
	type plain ReceiptItem
	return json.Marshal(struct {
		plain
		Quantity  json.Number `json:"quantity"`
		UnitPrice json.Number `json:"unitPrice"`
		LineTotal json.Number `json:"lineTotal"`
	}{plain(ri), number(ri.Quantity), number(ri.UnitPrice), number(ri.LineTotal)})
}

// MarshalJSON writes the total as a number.
func (mt MonthlyTotal) MarshalJSON() ([]byte, error) {
	type plain MonthlyTotal
	return json.Marshal(struct {
		plain
		TotalSpent json.Number `json:"totalSpent"`
	}{plain(mt), number(mt.TotalSpent)})
}

// MarshalJSON writes amounts as numbers.
func (u ReceiptUpdate) MarshalJSON() ([]byte, error) {
	type plain ReceiptUpdate
	return json.Marshal(struct {
		plain
		Subtotal json.Number `json:"subtotal"`
		Tax      json.Number `json:"tax"`
		Discount json.Number `json:"discount"`
		Total    json.Number `json:"total"`
	}{plain(u), number(u.Subtotal), number(u.Tax), number(u.Discount), number(u.Total)})
}

// MarshalJSON writes amounts as numbers.
func (l ReceiptItemUpdate) MarshalJSON() ([]byte, error) {
	type plain ReceiptItemUpdate
	return json.Marshal(struct {
		plain
		Quantity  json.Number `json:"quantity"`
		UnitPrice json.Number `json:"unitPrice"`
		LineTotal json.Number `json:"lineTotal"`
	}{plain(l), number(l.Quantity), number(l.UnitPrice), number(l.LineTotal)})
}
