package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemRef points a receipt line at a catalog item. Existing items are sent by ID only;
// new items carry their name, category and storage so the backend can create them.
type ItemRef struct {
	ID       int64  `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	Category string `json:"category,omitempty"`
	Storage  string `json:"storage,omitempty"`
}

// ReceiptItemUpdate is one line in a receipt update. ID is omitted for new lines.
type ReceiptItemUpdate struct {
	Item      ItemRef         `json:"item"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	LineTotal decimal.Decimal `json:"lineTotal"`
	ID        int64           `json:"id,omitempty"`
}

// ReceiptUpdate is the partial update body for PATCH /api/receipts/{id}.
type ReceiptUpdate struct {
	Date         Date                `json:"date"`
	Category     *string             `json:"category"`
	Store        string              `json:"store"`
	Subtotal     decimal.Decimal     `json:"subtotal"`
	Tax          decimal.Decimal     `json:"tax"`
	Discount     decimal.Decimal     `json:"discount"`
	Total        decimal.Decimal     `json:"total"`
	ReceiptItems []ReceiptItemUpdate `json:"receiptItems"`
}

// UploadStatus is the outcome of an upload attempt.
type UploadStatus string

// Upload outcomes.
const (
	UploadSucceeded UploadStatus = "succeeded"
	UploadFailed    UploadStatus = "failed"
	UploadRejected  UploadStatus = "rejected"
)

// UploadRecord is one entry in the local upload journal.
type UploadRecord struct {
	CreatedAt   time.Time
	FileName    string
	ContentType string
	Status      UploadStatus
	Message     string
	ID          int64
	SizeBytes   int64
}

// ApplyTo returns prev with the update's header and lines written over it. Lines
// that keep their ID keep their creation time, and catalog items referenced by ID
// keep the details prev already had for them.
func (u ReceiptUpdate) ApplyTo(prev Receipt) Receipt {
	next := prev
	next.Date = u.Date
	next.Category = u.Category
	next.Store = u.Store
	next.Subtotal = u.Subtotal
	next.Tax = u.Tax
	next.Discount = u.Discount
	next.Total = u.Total

	lines := make(map[int64]ReceiptItem, len(prev.ReceiptItems))
	items := make(map[int64]Item, len(prev.ReceiptItems))
	for _, ri := range prev.ReceiptItems {
		lines[ri.ID] = ri
		items[ri.Item.ID] = ri.Item
	}

	next.ReceiptItems = make([]ReceiptItem, 0, len(u.ReceiptItems))
	for _, line := range u.ReceiptItems {
		ri := ReceiptItem{
			ID:        line.ID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			LineTotal: line.LineTotal,
			Item: Item{
				ID:       line.Item.ID,
				Name:     line.Item.Name,
				Category: line.Item.Category,
				Storage:  line.Item.Storage,
			},
		}
		if old, ok := lines[line.ID]; ok && line.ID != 0 {
			ri.CreatedAt = old.CreatedAt
		}
		if known, ok := items[line.Item.ID]; ok && line.Item.ID != 0 {
			ri.Item = known
		}
		next.ReceiptItems = append(next.ReceiptItems, ri)
	}
	return next
}
