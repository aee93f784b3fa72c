// Package components contains the widgets of the receipts browser.
package components

import "github.com/Veraticus/receipts/internal/model"

// EditSubmittedMsg carries a validated receipt update out of the edit form.
type EditSubmittedMsg struct {
	Update    model.ReceiptUpdate
	ReceiptID int64
}

// EditCanceledMsg is sent when the edit form is closed without saving.
type EditCanceledMsg struct{}

// ToastExpiredMsg hides the toast with the matching ID.
type ToastExpiredMsg struct {
	ID int
}
