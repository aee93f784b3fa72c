package tui

import (
	"github.com/Veraticus/receipts/internal/listing"
	"github.com/Veraticus/receipts/internal/model"
	"github.com/Veraticus/receipts/internal/upload"
)

// Data loading messages.
type reloadMsg struct{}

type pageLoadedMsg struct {
	err  error
	page *model.Page
	req  listing.Request
}

type optionsLoadedMsg struct {
	err     error
	options *model.FilterOptions
}

// searchTickMsg fires DebounceDelay after a keystroke in the search box.
type searchTickMsg struct {
	seq uint64
}

// Mutation results.
type receiptDeletedMsg struct {
	err error
	id  int64
}

type receiptUpdatedMsg struct {
	err     error
	receipt *model.Receipt
	update  model.ReceiptUpdate
	id      int64
}

type uploadFinishedMsg struct {
	err  error
	file upload.File
}
