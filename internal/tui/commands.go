package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/receipts/internal/api"
	"github.com/Veraticus/receipts/internal/common"
	"github.com/Veraticus/receipts/internal/filter"
	"github.com/Veraticus/receipts/internal/listing"
	"github.com/Veraticus/receipts/internal/model"
	tea "github.com/charmbracelet/bubbletea"
)

// Notification texts.
const (
	updateSuccessMessage = "Receipt updated successfully!"
	updateFailureMessage = "Failed to update receipt"
	deleteSuccessMessage = "Receipt deleted"
	optionsErrorMessage  = "Failed to load filter options"
)

// fetchPage requests one page of the listing.
func (m Model) fetchPage(req listing.Request) tea.Cmd {
	svc, ctx := m.service, m.ctx
	return func() tea.Msg {
		if svc == nil {
			return pageLoadedMsg{req: req, err: fmt.Errorf("%w: receipts service not configured", common.ErrMissingConfig)}
		}
		page, err := svc.ListReceipts(ctx, req.Filters, req.Page, listing.PageSize)
		return pageLoadedMsg{req: req, page: page, err: err}
	}
}

// loadOptions fetches the values of every filter selector.
func (m Model) loadOptions() tea.Cmd {
	svc, ctx := m.service, m.ctx
	return func() tea.Msg {
		if svc == nil {
			return optionsLoadedMsg{options: &model.FilterOptions{}}
		}
		opts, err := svc.LoadFilterOptions(ctx)
		return optionsLoadedMsg{options: opts, err: err}
	}
}

// scheduleSearch fires a tick for seq once the search box has been quiet for DebounceDelay.
func scheduleSearch(seq uint64) tea.Cmd {
	return tea.Tick(filter.DebounceDelay, func(time.Time) tea.Msg {
		return searchTickMsg{seq: seq}
	})
}

func (m Model) deleteReceipt(id int64) tea.Cmd {
	svc, ctx := m.service, m.ctx
	return func() tea.Msg {
		err := svc.DeleteReceipt(ctx, id)
		return receiptDeletedMsg{id: id, err: err}
	}
}

func (m Model) updateReceipt(id int64, update model.ReceiptUpdate) tea.Cmd {
	svc, ctx := m.service, m.ctx
	return func() tea.Msg {
		updated, err := svc.UpdateReceipt(ctx, id, update)
		return receiptUpdatedMsg{id: id, update: update, receipt: updated, err: err}
	}
}

func (m Model) uploadFile(path string) tea.Cmd {
	uploader, ctx := m.uploader, m.ctx
	return func() tea.Msg {
		f, err := uploader.UploadFile(ctx, path, nil)
		return uploadFinishedMsg{file: f, err: err}
	}
}

// errorText picks the message to show for a failed request.
func errorText(err error, fallback string) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if errors.Is(err, common.ErrMissingConfig) {
		return err.Error()
	}
	return common.UserMessage(err, fallback)
}

// logFailure logs a failed request unless the browser is shutting down.
func logFailure(err error, msg string, fields common.Fields) {
	if errors.Is(err, context.Canceled) {
		return
	}
	common.LogError(err, msg, fields)
}
