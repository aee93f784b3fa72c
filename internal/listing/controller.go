package listing

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Veraticus/receipts/internal/common"
	"github.com/Veraticus/receipts/internal/model"
	"github.com/Veraticus/receipts/internal/service"
)

// User-facing messages for listing failures.
const (
	LoadErrorMessage   = "Failed to load receipts. Please try again later."
	DeleteErrorMessage = "Failed to delete receipt. Please try again."
)

// Backend is what the controller needs from the receipts service.
type Backend interface {
	service.ReceiptLister
	DeleteReceipt(ctx context.Context, id int64) error
}

// Controller owns a listing State and serializes access to it.
// At most one page fetch is outstanding per filter session.
type Controller struct {
	backend Backend
	state   State
	mu      sync.Mutex
}

// NewController creates a controller with an empty listing.
func NewController(backend Backend) *Controller {
	return &Controller{
		backend: backend,
		state:   NewState(),
	}
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Load fetches page 0 for filters when reset is set, otherwise the next page.
// It reports whether a request was issued; a skipped load-more is not an error.
func (c *Controller) Load(ctx context.Context, filters model.Filters, reset bool) (bool, error) {
	c.mu.Lock()
	next, req, ok := c.state.Begin(filters, reset)
	if !ok {
		c.mu.Unlock()
		return false, nil
	}
	c.state = next
	c.mu.Unlock()

	slog.Debug("Loading receipts page",
		"page", req.Page,
		"generation", req.Generation,
		"reset", req.Reset)

	page, err := c.backend.ListReceipts(ctx, req.Filters, req.Page, PageSize)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		var failed bool
		c.state, failed = c.state.Fail(req, err)
		if !failed {
			slog.Debug("Dropped stale receipts error", "generation", req.Generation, "current", c.state.Generation, "error", err)
			return true, nil
		}
		return true, common.NewUserError(LoadErrorMessage, err)
	}

	var applied bool
	c.state, applied = c.state.Apply(req, page)
	if !applied {
		slog.Debug("Dropped stale receipts page", "generation", req.Generation, "current", c.state.Generation)
	}
	return true, nil
}

// LoadAll pages through every receipt matching filters. onPage, when set, is
// called with the state after each page.
func (c *Controller) LoadAll(ctx context.Context, filters model.Filters, onPage func(State)) (State, error) {
	reset := true
	for {
		before := len(c.Snapshot().Receipts)
		issued, err := c.Load(ctx, filters, reset)
		if err != nil {
			return c.Snapshot(), err
		}

		snap := c.Snapshot()
		if issued && onPage != nil {
			onPage(snap)
		}
		if !issued || !snap.HasMore {
			return snap, nil
		}
		if !reset && len(snap.Receipts) == before {
			return snap, fmt.Errorf("server reported more pages but page %d was empty", snap.Page)
		}
		reset = false

		if err := ctx.Err(); err != nil {
			return snap, err
		}
	}
}

// Delete removes a receipt on the server and then from the listing.
// On failure the listing is left unchanged.
func (c *Controller) Delete(ctx context.Context, id int64) error {
	if err := c.backend.DeleteReceipt(ctx, id); err != nil {
		return common.NewUserError(DeleteErrorMessage, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state, _ = c.state.Remove(id)
	return nil
}
