package tui

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/receipts/internal/listing"
	"github.com/Veraticus/receipts/internal/model"
	"github.com/Veraticus/receipts/internal/upload"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listCall struct {
	filters model.Filters
	page    int
}

type fakeService struct {
	pages     map[int]*model.Page
	listErr   error
	deleteErr error
	updateErr error
	calls     []listCall
	deleted   []int64
	mu        sync.Mutex
}

func (f *fakeService) ListReceipts(_ context.Context, filters model.Filters, page, _ int) (*model.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, listCall{filters: filters, page: page})
	if f.listErr != nil {
		return nil, f.listErr
	}
	if p, ok := f.pages[page]; ok {
		return p, nil
	}
	return &model.Page{Page: page}, nil
}

func (f *fakeService) AvailableMonths(context.Context) ([]model.MonthOption, error) {
	return []model.MonthOption{{Month: "2025-03", Label: "March 2025"}}, nil
}

func (f *fakeService) ReceiptCategories(context.Context) ([]string, error) {
	return []string{"GROCERIES", "HOUSEHOLD"}, nil
}

func (f *fakeService) ItemCategories(context.Context) ([]string, error) {
	return []string{"DAIRY", "PRODUCE"}, nil
}

func (f *fakeService) StorageTypes(context.Context) ([]string, error) {
	return []string{"FRIDGE", "PANTRY"}, nil
}

func (f *fakeService) LoadFilterOptions(ctx context.Context) (*model.FilterOptions, error) {
	months, _ := f.AvailableMonths(ctx)
	categories, _ := f.ReceiptCategories(ctx)
	items, _ := f.ItemCategories(ctx)
	storage, _ := f.StorageTypes(ctx)
	return &model.FilterOptions{
		Months:         months,
		Categories:     categories,
		ItemCategories: items,
		StorageTypes:   storage,
	}, nil
}

func (f *fakeService) UpdateReceipt(_ context.Context, id int64, update model.ReceiptUpdate) (*model.Receipt, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &model.Receipt{ID: id, Store: update.Store, Date: update.Date, Total: update.Total}, nil
}

func (f *fakeService) DeleteReceipt(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeService) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeUploader struct {
	err  error
	path string
}

func (u *fakeUploader) UploadFile(_ context.Context, path string, _ upload.ReaderWrapper) (upload.File, error) {
	u.path = path
	return upload.File{Path: path, Name: path}, u.err
}

func makeReceipts(n int) []model.Receipt {
	receipts := make([]model.Receipt, n)
	for i := range receipts {
		receipts[i] = model.Receipt{
			ID:    int64(i + 1),
			Store: fmt.Sprintf("Store %d", i+1),
			Date:  model.NewDate(2025, time.March, 28-i%28),
			Total: decimal.NewFromInt(int64(10 + i)),
		}
	}
	return receipts
}

func newTestModel(t *testing.T, svc *fakeService, opts ...Option) Model {
	t.Helper()
	cfg := defaultConfig()
	cfg.Service = svc
	for _, opt := range opts {
		opt(&cfg)
	}
	return newModel(context.Background(), cfg)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// pageFrom runs cmd and returns the page fetch it carries, looking inside batches.
func pageFrom(t *testing.T, cmd tea.Cmd) pageLoadedMsg {
	t.Helper()
	require.NotNil(t, cmd)
	switch msg := cmd().(type) {
	case pageLoadedMsg:
		return msg
	case tea.BatchMsg:
		for _, c := range msg {
			if c == nil {
				continue
			}
			if page, ok := c().(pageLoadedMsg); ok {
				return page
			}
		}
	}
	t.Fatal("command does not fetch a page")
	return pageLoadedMsg{}
}

// loaded runs the initial reload and applies the first page.
func loaded(t *testing.T, m Model) Model {
	t.Helper()
	m, cmd := update(t, m, reloadMsg{})
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	return m
}

func TestReloadIssuesOneFirstPageRequest(t *testing.T) {
	svc := &fakeService{pages: map[int]*model.Page{
		0: {Receipts: makeReceipts(3), TotalElements: 3},
	}}
	m := newTestModel(t, svc)

	m, cmd := update(t, m, reloadMsg{})
	require.NotNil(t, cmd)
	assert.True(t, m.listing.Loading)

	msg, ok := cmd().(pageLoadedMsg)
	require.True(t, ok)
	assert.Equal(t, 0, msg.req.Page)
	assert.True(t, msg.req.Reset)
	assert.Equal(t, 1, svc.callCount())

	m, _ = update(t, m, msg)
	assert.False(t, m.listing.Loading)
	assert.Len(t, m.listing.Receipts, 3)
	assert.Equal(t, 3, m.list.Len())
}

func TestStalePageIsDropped(t *testing.T) {
	svc := &fakeService{pages: map[int]*model.Page{
		0: {Receipts: makeReceipts(2), TotalElements: 2},
	}}
	m := newTestModel(t, svc)

	m, first := update(t, m, reloadMsg{})
	m, second := update(t, m, reloadMsg{})
	require.NotNil(t, first)
	require.NotNil(t, second)

	stale := first().(pageLoadedMsg)
	stale.page = &model.Page{Receipts: makeReceipts(5), TotalElements: 5}
	m, _ = update(t, m, stale)
	assert.Empty(t, m.listing.Receipts)
	assert.True(t, m.listing.Loading)

	m, _ = update(t, m, second())
	assert.Len(t, m.listing.Receipts, 2)
}

func TestFilterChangeReloadsWithEffectiveFilters(t *testing.T) {
	svc := &fakeService{}
	m := loaded(t, newTestModel(t, svc))
	m, _ = update(t, m, optionsLoadedMsg{options: &model.FilterOptions{Categories: []string{"GROCERIES"}}})

	m, cmd := update(t, m, keyPress("c"))
	require.NotNil(t, cmd)
	msg := cmd().(pageLoadedMsg)
	assert.Equal(t, "GROCERIES", msg.req.Filters.Category)
	assert.True(t, msg.req.Reset)

	// Toggling a search field without search text does not change the query.
	_, cmd = update(t, m, keyPress("1"))
	assert.Nil(t, cmd)
	assert.Equal(t, 2, svc.callCount())
}

func TestSearchIsDebounced(t *testing.T) {
	svc := &fakeService{}
	m := loaded(t, newTestModel(t, svc))

	m, _ = update(t, m, keyPress("/"))
	require.Equal(t, StateSearch, m.state)

	m, _ = update(t, m, keyPress("m"))
	m, _ = update(t, m, keyPress("i"))
	assert.Equal(t, "mi", m.filterBar.Value())
	assert.Empty(t, m.filters.Filters().Search)

	// The first keystroke's timer is superseded.
	m, cmd := update(t, m, searchTickMsg{seq: 1})
	assert.Nil(t, cmd)
	assert.Empty(t, m.filters.Filters().Search)

	m, cmd = update(t, m, searchTickMsg{seq: 2})
	require.NotNil(t, cmd)
	assert.Equal(t, "mi", m.filters.Filters().Search)

	msg := cmd().(pageLoadedMsg)
	assert.Equal(t, "mi", msg.req.Filters.Search)
}

func TestSearchEnterFlushesImmediately(t *testing.T) {
	svc := &fakeService{}
	m := loaded(t, newTestModel(t, svc))

	m, _ = update(t, m, keyPress("/"))
	m, _ = update(t, m, keyPress("eggs"))
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, StateBrowse, m.state)
	assert.Equal(t, "eggs", m.filters.Filters().Search)

	// The pending timer for the same text no longer fires a fetch.
	_, cmd = update(t, m, searchTickMsg{seq: 1})
	assert.Nil(t, cmd)
}

func TestLoadMoreNearEnd(t *testing.T) {
	svc := &fakeService{pages: map[int]*model.Page{
		0: {Receipts: makeReceipts(20), TotalElements: 25, HasNext: true},
		1: {Page: 1, Receipts: makeReceipts(25)[20:], TotalElements: 25},
	}}
	m := loaded(t, newTestModel(t, svc))
	assert.False(t, m.listing.LoadingMore, "cursor at the top must not page")
	assert.Equal(t, 1, svc.callCount())

	m, cmd := update(t, m, keyPress("G"))
	require.NotNil(t, cmd)
	assert.True(t, m.listing.LoadingMore)

	// A second keystroke while the page is in flight does not request it again.
	m, _ = update(t, m, keyPress("k"))
	assert.True(t, m.listing.LoadingMore)
	assert.Equal(t, 0, m.listing.Page)

	m, _ = update(t, m, pageFrom(t, cmd))
	assert.Len(t, m.listing.Receipts, 25)
	assert.False(t, m.listing.HasMore)
	assert.Contains(t, m.View(), "All receipts loaded")
	assert.Equal(t, 2, svc.callCount())
}

func TestLoadMoreThreshold(t *testing.T) {
	tests := []struct {
		loaded int
		want   int
	}{
		{loaded: 0, want: 3},
		{loaded: 5, want: 3},
		{loaded: 20, want: 8},
		{loaded: 100, want: 40},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, loadMoreThreshold(tt.loaded), "loaded=%d", tt.loaded)
	}
}

func TestDeleteAppliesOnlyAfterSuccess(t *testing.T) {
	tests := []struct {
		deleteErr error
		name      string
		wantToast string
		wantLen   int
	}{
		{name: "success", wantLen: 2, wantToast: deleteSuccessMessage},
		{name: "failure", deleteErr: errors.New("boom"), wantLen: 3, wantToast: listing.DeleteErrorMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{
				deleteErr: tt.deleteErr,
				pages:     map[int]*model.Page{0: {Receipts: makeReceipts(3), TotalElements: 3}},
			}
			m := loaded(t, newTestModel(t, svc))

			m, _ = update(t, m, keyPress("d"))
			require.Equal(t, StateConfirmDelete, m.state)

			m, cmd := update(t, m, keyPress("y"))
			require.NotNil(t, cmd)
			assert.Equal(t, StateBrowse, m.state)
			assert.Len(t, m.listing.Receipts, 3, "nothing is removed before the server answers")

			m, _ = update(t, m, cmd())
			assert.Len(t, m.listing.Receipts, tt.wantLen)
			assert.Equal(t, tt.wantToast, m.toast.Message())
		})
	}
}

func TestDeleteCanceled(t *testing.T) {
	svc := &fakeService{pages: map[int]*model.Page{0: {Receipts: makeReceipts(1), TotalElements: 1}}}
	m := loaded(t, newTestModel(t, svc))

	m, _ = update(t, m, keyPress("d"))
	m, cmd := update(t, m, keyPress("n"))
	assert.Nil(t, cmd)
	assert.Equal(t, StateBrowse, m.state)
	assert.Empty(t, svc.deleted)
}

func TestUpdateReplacesReceipt(t *testing.T) {
	newModelWithTotals := func(t *testing.T) Model {
		t.Helper()
		svc := &fakeService{pages: map[int]*model.Page{0: {
			Receipts:      makeReceipts(2),
			MonthlyTotals: []model.MonthlyTotal{{Month: "2025-03", TotalSpent: decimal.NewFromInt(21), ReceiptCount: 2}},
			TotalElements: 2,
		}}}
		m := loaded(t, newTestModel(t, svc))
		m, _ = update(t, m, keyPress("e"))
		require.Equal(t, StateEdit, m.state)
		return m
	}

	t.Run("server echoes receipt", func(t *testing.T) {
		m := newModelWithTotals(t)

		updated := model.Receipt{ID: 1, Store: "Renamed", Date: model.NewDate(2025, time.March, 28), Total: decimal.NewFromInt(10)}
		m, _ = update(t, m, receiptUpdatedMsg{id: 1, receipt: &updated})

		assert.Equal(t, StateBrowse, m.state)
		assert.Equal(t, "Renamed", m.listing.Receipts[0].Store)
		assert.Equal(t, updateSuccessMessage, m.toast.Message())
	})

	t.Run("empty response applies the submitted update", func(t *testing.T) {
		m := newModelWithTotals(t)

		m, _ = update(t, m, receiptUpdatedMsg{id: 1, update: model.ReceiptUpdate{
			Store: "Renamed",
			Date:  model.NewDate(2025, time.March, 28),
			Total: decimal.NewFromInt(12),
		}})

		assert.Equal(t, StateBrowse, m.state)
		got := m.listing.Receipts[0]
		assert.Equal(t, int64(1), got.ID)
		assert.Equal(t, "Renamed", got.Store)
		assert.Equal(t, "2025-03-28", got.Date.String())

		mt := m.listing.MonthlyTotals["2025-03"]
		assert.Equal(t, 2, mt.ReceiptCount)
		assert.True(t, mt.TotalSpent.Equal(decimal.NewFromInt(23)), "total moves by the difference, got %s", mt.TotalSpent)
	})
}

func TestUpdateFailureKeepsEditor(t *testing.T) {
	svc := &fakeService{pages: map[int]*model.Page{0: {Receipts: makeReceipts(1), TotalElements: 1}}}
	m := loaded(t, newTestModel(t, svc))

	m, _ = update(t, m, keyPress("e"))
	m, _ = update(t, m, receiptUpdatedMsg{err: errors.New("boom")})
	assert.Equal(t, StateEdit, m.state)
	assert.Equal(t, updateFailureMessage, m.editor.Err())
	assert.False(t, m.editor.Saving())
}

func TestEmptyState(t *testing.T) {
	t.Run("no filters", func(t *testing.T) {
		m := loaded(t, newTestModel(t, &fakeService{}))
		view := m.View()
		assert.Contains(t, view, emptyTitle)
		assert.Contains(t, view, emptyUnfilteredMsg)
	})

	t.Run("with filters", func(t *testing.T) {
		m := loaded(t, newTestModel(t, &fakeService{}, WithFilters(model.Filters{Category: "GROCERIES"})))
		view := m.View()
		assert.Contains(t, view, emptyTitle)
		assert.Contains(t, view, emptyFilteredHint)
	})
}

func TestLoadErrorShowsBanner(t *testing.T) {
	svc := &fakeService{listErr: errors.New("connection refused")}
	m := loaded(t, newTestModel(t, svc))

	require.Error(t, m.listing.Err)
	assert.Contains(t, m.View(), listing.LoadErrorMessage)
}

func TestUploadFlow(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		m := newTestModel(t, &fakeService{})
		m, _ = update(t, m, keyPress("u"))
		assert.Equal(t, StateBrowse, m.state)
		assert.Equal(t, "Uploads are not configured", m.toast.Message())
	})

	t.Run("success", func(t *testing.T) {
		uploader := &fakeUploader{}
		m := newTestModel(t, &fakeService{}, WithUploader(uploader))

		m, _ = update(t, m, keyPress("u"))
		require.Equal(t, StateUpload, m.state)
		m, _ = update(t, m, keyPress("receipt.jpg"))
		m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
		require.NotNil(t, cmd)
		assert.True(t, m.uploading)

		m, _ = update(t, m, cmd())
		assert.False(t, m.uploading)
		assert.Equal(t, "receipt.jpg", uploader.path)
		assert.Equal(t, upload.SuccessMessage, m.toast.Message())
	})

	t.Run("failure", func(t *testing.T) {
		m := newTestModel(t, &fakeService{}, WithUploader(&fakeUploader{}))
		m, _ = update(t, m, uploadFinishedMsg{err: errors.New("timeout")})
		assert.Equal(t, upload.FailureMessage, m.toast.Message())
	})
}

func TestRunRequiresService(t *testing.T) {
	err := Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "receipts service is required")
}

func TestHelpScreen(t *testing.T) {
	m := loaded(t, newTestModel(t, &fakeService{}))

	m, _ = update(t, m, keyPress("?"))
	require.Equal(t, StateHelp, m.state)
	assert.Contains(t, m.View(), "Receipts - Help")
	assert.Contains(t, m.helpView.View(), "help")

	m, _ = update(t, m, keyPress("j"))
	assert.Equal(t, StateHelp, m.state)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, StateBrowse, m.state)
}
