package tui

import (
	"context"
	"log/slog"

	"github.com/Veraticus/receipts/internal/common"
	"github.com/Veraticus/receipts/internal/filter"
	"github.com/Veraticus/receipts/internal/listing"
	"github.com/Veraticus/receipts/internal/model"
	"github.com/Veraticus/receipts/internal/service"
	"github.com/Veraticus/receipts/internal/tui/components"
	"github.com/Veraticus/receipts/internal/tui/themes"
	"github.com/Veraticus/receipts/internal/upload"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// State represents the current state of the TUI.
type State int

const (
	StateBrowse State = iota
	StateSearch
	StateEdit
	StateConfirmDelete
	StateUpload
	StateHelp
)

func (s State) String() string {
	switch s {
	case StateSearch:
		return "Search"
	case StateEdit:
		return "Edit"
	case StateConfirmDelete:
		return "Delete"
	case StateUpload:
		return "Upload"
	case StateHelp:
		return "Help"
	default:
		return "Browse"
	}
}

// Load-more starts once the cursor is within this share of the loaded rows from the end.
const (
	loadMoreFraction     = 0.4
	minLoadMoreThreshold = 3
)

// chromeHeight is the number of rows around the receipt list:
// border 2, title 1, filter bar 2, banner 1, footer 1, toast 1, status bar 1.
const chromeHeight = 9

// Model holds the main TUI state. The event loop owns the listing state;
// requests run as commands and report back with messages.
type Model struct {
	ctx          context.Context
	service      service.ReceiptService
	uploader     Uploader
	search       *filter.SearchBuffer
	theme        themes.Theme
	options      model.FilterOptions
	filters      filter.State
	listing      listing.State
	keymap       KeyMap
	help         help.Model
	helpView     viewport.Model
	spinner      spinner.Model
	list         components.ReceiptListModel
	filterBar    components.FilterBarModel
	editor       components.EditFormModel
	confirm      components.ConfirmDeleteModel
	uploadPrompt components.UploadPromptModel
	toast        components.ToastModel
	width        int
	height       int
	state        State
	uploading    bool
	quitting     bool
}

// newModel creates a new model with the given configuration.
func newModel(ctx context.Context, cfg Config) Model {
	buf := filter.NewSearchBuffer(cfg.Filters.Search)

	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(cfg.Theme.Primary)),
	)

	m := Model{
		ctx:       ctx,
		service:   cfg.Service,
		uploader:  cfg.Uploader,
		search:    &buf,
		theme:     cfg.Theme,
		filters:   filter.New(cfg.Filters),
		listing:   listing.NewState(),
		keymap:    DefaultKeyMap(),
		help:      help.New(),
		helpView:  viewport.New(0, 0),
		spinner:   s,
		list:      components.NewReceiptList(cfg.Theme, cfg.View),
		filterBar: components.NewFilterBar(cfg.Theme, cfg.Filters.Search),
		toast:     components.NewToast(cfg.Theme),
		width:     cfg.Width,
		height:    cfg.Height,
		state:     StateBrowse,
	}
	m.handleResize()
	return m
}

// Init starts the first page fetch and loads the filter selectors.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.loadOptions(),
		func() tea.Msg { return reloadMsg{} },
	)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.handleResize()
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keymap.ForceQuit) {
			m.quitting = true
			return m, tea.Quit
		}
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case components.ToastExpiredMsg:
		m.toast, _ = m.toast.Update(msg)
		return m, nil

	case reloadMsg:
		return m, m.reload()

	case pageLoadedMsg:
		return m, m.handlePage(msg)

	case optionsLoadedMsg:
		return m, m.handleOptions(msg)

	case searchTickMsg:
		text, ok := m.search.Settle(msg.seq)
		if !ok {
			return m, nil
		}
		return m, m.applySearch(text)

	case components.EditSubmittedMsg:
		return m, m.updateReceipt(msg.ReceiptID, msg.Update)

	case components.EditCanceledMsg:
		m.state = StateBrowse
		return m, nil

	case receiptUpdatedMsg:
		return m, m.handleUpdated(msg)

	case receiptDeletedMsg:
		return m, m.handleDeleted(msg)

	case uploadFinishedMsg:
		return m, m.handleUploaded(msg)
	}

	// Everything else (cursor blinks and the like) goes to the focused input.
	var cmd tea.Cmd
	switch m.state {
	case StateSearch:
		m.filterBar, cmd = m.filterBar.Update(msg)
	case StateEdit:
		m.editor, cmd = m.editor.Update(msg)
	case StateUpload:
		m.uploadPrompt, cmd = m.uploadPrompt.Update(msg)
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state {
	case StateHelp:
		if key.Matches(msg, m.keymap.Help, m.keymap.Quit) || msg.String() == "esc" {
			m.state = StateBrowse
			return m, nil
		}
		var cmd tea.Cmd
		m.helpView, cmd = m.helpView.Update(msg)
		return m, cmd

	case StateSearch:
		return m.handleSearchKey(msg)

	case StateEdit:
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd

	case StateConfirmDelete:
		m.confirm, _ = m.confirm.Update(msg)
		if !m.confirm.IsComplete() {
			return m, nil
		}
		m.state = StateBrowse
		if !m.confirm.Confirmed() {
			return m, nil
		}
		return m, m.deleteReceipt(m.confirm.Receipt().ID)

	case StateUpload:
		var cmd tea.Cmd
		m.uploadPrompt, cmd = m.uploadPrompt.Update(msg)
		if !m.uploadPrompt.IsComplete() {
			return m, cmd
		}
		m.state = StateBrowse
		if m.uploadPrompt.Canceled() {
			return m, nil
		}
		m.uploading = true
		return m, m.uploadFile(m.uploadPrompt.Path())

	default:
		return m.handleBrowseKey(msg)
	}
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.filterBar.Blur()
		m.state = StateBrowse
		text, ok := m.search.Flush()
		if !ok {
			return m, nil
		}
		return m, m.applySearch(text)
	case "esc":
		// A pending tick still settles the typed text.
		m.filterBar.Blur()
		m.state = StateBrowse
		return m, nil
	}

	before := m.filterBar.Value()
	var cmd tea.Cmd
	m.filterBar, cmd = m.filterBar.Update(msg)
	if value := m.filterBar.Value(); value != before {
		return m, tea.Batch(cmd, scheduleSearch(m.search.Type(value)))
	}
	return m, cmd
}

func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	km := m.keymap
	current := m.filters.Filters()
	months := filter.MonthKeys(m.options.Months)

	switch {
	case key.Matches(msg, km.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, km.Help):
		m.state = StateHelp
		full := m.help
		full.ShowAll = true
		m.helpView.SetContent(full.View(m.keymap))
		m.helpView.GotoTop()

	case key.Matches(msg, km.Search):
		m.state = StateSearch
		return m, m.filterBar.Focus()

	case key.Matches(msg, km.NextMonth):
		return m, m.setFilter(m.filters.SetMonth(filter.Cycle(months, current.Month, 1)))
	case key.Matches(msg, km.PrevMonth):
		return m, m.setFilter(m.filters.SetMonth(filter.Cycle(months, current.Month, -1)))
	case key.Matches(msg, km.NextCategory):
		return m, m.setFilter(m.filters.SetCategory(filter.Cycle(m.options.Categories, current.Category, 1)))
	case key.Matches(msg, km.PrevCategory):
		return m, m.setFilter(m.filters.SetCategory(filter.Cycle(m.options.Categories, current.Category, -1)))
	case key.Matches(msg, km.NextItemCat):
		return m, m.setFilter(m.filters.SetItemCategory(filter.Cycle(m.options.ItemCategories, current.ItemCategory, 1)))
	case key.Matches(msg, km.PrevItemCat):
		return m, m.setFilter(m.filters.SetItemCategory(filter.Cycle(m.options.ItemCategories, current.ItemCategory, -1)))
	case key.Matches(msg, km.NextStorage):
		return m, m.setFilter(m.filters.SetStorage(filter.Cycle(m.options.StorageTypes, current.Storage, 1)))
	case key.Matches(msg, km.PrevStorage):
		return m, m.setFilter(m.filters.SetStorage(filter.Cycle(m.options.StorageTypes, current.Storage, -1)))

	case key.Matches(msg, km.ToggleStore):
		return m, m.setFilter(m.filters.ToggleField(model.SearchFieldStore))
	case key.Matches(msg, km.ToggleItem):
		return m, m.setFilter(m.filters.ToggleField(model.SearchFieldItem))
	case key.Matches(msg, km.ToggleCategory):
		return m, m.setFilter(m.filters.ToggleField(model.SearchFieldCategory))

	case key.Matches(msg, km.ClearFilters):
		m.search.Reset("")
		m.filterBar.SetValue("")
		return m, m.setFilter(m.filters.Clear())

	case key.Matches(msg, km.ToggleView):
		m.list.ToggleMode()

	case key.Matches(msg, km.Refresh):
		return m, m.reload()

	case key.Matches(msg, km.Edit):
		r, ok := m.list.Selected()
		if !ok {
			return m, nil
		}
		m.editor = components.NewEditForm(r, m.options.Categories, m.theme)
		m.editor.Resize(m.width-4, m.height-4)
		m.state = StateEdit

	case key.Matches(msg, km.Delete):
		r, ok := m.list.Selected()
		if !ok {
			return m, nil
		}
		m.confirm = components.NewConfirmDelete(r, m.theme)
		m.state = StateConfirmDelete

	case key.Matches(msg, km.Upload):
		if m.uploader == nil {
			return m, m.toast.Show("Uploads are not configured", components.SeverityError)
		}
		if m.uploading {
			return m, m.toast.Show("An upload is already in progress", components.SeverityInfo)
		}
		m.uploadPrompt = components.NewUploadPrompt(m.theme)
		m.state = StateUpload

	default:
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, tea.Batch(cmd, m.maybeLoadMore())
	}

	return m, nil
}

// setFilter stores the next filter state and reloads when the query changed.
func (m *Model) setFilter(next filter.State, fetch bool) tea.Cmd {
	m.filters = next
	if !fetch {
		return nil
	}
	return m.reload()
}

func (m *Model) applySearch(text string) tea.Cmd {
	return m.setFilter(m.filters.SetSearch(text))
}

// reload starts a new generation at page 0 for the current filters.
func (m *Model) reload() tea.Cmd {
	next, req, ok := m.listing.Begin(filter.Effective(m.filters.Filters()), true)
	m.listing = next
	if !ok {
		return nil
	}
	return m.fetchPage(req)
}

// maybeLoadMore fetches the next page when the cursor nears the end of what is loaded.
func (m *Model) maybeLoadMore() tea.Cmd {
	loaded := len(m.listing.Receipts)
	if !listing.NearEnd(m.list.Cursor(), loaded, loadMoreThreshold(loaded)) {
		return nil
	}
	next, req, ok := m.listing.Begin(m.listing.Filters, false)
	if !ok {
		return nil
	}
	m.listing = next
	return m.fetchPage(req)
}

func loadMoreThreshold(loaded int) int {
	return max(minLoadMoreThreshold, int(float64(loaded)*loadMoreFraction))
}

func (m *Model) handlePage(msg pageLoadedMsg) tea.Cmd {
	if msg.err != nil {
		next, applied := m.listing.Fail(msg.req, msg.err)
		m.listing = next
		if applied {
			logFailure(msg.err, "Failed to load receipts", common.Fields{"page": msg.req.Page})
		}
		return nil
	}

	next, applied := m.listing.Apply(msg.req, msg.page)
	m.listing = next
	if !applied {
		slog.Debug("Dropped stale receipts page",
			"generation", msg.req.Generation,
			"current", m.listing.Generation)
		return nil
	}

	m.syncList()
	if msg.req.Reset {
		m.list.ResetCursor()
	}
	return m.maybeLoadMore()
}

func (m *Model) handleOptions(msg optionsLoadedMsg) tea.Cmd {
	if msg.err != nil {
		logFailure(msg.err, "Failed to load filter options", nil)
		return m.toast.Show(optionsErrorMessage, components.SeverityError)
	}
	if msg.options != nil {
		m.options = *msg.options
	}
	return nil
}

func (m *Model) handleUpdated(msg receiptUpdatedMsg) tea.Cmd {
	if msg.err != nil {
		logFailure(msg.err, "Failed to update receipt", nil)
		text := errorText(msg.err, updateFailureMessage)
		m.editor.SetSaving(false)
		m.editor.SetError(text)
		return m.toast.Show(text, components.SeverityError)
	}

	m.state = StateBrowse
	updated := msg.receipt
	if updated == nil {
		// Nothing echoed back: rebuild the saved receipt from what was sent.
		if prev, ok := m.listing.Find(msg.id); ok {
			applied := msg.update.ApplyTo(prev)
			updated = &applied
		}
	}
	if updated != nil {
		if next, ok := m.listing.Replace(*updated); ok {
			m.listing = next
			m.syncList()
		}
	}
	return m.toast.Show(updateSuccessMessage, components.SeveritySuccess)
}

// handleDeleted applies a delete only after the server confirmed it.
func (m *Model) handleDeleted(msg receiptDeletedMsg) tea.Cmd {
	if msg.err != nil {
		logFailure(msg.err, "Failed to delete receipt", common.Fields{"receipt_id": msg.id})
		return m.toast.Show(listing.DeleteErrorMessage, components.SeverityError)
	}

	if next, ok := m.listing.Remove(msg.id); ok {
		m.listing = next
		m.syncList()
	}
	return m.toast.Show(deleteSuccessMessage, components.SeveritySuccess)
}

func (m *Model) handleUploaded(msg uploadFinishedMsg) tea.Cmd {
	m.uploading = false
	if msg.err != nil {
		logFailure(msg.err, "Failed to upload receipt", common.Fields{"file": msg.file.Name})
		return m.toast.Show(errorText(msg.err, upload.FailureMessage), components.SeverityError)
	}
	return m.toast.Show(upload.SuccessMessage, components.SeveritySuccess)
}

func (m *Model) syncList() {
	m.list.SetReceipts(m.listing.Receipts, m.listing.MonthlyTotals)
}

// handleResize adjusts component sizes when terminal resizes.
func (m *Model) handleResize() {
	inner := max(20, m.width-4)
	m.filterBar.Resize(inner)
	m.list.Resize(inner, max(3, m.height-chromeHeight))
	m.editor.Resize(inner, max(10, m.height-4))
	m.help.Width = inner
	m.helpView.Width = inner
	m.helpView.Height = max(3, m.height-helpChrome)
}
