package components

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Veraticus/receipts/internal/listing"
	"github.com/Veraticus/receipts/internal/model"
	"github.com/Veraticus/receipts/internal/tui/themes"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ViewMode selects how receipts are laid out.
type ViewMode int

// View modes.
const (
	ViewCards ViewMode = iota
	ViewTable
)

// ParseViewMode reads "cards" or "table"; anything else means cards.
func ParseViewMode(s string) ViewMode {
	if strings.EqualFold(strings.TrimSpace(s), "table") {
		return ViewTable
	}
	return ViewCards
}

func (v ViewMode) String() string {
	if v == ViewTable {
		return "table"
	}
	return "cards"
}

// ReceiptListModel renders loaded receipts as month-grouped cards or as a table.
type ReceiptListModel struct {
	theme    themes.Theme
	totals   map[string]model.MonthlyTotal
	receipts []model.Receipt
	table    table.Model
	mode     ViewMode
	width    int
	height   int
	cursor   int
	expanded bool
}

// NewReceiptList creates an empty receipt list.
func NewReceiptList(theme themes.Theme, mode ViewMode) ReceiptListModel {
	t := table.New(
		table.WithFocused(false),
		table.WithHeight(20),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.Border).
		BorderBottom(true).
		Bold(true)
	s.Selected = theme.Selected
	t.SetStyles(s)

	m := ReceiptListModel{
		theme:  theme,
		table:  t,
		mode:   mode,
		width:  80,
		height: 20,
	}
	m.updateColumnWidths()
	return m
}

// SetReceipts replaces the rendered receipts. The cursor stays in range.
func (m *ReceiptListModel) SetReceipts(receipts []model.Receipt, totals map[string]model.MonthlyTotal) {
	m.receipts = receipts
	m.totals = totals
	m.cursor = min(m.cursor, max(0, len(receipts)-1))
	m.table.SetRows(m.buildTableRows())
	m.table.SetCursor(m.cursor)
}

// ResetCursor moves back to the first receipt.
func (m *ReceiptListModel) ResetCursor() {
	m.cursor = 0
	m.expanded = false
	m.table.SetCursor(0)
}

// Cursor returns the index of the selected receipt.
func (m ReceiptListModel) Cursor() int {
	return m.cursor
}

// Len returns the number of receipts in the list.
func (m ReceiptListModel) Len() int {
	return len(m.receipts)
}

// Selected returns the receipt under the cursor.
func (m ReceiptListModel) Selected() (model.Receipt, bool) {
	if m.cursor < 0 || m.cursor >= len(m.receipts) {
		return model.Receipt{}, false
	}
	return m.receipts[m.cursor], true
}

// Mode returns the current view mode.
func (m ReceiptListModel) Mode() ViewMode {
	return m.mode
}

// ToggleMode switches between cards and table.
func (m *ReceiptListModel) ToggleMode() {
	if m.mode == ViewCards {
		m.mode = ViewTable
	} else {
		m.mode = ViewCards
	}
}

// Update handles navigation keys.
func (m ReceiptListModel) Update(msg tea.Msg) (ReceiptListModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || len(m.receipts) == 0 {
		return m, nil
	}

	last := len(m.receipts) - 1
	prev := m.cursor
	switch key.String() {
	case "j", "down":
		m.cursor = min(m.cursor+1, last)
	case "k", "up":
		m.cursor = max(m.cursor-1, 0)
	case "pgdown", "ctrl+f":
		m.cursor = min(m.cursor+m.pageStep(), last)
	case "pgup", "ctrl+b":
		m.cursor = max(m.cursor-m.pageStep(), 0)
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		m.cursor = last
	case " ":
		m.expanded = !m.expanded
	}
	if m.cursor != prev {
		m.expanded = false
	}
	m.table.SetCursor(m.cursor)
	return m, nil
}

func (m ReceiptListModel) pageStep() int {
	if m.mode == ViewCards {
		return max(1, m.height/5)
	}
	return max(1, m.height-2)
}

// Resize updates the component size.
func (m *ReceiptListModel) Resize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetHeight(max(3, height))
	m.table.SetWidth(width)
	m.updateColumnWidths()
}

// View renders the list.
func (m ReceiptListModel) View() string {
	if m.mode == ViewTable {
		return m.table.View()
	}
	return m.renderCards()
}

func (m *ReceiptListModel) updateColumnWidths() {
	available := max(60, m.width-8)
	store := max(12, available-10-12-14-6-12)
	m.table.SetColumns([]table.Column{
		{Title: "ID", Width: 6},
		{Title: "Date", Width: 12},
		{Title: "Store", Width: store},
		{Title: "Category", Width: 14},
		{Title: "Items", Width: 6},
		{Title: "Total", Width: 12},
	})
}

func (m ReceiptListModel) buildTableRows() []table.Row {
	rows := make([]table.Row, 0, len(m.receipts))
	for _, r := range m.receipts {
		rows = append(rows, table.Row{
			strconv.FormatInt(r.ID, 10),
			FormatDate(r.Date),
			r.Store,
			categoryLabel(r.CategoryName(), "-"),
			strconv.Itoa(len(r.ReceiptItems)),
			model.FormatCurrency(r.Total),
		})
	}
	return rows
}

// renderCards draws month headers and cards, scrolled so the cursor stays visible.
func (m ReceiptListModel) renderCards() string {
	var (
		lines    []string
		selStart int
		selEnd   int
		index    int
	)

	for _, g := range listing.GroupByMonth(m.receipts, m.totals) {
		lines = append(lines, strings.Split(m.renderMonthHeader(g), "\n")...)
		for _, r := range g.Receipts {
			card := strings.Split(m.renderCard(r, index == m.cursor), "\n")
			if index == m.cursor {
				selStart = len(lines)
				selEnd = len(lines) + len(card) - 1
			}
			lines = append(lines, card...)
			index++
		}
	}

	if len(lines) <= m.height || m.height <= 0 {
		return strings.Join(lines, "\n")
	}

	start := 0
	if selEnd >= m.height {
		start = max(0, selStart-m.height/3)
	}
	start = min(start, len(lines)-m.height)
	return strings.Join(lines[start:start+m.height], "\n")
}

func (m ReceiptListModel) renderMonthHeader(g listing.MonthGroup) string {
	count := fmt.Sprintf("%d receipts", g.ReceiptCount)
	if g.ReceiptCount == 1 {
		count = "1 receipt"
	}
	summary := fmt.Sprintf("%s · %s", model.FormatCurrency(g.TotalSpent), count)
	if !g.FromCache {
		summary += " (loaded)"
	}
	return m.theme.MonthHeader.
		Width(max(20, m.width-2)).
		Render(g.Label() + "  " + m.theme.Faint.Render(summary))
}

func (m ReceiptListModel) renderCard(r model.Receipt, selected bool) string {
	inner := max(20, m.width-6)
	icon := themes.GetCategoryIcon(r.CategoryName())
	total := model.FormatCurrency(r.Total)
	store := truncate(r.Store, inner-len(total)-4)

	head := fmt.Sprintf("%s %s %s",
		icon,
		m.theme.Bold.Render(padRight(store, inner-len(total)-4)),
		m.theme.Money.Render(total))

	meta := []string{FormatDate(r.Date), fmt.Sprintf("%d items", len(r.ReceiptItems))}
	if c := r.CategoryName(); c != "" {
		meta = append(meta, model.FormatCategoryLabel(c))
	}
	if !r.Discount.IsZero() {
		meta = append(meta, "discount "+model.FormatCurrency(r.Discount))
	}
	body := []string{head, m.theme.Faint.Render(strings.Join(meta, " · "))}

	if selected && m.expanded {
		body = append(body, "")
		for _, ri := range r.ReceiptItems {
			body = append(body, fmt.Sprintf("  %s %s × %s = %s",
				padRight(truncate(ri.Item.Name, inner/2), inner/2),
				ri.Quantity.String(),
				model.FormatCurrency(ri.UnitPrice),
				model.FormatCurrency(ri.LineTotal)))
		}
		body = append(body, m.theme.Faint.Render(fmt.Sprintf("  Subtotal %s  Tax %s",
			model.FormatCurrency(r.Subtotal), model.FormatCurrency(r.Tax))))
	}

	style := m.theme.Card
	if selected {
		style = m.theme.CardSelected
	}
	return style.Width(inner + 2).Render(strings.Join(body, "\n"))
}
