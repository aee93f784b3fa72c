package components

import (
	"fmt"
	"strings"

	"github.com/Veraticus/receipts/internal/filter"
	"github.com/Veraticus/receipts/internal/model"
	"github.com/Veraticus/receipts/internal/tui/themes"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// FilterBarModel shows the search box and the active filter selections.
type FilterBarModel struct {
	theme  themes.Theme
	search textinput.Model
	width  int
}

// NewFilterBar creates a filter bar with text already in the search box.
func NewFilterBar(theme themes.Theme, search string) FilterBarModel {
	input := textinput.New()
	input.Prompt = "🔍 "
	input.Placeholder = "Search receipts..."
	input.CharLimit = 100
	input.SetValue(search)

	return FilterBarModel{
		theme:  theme,
		search: input,
		width:  80,
	}
}

// Focus starts editing the search text.
func (m *FilterBarModel) Focus() tea.Cmd {
	return m.search.Focus()
}

// Blur stops editing the search text.
func (m *FilterBarModel) Blur() {
	m.search.Blur()
}

// Focused reports whether the search box has focus.
func (m FilterBarModel) Focused() bool {
	return m.search.Focused()
}

// Value returns the search text as typed.
func (m FilterBarModel) Value() string {
	return m.search.Value()
}

// SetValue replaces the search text.
func (m *FilterBarModel) SetValue(s string) {
	m.search.SetValue(s)
}

// Resize sets the available width.
func (m *FilterBarModel) Resize(width int) {
	m.width = width
	m.search.Width = max(10, width/2)
}

// Update forwards keys to the search box while it has focus.
func (m FilterBarModel) Update(msg tea.Msg) (FilterBarModel, tea.Cmd) {
	if !m.search.Focused() {
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

// View renders the search box, the field toggles, and one line of selections.
func (m FilterBarModel) View(f model.Filters, opts model.FilterOptions) string {
	var toggles []string
	for i, field := range model.AllSearchFields {
		mark := "[ ]"
		if f.HasField(field) {
			mark = "[x]"
		}
		toggles = append(toggles, fmt.Sprintf("%d%s%s", i+1, mark, field))
	}
	fields := m.theme.Faint.Render(strings.Join(toggles, " "))
	if strings.TrimSpace(f.Search) == "" && len(f.Fields) > 0 {
		fields += m.theme.StatusPending.Render(" (applies once you search)")
	}

	selections := []string{
		m.selection("Month", monthLabel(opts.Months, f.Month)),
		m.selection("Category", categoryLabel(f.Category, "All")),
		m.selection("Item", categoryLabel(f.ItemCategory, "All")),
		m.selection("Storage", categoryLabel(f.Storage, "All")),
	}
	if f.Store != "" {
		selections = append(selections, m.selection("Store", f.Store))
	}
	if f.HasDateRange() {
		selections = append(selections, m.selection("Dates", f.StartDate+" to "+f.EndDate))
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, m.search.View(), "  ", fields),
		strings.Join(selections, m.theme.Faint.Render(" · ")),
	)
}

func (m FilterBarModel) selection(name, value string) string {
	if value == "All" {
		return m.theme.Faint.Render(name + ": " + value)
	}
	return m.theme.Faint.Render(name+": ") + m.theme.StatusInfo.Render(value)
}

func monthLabel(opts []model.MonthOption, month string) string {
	if month == "" {
		return "All"
	}
	return filter.MonthLabel(opts, month)
}
