package components

import (
	"testing"
	"time"

	"github.com/Veraticus/receipts/internal/model"
	"github.com/Veraticus/receipts/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func listFixture() ([]model.Receipt, map[string]model.MonthlyTotal) {
	receipts := []model.Receipt{
		testReceipt(1, "Costco", model.NewDate(2025, time.March, 20)),
		testReceipt(2, "Safeway", model.NewDate(2025, time.March, 2)),
		testReceipt(3, "Trader Joe's", model.NewDate(2025, time.February, 14)),
	}
	totals := map[string]model.MonthlyTotal{
		"2025-03": {Month: "2025-03", TotalSpent: decimal.RequireFromString("321.50"), ReceiptCount: 9},
	}
	return receipts, totals
}

func TestParseViewMode(t *testing.T) {
	tests := []struct {
		in   string
		want ViewMode
	}{
		{in: "table", want: ViewTable},
		{in: " TABLE ", want: ViewTable},
		{in: "cards", want: ViewCards},
		{in: "", want: ViewCards},
		{in: "grid", want: ViewCards},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseViewMode(tt.in))
		})
	}
	assert.Equal(t, "table", ViewTable.String())
	assert.Equal(t, "cards", ViewCards.String())
}

func TestReceiptListNavigation(t *testing.T) {
	receipts, totals := listFixture()
	m := NewReceiptList(themes.Default, ViewCards)
	m.SetReceipts(receipts, totals)

	steps := []struct {
		key  tea.KeyMsg
		want int
	}{
		{key: runeKey("j"), want: 1},
		{key: runeKey("j"), want: 2},
		{key: runeKey("j"), want: 2},
		{key: runeKey("k"), want: 1},
		{key: runeKey("g"), want: 0},
		{key: runeKey("G"), want: 2},
		{key: tea.KeyMsg{Type: tea.KeyHome}, want: 0},
	}
	for _, step := range steps {
		m, _ = m.Update(step.key)
		assert.Equal(t, step.want, m.Cursor(), "after %q", step.key.String())
	}

	selected, ok := m.Selected()
	assert.True(t, ok)
	assert.Equal(t, int64(1), selected.ID)
}

func TestReceiptListClampsCursorWhenShrunk(t *testing.T) {
	receipts, totals := listFixture()
	m := NewReceiptList(themes.Default, ViewTable)
	m.SetReceipts(receipts, totals)
	m, _ = m.Update(runeKey("G"))

	m.SetReceipts(receipts[:1], totals)
	assert.Equal(t, 0, m.Cursor())

	m.SetReceipts(nil, totals)
	_, ok := m.Selected()
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len())
}

func TestReceiptListToggleMode(t *testing.T) {
	m := NewReceiptList(themes.Default, ViewCards)
	m.ToggleMode()
	assert.Equal(t, ViewTable, m.Mode())
	m.ToggleMode()
	assert.Equal(t, ViewCards, m.Mode())
}

func TestReceiptListCardsShowMonthHeaders(t *testing.T) {
	receipts, totals := listFixture()
	m := NewReceiptList(themes.Default, ViewCards)
	m.Resize(100, 60)
	m.SetReceipts(receipts, totals)

	view := m.View()
	assert.Contains(t, view, "March 2025")
	assert.Contains(t, view, "$321.50 · 9 receipts")
	assert.Contains(t, view, "February 2025")
	assert.Contains(t, view, "(loaded)")
	assert.Contains(t, view, "Costco")
}

func TestReceiptListExpandShowsItems(t *testing.T) {
	receipts, totals := listFixture()
	m := NewReceiptList(themes.Default, ViewCards)
	m.Resize(100, 60)
	m.SetReceipts(receipts, totals)

	assert.NotContains(t, m.View(), "Milk")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace})
	assert.Contains(t, m.View(), "Milk")

	// Moving collapses the expanded card.
	m, _ = m.Update(runeKey("j"))
	assert.NotContains(t, m.View(), "Milk")
}

func TestFilterBarView(t *testing.T) {
	opts := model.FilterOptions{
		Months: []model.MonthOption{{Month: "2025-03", Label: "March 2025"}},
	}

	t.Run("defaults", func(t *testing.T) {
		bar := NewFilterBar(themes.Default, "")
		view := bar.View(model.Filters{}, opts)

		assert.Contains(t, view, "Month: All")
		assert.Contains(t, view, "Category: All")
		assert.NotContains(t, view, "applies once you search")
	})

	t.Run("selections and pending fields", func(t *testing.T) {
		bar := NewFilterBar(themes.Default, "")
		view := bar.View(model.Filters{
			Month:    "2025-03",
			Category: "PERSONAL_CARE",
			Fields:   []model.SearchField{model.SearchFieldStore},
		}, opts)

		assert.Contains(t, view, "March 2025")
		assert.Contains(t, view, "Personal Care")
		assert.Contains(t, view, "[x]")
		assert.Contains(t, view, "applies once you search")
	})

	t.Run("keys only reach a focused search box", func(t *testing.T) {
		bar := NewFilterBar(themes.Default, "")
		bar, _ = bar.Update(runeKey("a"))
		assert.Empty(t, bar.Value())

		bar.Focus()
		bar, _ = bar.Update(runeKey("milk"))
		assert.Equal(t, "milk", bar.Value())
		assert.True(t, bar.Focused())
	})
}
