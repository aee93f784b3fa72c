package components

import (
	"testing"
	"time"

	"github.com/Veraticus/receipts/internal/model"
	"github.com/Veraticus/receipts/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testReceipt(id int64, store string, date model.Date) model.Receipt {
	return model.Receipt{
		ID:       id,
		Store:    store,
		Date:     date,
		Subtotal: decimal.RequireFromString("10.00"),
		Total:    decimal.RequireFromString("10.80"),
		Tax:      decimal.RequireFromString("0.80"),
		ReceiptItems: []model.ReceiptItem{
			{
				ID:        id*10 + 1,
				Item:      model.Item{ID: 7, Name: "Milk", Category: "DAIRY", Storage: "FRIDGE"},
				Quantity:  decimal.NewFromInt(2),
				UnitPrice: decimal.RequireFromString("5.00"),
				LineTotal: decimal.RequireFromString("10.00"),
			},
		},
	}
}

func TestToastOnlyNewestTimerHides(t *testing.T) {
	toast := NewToast(themes.Default)

	cmd := toast.Show("first", SeveritySuccess)
	require.NotNil(t, cmd)
	toast.Show("second", SeverityError)

	assert.True(t, toast.Visible())
	assert.Equal(t, "second", toast.Message())

	toast, _ = toast.Update(ToastExpiredMsg{ID: 1})
	assert.True(t, toast.Visible(), "an older timer must not hide a newer toast")

	toast, _ = toast.Update(ToastExpiredMsg{ID: 2})
	assert.False(t, toast.Visible())
	assert.Empty(t, toast.View())
}

func TestToastView(t *testing.T) {
	tests := []struct {
		name     string
		severity Severity
		want     string
	}{
		{name: "success", severity: SeveritySuccess, want: "✓ saved"},
		{name: "error", severity: SeverityError, want: "✗ saved"},
		{name: "info", severity: SeverityInfo, want: "saved"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toast := NewToast(themes.Default)
			toast.Show("saved", tt.severity)
			assert.Contains(t, toast.View(), tt.want)
		})
	}
}

func TestConfirmDelete(t *testing.T) {
	tests := []struct {
		name          string
		key           tea.KeyMsg
		wantComplete  bool
		wantConfirmed bool
	}{
		{name: "y confirms", key: runeKey("y"), wantComplete: true, wantConfirmed: true},
		{name: "Y confirms", key: runeKey("Y"), wantComplete: true, wantConfirmed: true},
		{name: "n cancels", key: runeKey("n"), wantComplete: true},
		{name: "esc cancels", key: tea.KeyMsg{Type: tea.KeyEsc}, wantComplete: true},
		{name: "other keys are ignored", key: runeKey("x")},
	}

	r := testReceipt(4, "Costco", model.NewDate(2025, time.March, 5))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewConfirmDelete(r, themes.Default)
			m, _ = m.Update(tt.key)

			assert.Equal(t, tt.wantComplete, m.IsComplete())
			assert.Equal(t, tt.wantConfirmed, m.Confirmed())
			assert.Equal(t, int64(4), m.Receipt().ID)
		})
	}
}

func TestConfirmDeleteView(t *testing.T) {
	r := testReceipt(4, "Costco", model.NewDate(2025, time.March, 5))
	view := NewConfirmDelete(r, themes.Default).View()

	assert.Contains(t, view, "Delete receipt?")
	assert.Contains(t, view, "Costco")
	assert.Contains(t, view, "Mar 5, 2025")
}

func TestUploadPrompt(t *testing.T) {
	t.Run("empty path is rejected", func(t *testing.T) {
		m := NewUploadPrompt(themes.Default)
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

		assert.False(t, m.IsComplete())
		assert.Contains(t, m.View(), "Enter the path of a receipt image")
	})

	t.Run("typed path is submitted trimmed", func(t *testing.T) {
		m := NewUploadPrompt(themes.Default)
		m, _ = m.Update(runeKey(" receipt.jpg "))
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

		assert.True(t, m.IsComplete())
		assert.False(t, m.Canceled())
		assert.Equal(t, "receipt.jpg", m.Path())
	})

	t.Run("esc cancels", func(t *testing.T) {
		m := NewUploadPrompt(themes.Default)
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})

		assert.True(t, m.IsComplete())
		assert.True(t, m.Canceled())
	})
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "No date", FormatDate(model.Date{}))
	assert.Equal(t, "Jan 5, 2025", FormatDate(model.NewDate(2025, time.January, 5)))
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{name: "short", in: "Costco", max: 10, want: "Costco"},
		{name: "long", in: "Trader Joe's", max: 8, want: "Trade..."},
		{name: "multibyte", in: "Café Crème", max: 6, want: "Caf..."},
		{name: "tiny", in: "Costco", max: 2, want: "Co"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, truncate(tt.in, tt.max))
		})
	}
}
