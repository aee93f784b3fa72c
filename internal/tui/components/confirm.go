package components

import (
	"fmt"

	"github.com/Veraticus/receipts/internal/model"
	"github.com/Veraticus/receipts/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ConfirmDeleteModel asks before a receipt is deleted.
type ConfirmDeleteModel struct {
	theme     themes.Theme
	receipt   model.Receipt
	width     int
	complete  bool
	confirmed bool
}

// NewConfirmDelete creates a confirmation dialog for receipt.
func NewConfirmDelete(receipt model.Receipt, theme themes.Theme) ConfirmDeleteModel {
	return ConfirmDeleteModel{
		receipt: receipt,
		theme:   theme,
		width:   50,
	}
}

// Update handles messages.
func (m ConfirmDeleteModel) Update(msg tea.Msg) (ConfirmDeleteModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "y", "Y":
			m.complete = true
			m.confirmed = true
		case "n", "N", "esc", "q":
			m.complete = true
		}
	}
	return m, nil
}

// IsComplete reports whether the user answered.
func (m ConfirmDeleteModel) IsComplete() bool {
	return m.complete
}

// Confirmed reports whether the user agreed to delete.
func (m ConfirmDeleteModel) Confirmed() bool {
	return m.confirmed
}

// Receipt returns the receipt the dialog is about.
func (m ConfirmDeleteModel) Receipt() model.Receipt {
	return m.receipt
}

// View renders the dialog.
func (m ConfirmDeleteModel) View() string {
	r := m.receipt
	body := lipgloss.JoinVertical(
		lipgloss.Left,
		m.theme.StatusWarning.Render("Delete receipt?"),
		"",
		fmt.Sprintf("%s  %s  %s",
			m.theme.Bold.Render(r.Store),
			m.theme.Faint.Render(FormatDate(r.Date)),
			m.theme.Money.Render(model.FormatCurrency(r.Total))),
		m.theme.Faint.Render(fmt.Sprintf("%d items. This cannot be undone.", len(r.ReceiptItems))),
		"",
		m.theme.Normal.Render("[y] Delete  [n] Cancel"),
	)
	return m.theme.RoundedBox.Width(m.width).Render(body)
}
