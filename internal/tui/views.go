package tui

import (
	"fmt"
	"strings"

	"github.com/Veraticus/receipts/internal/listing"
	"github.com/charmbracelet/lipgloss"
)

// Empty-state texts.
const (
	emptyTitle         = "No receipts found"
	emptyFilteredHint  = "Try adjusting your filters to see more results."
	emptyUnfilteredMsg = "Your receipts will appear here once they are added."
)

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.state {
	case StateHelp:
		return m.renderHelp()
	case StateEdit:
		return m.wrapWithBorder(m.editor.View())
	case StateConfirmDelete:
		return m.renderOverlay(m.confirm.View())
	case StateUpload:
		return m.renderOverlay(m.uploadPrompt.View())
	default:
		return m.wrapWithBorder(m.renderBrowse())
	}
}

func (m Model) renderBrowse() string {
	sections := []string{
		m.renderHeader(),
		m.filterBar.View(m.filters.Filters(), m.options),
	}

	// Earlier pages stay visible under the banner.
	if m.listing.Err != nil {
		sections = append(sections, m.theme.Banner.Render(listing.LoadErrorMessage))
	}

	sections = append(sections, m.renderBody(), m.renderFooter())

	if m.toast.Visible() {
		sections = append(sections, m.toast.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeader renders the title and the receipt counter.
func (m Model) renderHeader() string {
	title := m.theme.Title.Render("🧾 Receipts")

	count := m.showingText()
	gap := max(1, m.width-4-lipgloss.Width(title)-lipgloss.Width(count))
	return title + strings.Repeat(" ", gap) + m.theme.Faint.Render(count)
}

func (m Model) showingText() string {
	n := len(m.listing.Receipts)
	switch {
	case m.listing.TotalElements > n:
		return fmt.Sprintf("Showing %d of %d receipts", n, m.listing.TotalElements)
	case n == 1:
		return "Showing 1 receipt"
	default:
		return fmt.Sprintf("Showing %d receipts", n)
	}
}

func (m Model) renderBody() string {
	height := max(3, m.height-chromeHeight)

	if len(m.listing.Receipts) == 0 {
		var content string
		switch {
		case m.listing.Loading:
			content = m.spinner.View() + " " + m.theme.Faint.Render("Loading receipts...")
		case m.listing.Err != nil:
			content = ""
		default:
			content = m.renderEmpty()
		}
		return lipgloss.Place(m.width-4, height, lipgloss.Center, lipgloss.Center, content)
	}

	return lipgloss.NewStyle().Height(height).MaxHeight(height).Render(m.list.View())
}

// renderEmpty renders the empty state.
func (m Model) renderEmpty() string {
	hint := emptyUnfilteredMsg
	if m.filters.Active() {
		hint = emptyFilteredHint
	}
	return lipgloss.JoinVertical(
		lipgloss.Center,
		m.theme.Bold.Render(emptyTitle),
		m.theme.Faint.Render(hint),
	)
}

func (m Model) renderFooter() string {
	switch {
	case m.listing.LoadingMore:
		return m.spinner.View() + " " + m.theme.Faint.Render("Loading more receipts...")
	case m.listing.Loading && len(m.listing.Receipts) > 0:
		return m.spinner.View() + " " + m.theme.Faint.Render("Refreshing...")
	case !m.listing.HasMore && len(m.listing.Receipts) > 0:
		return m.theme.Faint.Render("All receipts loaded")
	default:
		return ""
	}
}

// helpChrome is the title and footer height around the help viewport.
const helpChrome = 4

// renderHelp renders the scrollable help screen.
func (m Model) renderHelp() string {
	content := lipgloss.JoinVertical(
		lipgloss.Left,
		m.theme.Title.Render("Receipts - Help"),
		"",
		m.helpView.View(),
		m.theme.Faint.Render("↑/↓ scroll · ? or Esc to close help"),
	)
	return m.renderOverlay(content)
}

func (m Model) renderOverlay(content string) string {
	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		content,
	)
}

// wrapWithBorder adds a border and the status bar around content.
func (m Model) wrapWithBorder(content string) string {
	fullContent := lipgloss.JoinVertical(
		lipgloss.Left,
		content,
		m.renderStatusBar(),
	)

	return m.theme.BorderedBox.
		Width(max(20, m.width-2)).
		Render(fullContent)
}

// renderStatusBar renders the bottom status bar.
func (m Model) renderStatusBar() string {
	left := m.state.String() + " · " + m.list.Mode().String()
	if m.uploading {
		left += " · " + m.spinner.View() + " uploading"
	}

	right := m.help.ShortHelpView(m.keymap.ShortHelp())

	totalWidth := m.width - 4
	spacing := max(1, totalWidth-lipgloss.Width(left)-lipgloss.Width(right))

	return m.theme.StatusInfo.Render(left) +
		strings.Repeat(" ", spacing) +
		right
}
