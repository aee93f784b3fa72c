package components

import (
	"strings"

	"github.com/Veraticus/receipts/internal/tui/themes"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// UploadPromptModel asks for the path of a receipt image.
type UploadPromptModel struct {
	theme    themes.Theme
	input    textinput.Model
	err      string
	complete bool
	canceled bool
}

// NewUploadPrompt creates a focused path prompt.
func NewUploadPrompt(theme themes.Theme) UploadPromptModel {
	input := textinput.New()
	input.Placeholder = "~/Pictures/receipt.jpg"
	input.CharLimit = 512
	input.Width = 48
	input.Focus()

	return UploadPromptModel{
		theme: theme,
		input: input,
	}
}

// Update handles messages.
func (m UploadPromptModel) Update(msg tea.Msg) (UploadPromptModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			if m.Path() == "" {
				m.err = "Enter the path of a receipt image"
				return m, nil
			}
			m.complete = true
			m.input.Blur()
			return m, nil
		case "esc":
			m.complete = true
			m.canceled = true
			m.input.Blur()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.err = ""
	return m, cmd
}

// IsComplete reports whether the prompt was submitted or canceled.
func (m UploadPromptModel) IsComplete() bool {
	return m.complete
}

// Canceled reports whether the prompt was dismissed.
func (m UploadPromptModel) Canceled() bool {
	return m.canceled
}

// Path returns the entered path.
func (m UploadPromptModel) Path() string {
	return strings.TrimSpace(m.input.Value())
}

// View renders the prompt.
func (m UploadPromptModel) View() string {
	lines := []string{
		m.theme.Title.Render("Upload receipt"),
		"",
		m.input.View(),
	}
	if m.err != "" {
		lines = append(lines, m.theme.StatusError.Render(m.err))
	}
	lines = append(lines,
		"",
		m.theme.Faint.Render("Images up to 10MB. Enter to upload, Esc to cancel"))

	return m.theme.RoundedBox.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
