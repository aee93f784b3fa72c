package components

import (
	"time"

	"github.com/Veraticus/receipts/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
)

// How long notifications stay on screen.
const (
	ErrorToastDuration   = 8 * time.Second
	SuccessToastDuration = 6 * time.Second
)

// Severity of a toast.
type Severity int

// Toast severities.
const (
	SeveritySuccess Severity = iota
	SeverityError
	SeverityInfo
)

// ToastModel shows one transient notification at a time. A newer toast replaces
// the current one, and only the newest toast's timer can hide it.
type ToastModel struct {
	theme    themes.Theme
	message  string
	severity Severity
	id       int
	visible  bool
}

// NewToast creates an empty toast area.
func NewToast(theme themes.Theme) ToastModel {
	return ToastModel{theme: theme}
}

// Show displays message and returns the command that hides it again.
func (m *ToastModel) Show(message string, severity Severity) tea.Cmd {
	m.id++
	m.message = message
	m.severity = severity
	m.visible = true

	id := m.id
	d := SuccessToastDuration
	if severity == SeverityError {
		d = ErrorToastDuration
	}
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ToastExpiredMsg{ID: id}
	})
}

// Update hides the toast when its timer fires.
func (m ToastModel) Update(msg tea.Msg) (ToastModel, tea.Cmd) {
	if msg, ok := msg.(ToastExpiredMsg); ok && msg.ID == m.id {
		m.visible = false
	}
	return m, nil
}

// Visible reports whether a toast is showing.
func (m ToastModel) Visible() bool {
	return m.visible
}

// Message returns the current toast text.
func (m ToastModel) Message() string {
	return m.message
}

// View renders the toast, or "" when hidden.
func (m ToastModel) View() string {
	if !m.visible {
		return ""
	}
	switch m.severity {
	case SeverityError:
		return m.theme.StatusError.Render("✗ " + m.message)
	case SeveritySuccess:
		return m.theme.StatusSuccess.Render("✓ " + m.message)
	default:
		return m.theme.StatusInfo.Render(m.message)
	}
}
