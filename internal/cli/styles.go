// Package cli provides styled terminal output and prompts for the receipts commands.
package cli

import (
	"github.com/Veraticus/receipts/internal/model"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// Palette shared by the command output. The TUI has its own themes.
var (
	PrimaryColor = lipgloss.Color("#2EC4B6")
	SuccessColor = lipgloss.Color("#4ECDC4")
	WarningColor = lipgloss.Color("#FFE66D")
	ErrorColor   = lipgloss.Color("#FF6B6B")
	InfoColor    = lipgloss.Color("#8ECAE6")
	SubtleColor  = lipgloss.Color("#666666")
)

var (
	// TitleStyle is used for section titles and month headers.
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(PrimaryColor)

	SuccessStyle = lipgloss.NewStyle().Foreground(SuccessColor)
	WarningStyle = lipgloss.NewStyle().Foreground(WarningColor)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ErrorColor)
	InfoStyle    = lipgloss.NewStyle().Foreground(InfoColor)

	// SubtleStyle is for hints such as the current value in a prompt.
	SubtleStyle = lipgloss.NewStyle().Foreground(SubtleColor)

	// MoneyStyle highlights totals.
	MoneyStyle = lipgloss.NewStyle().Bold(true).Foreground(SuccessColor)

	// PromptStyle is used for questions.
	PromptStyle = lipgloss.NewStyle().Bold(true).Foreground(PrimaryColor)

	// BoxStyle frames receipt summaries before they are saved.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(1, 2)
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	ReceiptIcon = "🧾"
)

func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

func FormatError(message string) string {
	return ErrorStyle.Render(ErrorIcon + " " + message)
}

func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

func FormatInfo(message string) string {
	return InfoStyle.Render(InfoIcon + " " + message)
}

// FormatTitle prefixes title with the receipt icon and a blank line below.
func FormatTitle(title string) string {
	return TitleStyle.MarginBottom(1).Render(ReceiptIcon + " " + title)
}

// FormatMoney renders d as a highlighted dollar amount.
func FormatMoney(d decimal.Decimal) string {
	return MoneyStyle.Render(model.FormatCurrency(d))
}

// FormatPrompt renders a question followed by an arrow.
func FormatPrompt(prompt string) string {
	return PromptStyle.Render(prompt + " → ")
}

// RenderBox renders content under title inside a rounded border.
func RenderBox(title, content string) string {
	return BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, TitleStyle.Render(title), content))
}

func StyleTitle(text string) string {
	return TitleStyle.Render(text)
}

func StyleInfo(text string) string {
	return InfoStyle.Render(text)
}
