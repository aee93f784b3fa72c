// Package themes holds the color palettes and lipgloss styles of the receipts browser.
package themes

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the visual style for the TUI.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Faint         lipgloss.Style
	Selected      lipgloss.Style
	Highlighted   lipgloss.Style
	Money         lipgloss.Style
	MonthHeader   lipgloss.Style
	Card          lipgloss.Style
	CardSelected  lipgloss.Style
	Box           lipgloss.Style
	BorderedBox   lipgloss.Style
	RoundedBox    lipgloss.Style
	Banner        lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusError   lipgloss.Style
	StatusWarning lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusPending lipgloss.Style
	Primary       lipgloss.Color
	Secondary     lipgloss.Color
	Muted         lipgloss.Color
	Border        lipgloss.Color
	Foreground    lipgloss.Color
	Background    lipgloss.Color
	Info          lipgloss.Color
	Error         lipgloss.Color
	Warning       lipgloss.Color
	Success       lipgloss.Color
}

type palette struct {
	primary, secondary, success, warning, danger, info lipgloss.Color
	background, foreground, border, muted, subtle       lipgloss.Color
	selectedText                                        lipgloss.Color
}

func newTheme(p palette) Theme {
	return Theme{
		Primary:    p.primary,
		Secondary:  p.secondary,
		Success:    p.success,
		Warning:    p.warning,
		Error:      p.danger,
		Info:       p.info,
		Background: p.background,
		Foreground: p.foreground,
		Border:     p.border,
		Muted:      p.muted,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.primary),
		Subtitle: lipgloss.NewStyle().
			Foreground(p.subtle),
		Normal: lipgloss.NewStyle().
			Foreground(p.foreground),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.foreground),
		Faint: lipgloss.NewStyle().
			Foreground(p.muted),
		Selected: lipgloss.NewStyle().
			Background(p.primary).
			Foreground(p.selectedText).
			Bold(true),
		Highlighted: lipgloss.NewStyle().
			Background(p.border).
			Foreground(p.foreground),
		Money: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.primary),
		MonthHeader: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.primary).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(p.border),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(0, 1),
		CardSelected: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.primary).
			Padding(0, 1),
		Box: lipgloss.NewStyle().
			Padding(1, 2),
		BorderedBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(p.border).
			Padding(0, 1),
		RoundedBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.primary).
			Padding(1, 2),
		Banner: lipgloss.NewStyle().
			Foreground(p.danger).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(p.danger).
			PaddingLeft(1),

		StatusSuccess: lipgloss.NewStyle().
			Foreground(p.success).
			Bold(true),
		StatusWarning: lipgloss.NewStyle().
			Foreground(p.warning).
			Bold(true),
		StatusError: lipgloss.NewStyle().
			Foreground(p.danger).
			Bold(true),
		StatusInfo: lipgloss.NewStyle().
			Foreground(p.info).
			Bold(true),
		StatusPending: lipgloss.NewStyle().
			Foreground(p.muted).
			Italic(true),
	}
}

// Default is the default theme.
var Default = newTheme(palette{
	primary:      lipgloss.Color("#2ec4b6"),
	secondary:    lipgloss.Color("#8ecae6"),
	success:      lipgloss.Color("#10b981"),
	warning:      lipgloss.Color("#f59e0b"),
	danger:       lipgloss.Color("#ef4444"),
	info:         lipgloss.Color("#3b82f6"),
	background:   lipgloss.Color("#1a1a1a"),
	foreground:   lipgloss.Color("#fafafa"),
	border:       lipgloss.Color("#404040"),
	muted:        lipgloss.Color("#737373"),
	subtle:       lipgloss.Color("#a3a3a3"),
	selectedText: lipgloss.Color("#1a1a1a"),
})

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = newTheme(palette{
	primary:      lipgloss.Color("#94e2d5"),
	secondary:    lipgloss.Color("#89b4fa"),
	success:      lipgloss.Color("#a6e3a1"),
	warning:      lipgloss.Color("#f9e2af"),
	danger:       lipgloss.Color("#f38ba8"),
	info:         lipgloss.Color("#89dceb"),
	background:   lipgloss.Color("#1e1e2e"),
	foreground:   lipgloss.Color("#cdd6f4"),
	border:       lipgloss.Color("#45475a"),
	muted:        lipgloss.Color("#6c7086"),
	subtle:       lipgloss.Color("#a6adc8"),
	selectedText: lipgloss.Color("#1e1e2e"),
})

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	switch name {
	case "catppuccin-mocha":
		return CatppuccinMocha
	default:
		return Default
	}
}

// CategoryIcons maps receipt and item category enum values to icons.
var CategoryIcons = map[string]string{
	"GROCERIES":     "🥬",
	"PRODUCE":       "🥕",
	"DAIRY":         "🥛",
	"MEAT":          "🥩",
	"SEAFOOD":       "🐟",
	"BAKERY":        "🥖",
	"FROZEN":        "🧊",
	"BEVERAGES":     "🥤",
	"SNACKS":        "🍿",
	"PANTRY":        "🥫",
	"DINING":        "🍕",
	"HOUSEHOLD":     "🏠",
	"PERSONAL_CARE": "🧴",
	"HEALTH":        "💊",
	"PHARMACY":      "💊",
	"PET":           "🐾",
	"BABY":          "🍼",
	"ELECTRONICS":   "🔌",
	"CLOTHING":      "👕",
	"OTHER":         "📦",
}

// DefaultIcon is shown for unknown or missing categories.
const DefaultIcon = "🧾"

// GetCategoryIcon returns an icon for a category enum value.
func GetCategoryIcon(category string) string {
	if icon, ok := CategoryIcons[strings.ToUpper(category)]; ok {
		return icon
	}
	return DefaultIcon
}
