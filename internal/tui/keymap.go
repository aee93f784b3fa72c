package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts.
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	Expand   key.Binding

	// Filters
	Search         key.Binding
	NextMonth      key.Binding
	PrevMonth      key.Binding
	NextCategory   key.Binding
	PrevCategory   key.Binding
	NextItemCat    key.Binding
	PrevItemCat    key.Binding
	NextStorage    key.Binding
	PrevStorage    key.Binding
	ToggleStore    key.Binding
	ToggleItem     key.Binding
	ToggleCategory key.Binding
	ClearFilters   key.Binding

	// Actions
	Edit   key.Binding
	Delete key.Binding
	Upload key.Binding

	// Application
	ToggleView key.Binding
	Refresh    key.Binding
	Help       key.Binding
	Quit       key.Binding
	ForceQuit  key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+b"),
			key.WithHelp("PgUp", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+f"),
			key.WithHelp("PgDn", "page down"),
		),
		Home: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g", "first"),
		),
		End: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G", "last"),
		),
		Expand: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("Space", "show items"),
		),

		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		NextMonth: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m/M", "month"),
		),
		PrevMonth: key.NewBinding(
			key.WithKeys("M"),
		),
		NextCategory: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c/C", "category"),
		),
		PrevCategory: key.NewBinding(
			key.WithKeys("C"),
		),
		NextItemCat: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i/I", "item category"),
		),
		PrevItemCat: key.NewBinding(
			key.WithKeys("I"),
		),
		NextStorage: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s/S", "storage"),
		),
		PrevStorage: key.NewBinding(
			key.WithKeys("S"),
		),
		ToggleStore: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "search store"),
		),
		ToggleItem: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "search items"),
		),
		ToggleCategory: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "search category"),
		),
		ClearFilters: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear filters"),
		),

		Edit: key.NewBinding(
			key.WithKeys("e", "enter"),
			key.WithHelp("e/Enter", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Upload: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "upload"),
		),

		ToggleView: key.NewBinding(
			key.WithKeys("v", "tab"),
			key.WithHelp("v/Tab", "cards/table"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("Ctrl+R", "refresh"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("Ctrl+C", "force quit"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Edit, k.Delete, k.Upload, k.ToggleView, k.Help, k.Quit}
}

// FullHelp returns all key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Home, k.End, k.Expand},
		{k.Search, k.NextMonth, k.NextCategory, k.NextItemCat, k.NextStorage, k.ClearFilters},
		{k.ToggleStore, k.ToggleItem, k.ToggleCategory},
		{k.Edit, k.Delete, k.Upload, k.ToggleView, k.Refresh},
		{k.Help, k.Quit, k.ForceQuit},
	}
}
