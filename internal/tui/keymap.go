package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts of the browse view.
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	PrevPage key.Binding
	NextPage key.Binding

	// Filters
	Search         key.Binding
	CycleType      key.Binding
	CycleRecurring key.Binding
	ClearFilters   key.Binding
	NextRange      key.Binding

	// Sorting
	SortDate     key.Binding
	SortAmount   key.Binding
	SortCategory key.Binding

	// Selection
	ToggleSelect key.Binding
	SelectAll    key.Binding
	Delete       key.Binding

	// Application
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding
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
		PrevPage: key.NewBinding(
			key.WithKeys("h", "left", "pgup"),
			key.WithHelp("←/h", "previous page"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("l", "right", "pgdown"),
			key.WithHelp("→/l", "next page"),
		),

		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		CycleType: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "income/expense"),
		),
		CycleRecurring: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "recurring"),
		),
		ClearFilters: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear filters"),
		),
		NextRange: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "date range"),
		),

		SortDate: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "sort by date"),
		),
		SortAmount: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "sort by amount"),
		),
		SortCategory: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "sort by category"),
		),

		ToggleSelect: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space/x", "select"),
		),
		SelectAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "select page"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete selected"),
		),

		Refresh: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "reload"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.CycleType, k.ToggleSelect, k.Delete, k.NextRange, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PrevPage, k.NextPage},
		{k.Search, k.CycleType, k.CycleRecurring, k.ClearFilters, k.NextRange},
		{k.SortDate, k.SortAmount, k.SortCategory},
		{k.ToggleSelect, k.SelectAll, k.Delete},
		{k.Refresh, k.Help, k.Quit},
	}
}
