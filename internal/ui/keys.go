package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	ViewLogs   key.Binding
	Escape     key.Binding

	// Filters
	Search   key.Binding
	Category key.Binding
	Status   key.Binding
	Platform key.Binding
	Toggle   key.Binding
	Clear    key.Binding
	Retry    key.Binding

	// Table
	SortColumn  key.Binding
	SortReverse key.Binding
	ScrollLeft  key.Binding
	ScrollRight key.Binding

	// Navigation
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	PageUp   key.Binding
	PageDown key.Binding

	// Search/input
	Confirm key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		ViewLogs: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Toggle log view"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back to catalog"),
		),

		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search by name"),
		),
		Category: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Cycle category"),
		),
		Status: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Cycle status"),
		),
		Platform: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "Cycle platform"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "Ativo/Inativo"),
		),
		Clear: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Clear filters"),
		),
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Retry / reload"),
		),

		SortColumn: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "Sort by next column"),
		),
		SortReverse: key.NewBinding(
			key.WithKeys("O"),
			key.WithHelp("O", "Reverse sort"),
		),
		ScrollLeft: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/left", "Scroll columns left"),
		),
		ScrollRight: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/right", "Scroll columns right"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "["),
			key.WithHelp("[/pgup", "Previous page"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "]"),
			key.WithHelp("]/pgdown", "Next page"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Apply search"),
		),
	}
}

// ShortHelp returns key bindings for the footer hint.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Category, k.Status, k.Platform, k.Toggle, k.Clear, k.Help, k.Quit}
}

// FullHelp returns key bindings grouped for the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Search, k.Confirm, k.Category, k.Status, k.Platform, k.Toggle, k.Clear, k.Retry},
		{k.Up, k.Down, k.Top, k.Bottom, k.PageUp, k.PageDown},
		{k.SortColumn, k.SortReverse, k.ScrollLeft, k.ScrollRight},
		{k.ViewLogs, k.Escape, k.CycleTheme, k.Help, k.Quit},
	}
}
