package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/shelf/internal/catalog"
)

// searchState backs the name search input. Every keystroke bumps seq and
// schedules a debounce tick carrying it; only the tick matching the latest
// seq commits, so a burst of typing produces one store operation.
type searchState struct {
	input  textinput.Model
	active bool
	seq    int
}

type searchDebounceMsg struct {
	seq   int
	value string
}

func newSearchInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "name..."
	ti.Prompt = ""
	ti.CharLimit = 64
	return ti
}

func (m *Model) startSearch() tea.Cmd {
	m.search.active = true
	m.search.input.CursorEnd()
	return m.search.input.Focus()
}

func (m *Model) stopSearch() {
	m.search.active = false
	m.search.input.Blur()
}

// handleSearchKey processes input while the search box has focus.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.stopSearch()
		m.search.seq++ // drop any pending tick
		m.commitSearch(m.search.input.Value())
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.stopSearch()
		return m, nil

	case msg.String() == "ctrl+c":
		return m, tea.Quit
	}

	before := m.search.input.Value()
	var cmd tea.Cmd
	m.search.input, cmd = m.search.input.Update(msg)
	if m.search.input.Value() == before {
		return m, cmd
	}
	tick := m.scheduleSearch()
	return m, tea.Batch(cmd, tick)
}

// scheduleSearch arms the debounce timer for the current input value. A
// zero debounce commits immediately.
func (m *Model) scheduleSearch() tea.Cmd {
	m.search.seq++
	value := m.search.input.Value()
	if m.debounce <= 0 {
		m.commitSearch(value)
		return nil
	}
	seq := m.search.seq
	return tea.Tick(m.debounce, func(time.Time) tea.Msg {
		return searchDebounceMsg{seq: seq, value: value}
	})
}

func (m *Model) handleSearchDebounce(msg searchDebounceMsg) {
	if msg.seq != m.search.seq {
		return
	}
	m.commitSearch(msg.value)
}

// commitSearch issues UpdateFilter when value differs from the store's
// current search term.
func (m *Model) commitSearch(value string) {
	if value == m.store.Filters().SearchTerm {
		return
	}
	m.store.UpdateFilter(catalog.FieldSearch, value)
}
