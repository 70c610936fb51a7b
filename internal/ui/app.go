package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/prefs"
	"github.com/five82/shelf/internal/state"
)

type view int

const (
	viewCatalog view = iota
	viewLogs
)

// Options configures the UI.
type Options struct {
	Store     *state.ListStore
	Logger    *zap.Logger
	Debounce  time.Duration
	PageSize  int
	Prefs     prefs.Prefs
	PrefsPath string // empty uses ~/.config/shelf/prefs.toml
	LogPath   string // empty when logging to stderr
}

// Model is the root application state for Bubble Tea. It reads the store
// only through Snapshot and Subscribe and changes it only through the
// store's operations.
type Model struct {
	store       *state.ListStore
	logger      *zap.Logger
	prefsPath   string
	debounce    time.Duration
	keys        keyMap
	changes     <-chan struct{}
	unsubscribe func()

	theme    Theme
	current  view
	width    int
	height   int
	ready    bool
	showHelp bool
	notice   string

	snapshot state.Snapshot
	table    tableState
	search   searchState
	spinner  spinner.Model
	spinning bool
	logs     logState
}

// New creates the model and subscribes it to the store.
func New(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	userPrefs := opts.Prefs
	if userPrefs.Theme == "" {
		userPrefs = prefs.Default()
	}

	theme := GetTheme(userPrefs.Theme)
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Accent))

	changes, unsubscribe := opts.Store.Subscribe()
	m := Model{
		store:       opts.Store,
		logger:      logger,
		prefsPath:   opts.PrefsPath,
		debounce:    opts.Debounce,
		keys:        DefaultKeyMap(),
		changes:     changes,
		unsubscribe: unsubscribe,
		theme:       theme,
		current:     viewCatalog,
		table:       tableState{pageSize: pageSize, sort: sortFromPrefs(userPrefs)},
		search:      searchState{input: newSearchInput()},
		spinner:     sp,
		logs:        logState{path: opts.LogPath, follow: true},
	}
	m.applySnapshot(opts.Store.Snapshot())
	m.spinning = m.snapshot.Loading
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForStore(m.changes)}
	if m.snapshot.Loading {
		cmds = append(cmds, m.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeLogViewport()
		if m.current == viewLogs {
			m.refreshLogViewport()
		}
		return m, nil

	case storeChangedMsg:
		m.applySnapshot(m.store.Snapshot())
		cmds := []tea.Cmd{waitForStore(m.changes)}
		if m.snapshot.Loading && !m.spinning {
			m.spinning = true
			cmds = append(cmds, m.spinner.Tick)
		}
		return m, tea.Batch(cmds...)

	case storeClosedMsg:
		return m, tea.Quit

	case spinner.TickMsg:
		if !m.snapshot.Loading {
			m.spinning = false
			return m, nil
		}
		m.spinning = true
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case searchDebounceMsg:
		m.handleSearchDebounce(msg)
		return m, nil

	case logTickMsg:
		cmd := m.handleLogTick(msg)
		return m, cmd

	case logLinesMsg:
		m.handleLogLines(msg)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderFilterBar())
	b.WriteString("\n")
	switch m.current {
	case viewLogs:
		b.WriteString(m.renderLogs())
	default:
		b.WriteString(m.renderCatalog())
	}
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderCatalog() string {
	width := m.width
	content := m.renderCatalogTable(max(width-2, 1), m.theme.FocusBg)
	return m.renderTitledBox(m.table.title(len(m.table.rows)), content, width, m.height-chromeHeight, true)
}

// applySnapshot stores snap and re-sorts the rows, keeping the search box in
// step with the store unless the user is typing in it.
func (m *Model) applySnapshot(snap state.Snapshot) {
	m.snapshot = snap
	m.table.setRows(snap.Items)
	if !m.search.active && m.search.input.Value() != snap.Filters.SearchTerm {
		m.search.input.SetValue(snap.Filters.SearchTerm)
	}
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.search.active {
		return m.handleSearchKey(msg)
	}
	m.notice = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.spinner.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Accent))
		m.savePrefs()
		if m.current == viewLogs {
			m.refreshLogViewport()
		}
		return m, nil

	case key.Matches(msg, m.keys.ViewLogs):
		if m.current == viewLogs {
			m.current = viewCatalog
			return m, nil
		}
		cmd := m.openLogs()
		return m, cmd

	case key.Matches(msg, m.keys.Escape):
		m.current = viewCatalog
		return m, nil
	}

	if m.current == viewLogs {
		return m.handleLogsKey(msg)
	}
	return m.handleCatalogKey(msg)
}

// handleCatalogKey processes filter, sort and navigation keys.
func (m Model) handleCatalogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Search):
		cmd := m.startSearch()
		return m, cmd
	case key.Matches(msg, m.keys.Category):
		m.cycleFacet(catalog.FacetCategory)
	case key.Matches(msg, m.keys.Status):
		m.cycleFacet(catalog.FacetStatus)
	case key.Matches(msg, m.keys.Platform):
		m.cycleFacet(catalog.FacetPlatform)
	case key.Matches(msg, m.keys.Toggle):
		m.store.ToggleSwitch()
	case key.Matches(msg, m.keys.Clear):
		m.search.seq++
		m.store.ClearFilters()
	case key.Matches(msg, m.keys.Retry):
		m.store.Refresh()

	case key.Matches(msg, m.keys.SortColumn):
		m.table.sort.column = (m.table.sort.column + 1) % len(columns)
		m.table.sort.desc = false
		m.table.resort()
		m.savePrefs()
	case key.Matches(msg, m.keys.SortReverse):
		m.table.sort.desc = !m.table.sort.desc
		m.table.resort()
		m.savePrefs()
	case key.Matches(msg, m.keys.ScrollLeft):
		m.table.scroll(-1, max(m.width-2, 1))
	case key.Matches(msg, m.keys.ScrollRight):
		m.table.scroll(1, max(m.width-2, 1))

	case key.Matches(msg, m.keys.Up):
		m.table.move(-1)
	case key.Matches(msg, m.keys.Down):
		m.table.move(1)
	case key.Matches(msg, m.keys.Top):
		m.table.cursor = 0
		m.table.clamp()
	case key.Matches(msg, m.keys.Bottom):
		m.table.cursor = len(m.table.rows) - 1
		m.table.clamp()
	case key.Matches(msg, m.keys.PageUp):
		m.table.move(-m.table.pageSize)
	case key.Matches(msg, m.keys.PageDown):
		m.table.move(m.table.pageSize)
	}
	return m, nil
}

// savePrefs persists theme and sort order. Failures only reach the log.
func (m *Model) savePrefs() {
	p := prefs.Prefs{
		Theme:      m.theme.Name,
		SortColumn: columns[m.table.sort.column].key,
		SortOrder:  m.table.sort.order(),
	}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn("save preferences failed", zap.Error(err))
		m.notice = "could not save preferences"
	}
}

// Messages

type storeChangedMsg struct{}

type storeClosedMsg struct{}

// Commands

// waitForStore blocks on the subscription and reports the next change.
func waitForStore(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return storeClosedMsg{}
		}
		return storeChangedMsg{}
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, opts Options) error {
	if opts.Store == nil {
		return errors.New("ui requires a list store")
	}
	m := New(opts)
	defer m.unsubscribe()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}
