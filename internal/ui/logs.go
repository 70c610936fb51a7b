package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelf/internal/logtail"
)

// logState holds the log view: the tail of the shelf log file.
type logState struct {
	path     string
	entries  []logtail.Entry
	err      error
	follow   bool
	gen      int
	viewport viewport.Model
}

type logLinesMsg struct {
	entries []logtail.Entry
	err     error
}

type logTickMsg struct{ gen int }

func loadLogsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		entries, err := logtail.Tail(path, logTailLimit)
		return logLinesMsg{entries: entries, err: err}
	}
}

func logTickCmd(gen int) tea.Cmd {
	return tea.Tick(logRefreshInterval, func(time.Time) tea.Msg { return logTickMsg{gen: gen} })
}

// openLogs switches to the log view and starts a refresh cycle. Bumping gen
// retires the tick chain of any earlier visit.
func (m *Model) openLogs() tea.Cmd {
	m.current = viewLogs
	m.logs.follow = true
	m.logs.gen++
	m.resizeLogViewport()
	if m.logs.path == "" {
		m.refreshLogViewport()
		return nil
	}
	return tea.Batch(loadLogsCmd(m.logs.path), logTickCmd(m.logs.gen))
}

func (m *Model) handleLogTick(msg logTickMsg) tea.Cmd {
	if msg.gen != m.logs.gen || m.current != viewLogs {
		return nil
	}
	return tea.Batch(loadLogsCmd(m.logs.path), logTickCmd(m.logs.gen))
}

func (m *Model) handleLogLines(msg logLinesMsg) {
	m.logs.entries = msg.entries
	m.logs.err = msg.err
	m.refreshLogViewport()
}

func (m *Model) resizeLogViewport() {
	w := max(m.width-4, 1)
	h := max(m.height-chromeHeight-2, 1)
	if m.logs.viewport.Width == 0 {
		m.logs.viewport = viewport.New(w, h)
		return
	}
	m.logs.viewport.Width = w
	m.logs.viewport.Height = h
}

func (m *Model) refreshLogViewport() {
	m.logs.viewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))
	m.logs.viewport.SetContent(m.renderLogContent())
	if m.logs.follow {
		m.logs.viewport.GotoBottom()
	}
}

// handleLogsKey scrolls the log viewport. Scrolling up stops following.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Top):
		m.logs.follow = false
		m.logs.viewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.logs.follow = true
		m.logs.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.logs.viewport, cmd = m.logs.viewport.Update(msg)
	m.logs.follow = m.logs.viewport.AtBottom()
	return m, cmd
}

func (m Model) renderLogs() string {
	title := "Log"
	if len(m.logs.entries) > 0 {
		title = fmt.Sprintf("Log (%d)", len(m.logs.entries))
	}
	if !m.logs.follow {
		title += " · paused"
	}
	return m.renderTitledBox(title, m.logs.viewport.View(), m.width, m.height-chromeHeight, true)
}

func (m *Model) renderLogContent() string {
	bg := newBgStyle(m.theme.FocusBg)
	styles := m.theme.Styles()
	width := m.logs.viewport.Width

	switch {
	case m.logs.path == "":
		return bg.FillLine(bg.Render("Logging to stderr; no log file to show", styles.MutedText), width)
	case m.logs.err != nil:
		return bg.FillLine(bg.Render("Cannot read log: "+m.logs.err.Error(), styles.DangerText), width)
	case len(m.logs.entries) == 0:
		return bg.FillLine(bg.Render("No log entries", styles.MutedText), width)
	}

	lines := make([]string, 0, len(m.logs.entries))
	for _, e := range m.logs.entries {
		lines = append(lines, bg.FillLine(m.formatLogEntry(e, styles, bg), width))
	}
	return strings.Join(lines, "\n")
}

// formatLogEntry renders time, level, message and fields with theme colors.
func (m *Model) formatLogEntry(e logtail.Entry, styles Styles, bg bgStyle) string {
	if e.Level == "" && e.Time.IsZero() {
		return bg.Render(e.Raw, styles.Text)
	}
	var b strings.Builder
	if !e.Time.IsZero() {
		b.WriteString(bg.Render(e.Time.Local().Format("15:04:05"), styles.FaintText))
		b.WriteString(bg.Space())
	}
	if e.Level != "" {
		b.WriteString(bg.Render(padRight(strings.ToUpper(e.Level), 5), levelStyle(e.Level, styles).Bold(true)))
		b.WriteString(bg.Space())
	}
	b.WriteString(bg.Render(e.Message, styles.Text))
	if fields := e.FormatFields(); fields != "" {
		b.WriteString(bg.Spaces(2))
		b.WriteString(bg.Render(fields, styles.MutedText))
	}
	return b.String()
}

func levelStyle(level string, styles Styles) lipgloss.Style {
	switch strings.ToLower(level) {
	case "info":
		return styles.SuccessText
	case "warn":
		return styles.WarningText
	case "error":
		return styles.DangerText
	case "debug":
		return styles.InfoText
	default:
		return styles.Text
	}
}
