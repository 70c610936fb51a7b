package ui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelf/internal/catalogapi"
	"github.com/five82/shelf/internal/state"
)

// renderHeader renders the status line: logo, counts, loading and errors.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := newBgStyle(m.theme.Surface)
	snap := m.snapshot

	parts := []string{
		bg.Render("shelf", styles.Logo),
		bg.Render(fmt.Sprintf("%d items", len(snap.Items)), styles.Text),
	}
	if snap.HasActiveFilters() {
		parts = append(parts, bg.Render("filtered", styles.InfoText))
	}

	switch {
	case snap.Loading:
		parts = append(parts, bg.Render(m.spinner.View(), styles.AccentText)+bg.Space()+bg.Render("Loading", styles.WarningText.Bold(true)))
	case snap.Err != nil:
		parts = append(parts, bg.Render(describeFetchError(snap.Err), styles.DangerText))
		if snap.ConsecutiveFailures > 1 {
			parts = append(parts, bg.Render(fmt.Sprintf("×%d", snap.ConsecutiveFailures), styles.WarningText))
		}
		parts = append(parts, bg.Hint("r", "retry", styles))
	}

	if !snap.LastUpdated.IsZero() {
		parts = append(parts, bg.Render("updated "+snap.LastUpdated.Format("15:04:05"), styles.FaintText))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Width(m.width).
		Render(bg.Join(parts, "  "))
}

// describeFetchError turns a fetch failure into a short status message.
func describeFetchError(err error) string {
	var statusErr *catalogapi.StatusError
	switch {
	case errors.As(err, &statusErr) && statusErr.StatusCode == 429:
		return "Rate limited"
	case errors.As(err, &statusErr):
		return fmt.Sprintf("Load failed: HTTP %d", statusErr.StatusCode)
	}
	msg := err.Error()
	var fetchErr *state.FetchError
	if errors.As(err, &fetchErr) && fetchErr.Err != nil {
		msg = fetchErr.Err.Error()
	}
	return "Load failed: " + truncate(msg, 60)
}

// renderFooter renders the transient notice or the key hint.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	bg := newBgStyle(m.theme.Surface)

	var content string
	switch {
	case m.notice != "":
		content = bg.Render(m.notice, styles.WarningText)
	case m.current == viewLogs:
		content = bg.Join([]string{
			bg.Hint("esc", "back", styles),
			bg.Hint("j/k", "scroll", styles),
			bg.Render(truncateMiddle(m.logs.path, 50), styles.FaintText),
		}, "  ")
	default:
		content = m.renderShortHelp(bg, styles)
	}
	return bg.FillLine(content, m.width)
}
