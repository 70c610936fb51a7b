package ui

import (
	"fmt"
	"strings"

	"github.com/five82/shelf/internal/catalog"
)

// nextOption returns the option after current, wrapping to "" (all) after
// the last one. An unknown current value restarts at the first option.
func nextOption(options []string, current string) string {
	if len(options) == 0 {
		return ""
	}
	if current == "" {
		return options[0]
	}
	for i, opt := range options {
		if strings.EqualFold(opt, current) {
			if i == len(options)-1 {
				return ""
			}
			return options[i+1]
		}
	}
	return options[0]
}

// cycleFacet advances the facet's filter through its loaded options.
func (m *Model) cycleFacet(facet catalog.Facet) {
	options := m.snapshot.Facets.Get(facet)
	if len(options) == 0 {
		m.notice = fmt.Sprintf("%s options not loaded", facet)
		return
	}
	field := facet.Field()
	m.store.UpdateFilter(field, nextOption(options, m.store.Filters().Get(field)))
}

// renderFilterBar renders the current filter snapshot on one line.
func (m Model) renderFilterBar() string {
	styles := m.theme.Styles()
	bg := newBgStyle(m.theme.SurfaceAlt)
	f := m.snapshot.Filters

	label := func(s string) string { return bg.Render(s, styles.FaintText) + bg.Space() }
	value := func(s string, set bool) string {
		if set {
			return bg.Render(s, styles.AccentText.Bold(true))
		}
		return bg.Render(s, styles.MutedText)
	}

	var search string
	if m.search.active {
		search = m.search.input.View()
	} else if f.SearchTerm != "" {
		search = value(fmt.Sprintf("%q", f.SearchTerm), true)
	} else {
		search = value("-", false)
	}

	toggleStyle := styles.SuccessText
	if f.Toggle == catalog.ToggleInactive {
		toggleStyle = styles.WarningText
	}

	parts := []string{
		label("/ Search") + search,
		label("c Category") + value(orAll(f.Category), f.Category != ""),
		label("s Status") + value(orAll(f.Status), f.Status != ""),
		label("p Platform") + value(orAll(f.Platform), f.Platform != ""),
		label("t") + bg.Render(f.Toggle.String(), toggleStyle),
	}
	return bg.FillLine(bg.Join(parts, "   "), m.width)
}
