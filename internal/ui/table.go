package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/prefs"
)

// column describes one catalog table column. Column 0 (Name) is fixed and
// always rendered; the rest scroll horizontally when the terminal is narrow.
type column struct {
	key   string
	title string
	width int
	value func(catalog.Item) string
}

var columns = []column{
	{key: "name", title: "Name", width: 18, value: func(it catalog.Item) string { return it.Name }},
	{key: "category", title: "Category", width: 12, value: func(it catalog.Item) string { return it.Category }},
	{key: "status", title: "Status", width: 10, value: func(it catalog.Item) string { return it.Status }},
	{key: "platform", title: "Platform", width: 10, value: func(it catalog.Item) string { return it.Platform }},
}

const columnGap = 2

// columnIndex maps a prefs column key to its index; unknown keys sort by name.
func columnIndex(key string) int {
	for i, c := range columns {
		if c.key == strings.ToLower(strings.TrimSpace(key)) {
			return i
		}
	}
	return 0
}

type sortState struct {
	column int
	desc   bool
}

func sortFromPrefs(p prefs.Prefs) sortState {
	return sortState{column: columnIndex(p.SortColumn), desc: p.SortOrder == prefs.SortDesc}
}

func (s sortState) order() string {
	if s.desc {
		return prefs.SortDesc
	}
	return prefs.SortAsc
}

func (s sortState) label() string {
	arrow := "↑"
	if s.desc {
		arrow = "↓"
	}
	return columns[s.column].title + " " + arrow
}

// sortItems returns a sorted copy of items. Ties fall back to the name so the
// order is stable across refetches.
func sortItems(items []catalog.Item, s sortState) []catalog.Item {
	out := catalog.CloneItems(items)
	col := columns[s.column]
	sort.SliceStable(out, func(i, j int) bool {
		a, b := strings.ToLower(col.value(out[i])), strings.ToLower(col.value(out[j]))
		if a == b {
			a, b = strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		}
		if s.desc {
			return a > b
		}
		return a < b
	})
	return out
}

// tableState holds cursor, paging and horizontal scroll for the catalog table.
type tableState struct {
	rows      []catalog.Item
	cursor    int
	pageSize  int
	colOffset int
	sort      sortState
}

func (t *tableState) setRows(items []catalog.Item) {
	var selected string
	if t.cursor >= 0 && t.cursor < len(t.rows) {
		selected = t.rows[t.cursor].Name
	}
	t.rows = sortItems(items, t.sort)
	t.reselect(selected)
}

func (t *tableState) resort() {
	var selected string
	if t.cursor >= 0 && t.cursor < len(t.rows) {
		selected = t.rows[t.cursor].Name
	}
	t.rows = sortItems(t.rows, t.sort)
	t.reselect(selected)
}

// reselect keeps the cursor on the item with the given name when it is
// still listed, otherwise clamps it.
func (t *tableState) reselect(name string) {
	if name != "" {
		for i, it := range t.rows {
			if it.Name == name {
				t.cursor = i
				return
			}
		}
	}
	t.clamp()
}

func (t *tableState) clamp() {
	if t.cursor >= len(t.rows) {
		t.cursor = len(t.rows) - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
}

func (t *tableState) move(delta int) {
	t.cursor += delta
	t.clamp()
}

func (t *tableState) page() (index, count int) {
	size := max(t.pageSize, 1)
	count = max((len(t.rows)+size-1)/size, 1)
	return t.cursor / size, count
}

// visibleRows returns the rows on the cursor's page and the index of the
// first one.
func (t *tableState) visibleRows() ([]catalog.Item, int) {
	size := max(t.pageSize, 1)
	idx, _ := t.page()
	start := idx * size
	if start >= len(t.rows) {
		return nil, start
	}
	end := min(start+size, len(t.rows))
	return t.rows[start:end], start
}

// visibleColumns returns the column indexes that fit in width: the fixed
// Name column, then scrollable columns starting at colOffset.
func (t *tableState) visibleColumns(width int) []int {
	cols := []int{0}
	used := columns[0].width
	for i := 1 + t.colOffset; i < len(columns); i++ {
		need := columnGap + columns[i].width
		if used+need > width && len(cols) > 1 {
			break
		}
		cols = append(cols, i)
		used += need
	}
	return cols
}

func (t *tableState) scroll(delta, width int) {
	maxOffset := len(columns) - 2
	t.colOffset = min(max(t.colOffset+delta, 0), maxOffset)
	// Do not scroll past the point where the last column is already shown.
	for t.colOffset > 0 {
		cols := (&tableState{colOffset: t.colOffset - 1}).visibleColumns(width)
		if cols[len(cols)-1] != len(columns)-1 {
			break
		}
		t.colOffset--
	}
}

// title returns the pane title with count, sort and page indicators.
func (t *tableState) title(total int) string {
	idx, count := t.page()
	return fmt.Sprintf("Catalog (%d) · %s · page %d/%d", total, t.sort.label(), idx+1, count)
}

// renderCatalogTable renders the header row and the current page.
func (m Model) renderCatalogTable(width int, bgColor string) string {
	bg := newBgStyle(bgColor)
	styles := m.theme.Styles()
	cols := m.table.visibleColumns(width)

	var header []string
	for _, ci := range cols {
		title := columns[ci].title
		if ci == m.table.sort.column {
			title = m.table.sort.label()
		}
		header = append(header, bg.Render(padRight(truncate(title, columns[ci].width), columns[ci].width), styles.AccentText.Bold(true)))
	}
	lines := []string{bg.FillLine(bg.Join(header, strings.Repeat(" ", columnGap)), width)}

	rows, start := m.table.visibleRows()
	if len(rows) == 0 {
		msg := "No items match the current filters"
		if m.snapshot.Loading {
			msg = "Loading..."
		}
		lines = append(lines, bg.FillLine(bg.Render(msg, styles.MutedText), width))
		return strings.Join(lines, "\n")
	}

	for i, it := range rows {
		selected := start+i == m.table.cursor
		rowBg := bgColor
		if selected {
			rowBg = m.theme.SelectionBg
		}
		lines = append(lines, m.formatCatalogRow(it, cols, width, rowBg, selected))
	}
	return strings.Join(lines, "\n")
}

// formatCatalogRow renders one item. Selected rows use SelectionText for
// every cell to keep contrast.
func (m Model) formatCatalogRow(it catalog.Item, cols []int, width int, bgColor string, selected bool) string {
	bg := newBgStyle(bgColor)
	styles := m.theme.Styles()
	selText := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))

	cells := make([]string, 0, len(cols))
	for _, ci := range cols {
		col := columns[ci]
		text := padRight(truncate(col.value(it), col.width), col.width)
		style := styles.Text
		switch {
		case selected:
			style = selText
		case col.key == "status":
			style = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.StatusColor(it.Status)))
		case ci == 0:
			style = styles.Text.Bold(true)
		}
		cells = append(cells, bg.Render(text, style))
	}
	return bg.FillLine(bg.Join(cells, strings.Repeat(" ", columnGap)), width)
}
