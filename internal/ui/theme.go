package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme is a named palette. Status maps a lower-case catalog status to its
// row color; unknown statuses use Muted.
type Theme struct {
	Name string

	Background string
	Surface    string
	SurfaceAlt string
	FocusBg    string

	SelectionBg   string
	SelectionText string

	Border      string
	BorderFocus string

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string

	Status map[string]string
}

// Styles are the lipgloss styles derived from a Theme.
type Styles struct {
	Background lipgloss.Style
	Surface    lipgloss.Style
	SurfaceAlt lipgloss.Style

	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style
	Logo        lipgloss.Style
}

func (t Theme) Styles() Styles {
	fg := func(color string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	}
	panel := func(bg string) lipgloss.Style {
		return fg(t.Text).Background(lipgloss.Color(bg))
	}
	return Styles{
		Background:  lipgloss.NewStyle().Background(lipgloss.Color(t.Background)),
		Surface:     panel(t.Surface),
		SurfaceAlt:  panel(t.SurfaceAlt),
		Text:        fg(t.Text),
		MutedText:   fg(t.Muted),
		FaintText:   fg(t.Faint),
		AccentText:  fg(t.Accent),
		SuccessText: fg(t.Success).Bold(true),
		WarningText: fg(t.Warning),
		DangerText:  fg(t.Danger).Bold(true),
		InfoText:    fg(t.Info),
		Logo:        fg(t.Warning).Bold(true),
	}
}

// WithBackground returns a copy of s whose styles all carry bgColor, so
// adjacent segments do not fall back to the terminal background.
func (s Styles) WithBackground(bgColor string) Styles {
	bg := lipgloss.Color(bgColor)
	out := s
	for _, st := range []*lipgloss.Style{
		&out.Background, &out.Surface, &out.SurfaceAlt,
		&out.Text, &out.MutedText, &out.FaintText, &out.AccentText,
		&out.SuccessText, &out.WarningText, &out.DangerText, &out.InfoText,
		&out.Logo,
	} {
		*st = st.Background(bg)
	}
	return out
}

// StatusColor returns the row color for a catalog status.
func (t Theme) StatusColor(status string) string {
	if color, ok := t.Status[strings.ToLower(strings.TrimSpace(status))]; ok {
		return color
	}
	return t.Muted
}

const defaultThemeName = "Nightfox"

var themeOrder = []string{"Nightfox", "Kanagawa", "Slate"}

var themes = map[string]Theme{
	// https://github.com/EdenEast/nightfox.nvim
	"Nightfox": {
		Name:          "Nightfox",
		Background:    "#131a24",
		Surface:       "#192330",
		SurfaceAlt:    "#212e3f",
		FocusBg:       "#29394f",
		SelectionBg:   "#2b3b51",
		SelectionText: "#cdcecf",
		Border:        "#39506d",
		BorderFocus:   "#719cd6",
		Text:          "#cdcecf",
		Muted:         "#738091",
		Faint:         "#71839b",
		Accent:        "#719cd6",
		Success:       "#81b29a",
		Warning:       "#dbc074",
		Danger:        "#c94f6d",
		Info:          "#63cdcf",
		Status:        map[string]string{"ativo": "#81b29a", "beta": "#dbc074", "inativo": "#738091"},
	},
	// https://github.com/rebelot/kanagawa.nvim
	"Kanagawa": {
		Name:          "Kanagawa",
		Background:    "#16161D",
		Surface:       "#1F1F28",
		SurfaceAlt:    "#2A2A37",
		FocusBg:       "#2A2A37",
		SelectionBg:   "#2D4F67",
		SelectionText: "#DCD7BA",
		Border:        "#54546D",
		BorderFocus:   "#7E9CD8",
		Text:          "#DCD7BA",
		Muted:         "#C8C093",
		Faint:         "#727169",
		Accent:        "#7E9CD8",
		Success:       "#98BB6C",
		Warning:       "#E6C384",
		Danger:        "#E46876",
		Info:          "#7FB4CA",
		Status:        map[string]string{"ativo": "#98BB6C", "beta": "#E6C384", "inativo": "#727169"},
	},
	// Tailwind slate/sky
	"Slate": {
		Name:          "Slate",
		Background:    "#020617",
		Surface:       "#0f172a",
		SurfaceAlt:    "#1e293b",
		FocusBg:       "#283548",
		SelectionBg:   "#0284c7",
		SelectionText: "#f8fafc",
		Border:        "#334155",
		BorderFocus:   "#38bdf8",
		Text:          "#f1f5f9",
		Muted:         "#94a3b8",
		Faint:         "#64748b",
		Accent:        "#38bdf8",
		Success:       "#22c55e",
		Warning:       "#f59e0b",
		Danger:        "#ef4444",
		Info:          "#06b6d4",
		Status:        map[string]string{"ativo": "#22c55e", "beta": "#f59e0b", "inativo": "#64748b"},
	},
}

// GetTheme returns the named theme, or Nightfox.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes[defaultThemeName]
}

// NextTheme returns the theme after current in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

func ThemeNames() []string {
	return themeOrder
}
