package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// bgStyle renders text segments on a shared background. lipgloss resets the
// background after every styled segment, so bare spaces between segments
// would otherwise show the terminal color.
type bgStyle struct {
	bg    lipgloss.Color
	fill  lipgloss.Style
	space string
}

func newBgStyle(color string) bgStyle {
	bg := lipgloss.Color(color)
	fill := lipgloss.NewStyle().Background(bg)
	return bgStyle{bg: bg, fill: fill, space: fill.Render(" ")}
}

// Render styles every word of text and joins them with background spaces.
// Runs of spaces are preserved.
func (b bgStyle) Render(text string, style lipgloss.Style) string {
	if text == "" {
		return ""
	}
	style = style.Background(b.bg)
	if !strings.Contains(text, " ") {
		return style.Render(text)
	}
	words := strings.Split(text, " ")
	for i, w := range words {
		if w != "" {
			words[i] = style.Render(w)
		}
	}
	return strings.Join(words, b.space)
}

func (b bgStyle) Space() string {
	return b.space
}

func (b bgStyle) Spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return b.fill.Render(strings.Repeat(" ", n))
}

// Join joins already rendered parts with a background separator.
func (b bgStyle) Join(parts []string, sep string) string {
	return strings.Join(parts, b.fill.Render(sep))
}

// Hint renders a "key desc" pair as used in the footer and help line.
func (b bgStyle) Hint(key, desc string, styles Styles) string {
	return b.Render(key, styles.WarningText) + b.space + b.Render(desc, styles.MutedText)
}

// FillLine pads content to width with the background color.
func (b bgStyle) FillLine(content string, width int) string {
	return b.fill.Width(width).Render(content)
}
