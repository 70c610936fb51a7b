package ui

import (
	"path/filepath"
	"strings"
)

const ellipsis = "…"

// truncate cuts value to limit runes, ending in "..." when there is room.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	runes := []rune(value)
	if limit <= 0 || len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

// truncateMiddle keeps both ends of value and, for file paths, the
// extension.
func truncateMiddle(value string, limit int) string {
	value = strings.TrimSpace(value)
	runes := []rune(value)
	if limit <= 0 || len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}

	ext := []rune(filepath.Ext(value))
	if len(ext) >= limit/2 {
		ext = nil
	}
	body := runes[:len(runes)-len(ext)]
	keep := limit - len(ext) - 1
	head := keep / 2
	tail := keep - head
	return string(body[:head]) + ellipsis + string(body[len(body)-tail:]) + string(ext)
}

func padRight(s string, width int) string {
	if n := len([]rune(s)); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// orAll renders an unset filter.
func orAll(value string) string {
	if value == "" {
		return "All"
	}
	return value
}
