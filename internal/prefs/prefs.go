// Package prefs persists shelf user preferences between runs.
// Preferences are stored in ~/.config/shelf/prefs.toml.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Prefs holds user preferences for the catalog browser.
type Prefs struct {
	Theme      string `toml:"theme"`
	SortColumn string `toml:"sort_column"`
	SortOrder  string `toml:"sort_order"`
}

// Sort orders understood by the table view.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

const (
	defaultPrefsPath  = "~/.config/shelf/prefs.toml"
	defaultTheme      = "Nightfox"
	defaultSortColumn = "name"
)

// Default returns the preferences used when nothing is stored.
func Default() Prefs {
	return Prefs{Theme: defaultTheme, SortColumn: defaultSortColumn, SortOrder: SortAsc}
}

func (p *Prefs) normalize() {
	def := Default()
	p.Theme = strings.TrimSpace(p.Theme)
	if p.Theme == "" {
		p.Theme = def.Theme
	}
	p.SortColumn = strings.ToLower(strings.TrimSpace(p.SortColumn))
	if p.SortColumn == "" {
		p.SortColumn = def.SortColumn
	}
	switch strings.ToLower(strings.TrimSpace(p.SortOrder)) {
	case SortDesc:
		p.SortOrder = SortDesc
	default:
		p.SortOrder = SortAsc
	}
}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads preferences from path, or the default path when empty. A
// missing file yields defaults. A corrupt file yields defaults together with
// the error so the caller can warn and carry on.
func Load(path string) (Prefs, error) {
	resolved, err := resolve(path)
	if err != nil {
		return Default(), err
	}
	raw, err := os.ReadFile(resolved)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return Default(), nil
	case err != nil:
		return Default(), fmt.Errorf("read prefs: %w", err)
	}

	var p Prefs
	if err := toml.Unmarshal(raw, &p); err != nil {
		return Default(), fmt.Errorf("parse prefs %s: %w", resolved, err)
	}
	p.normalize()
	return p, nil
}

// Save normalizes p and atomically replaces the file at path.
func Save(path string, p Prefs) error {
	resolved, err := resolve(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	p.normalize()
	raw, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".prefs-*.toml")
	if err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := os.Rename(tmp.Name(), resolved); err != nil {
		return fmt.Errorf("replace prefs: %w", err)
	}
	return nil
}

func resolve(path string) (string, error) {
	p := strings.TrimSpace(path)
	if p == "" {
		p = defaultPrefsPath
	}
	if rest, ok := strings.CutPrefix(p, "~"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		p = filepath.Join(home, rest)
	}
	return filepath.Abs(p)
}
