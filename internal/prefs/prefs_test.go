package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	p, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if diff := cmp.Diff(Default(), p); diff != "" {
		t.Fatalf("Load mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_ReadsExistingFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	prefsDir := filepath.Join(home, ".config", "shelf")
	if err := os.MkdirAll(prefsDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	body := "theme = \"Slate\"\nsort_column = \"Category\"\nsort_order = \"DESC\"\n"
	if err := os.WriteFile(filepath.Join(prefsDir, "prefs.toml"), []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	want := Prefs{Theme: "Slate", SortColumn: "category", SortOrder: SortDesc}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Fatalf("Load mismatch (-want +got):\n%s", diff)
	}
}

func TestSave_CreatesFileAndDirs(t *testing.T) {
	prefsFile := filepath.Join(t.TempDir(), "subdir", "prefs.toml")

	p := Prefs{Theme: "Kanagawa", SortColumn: "status", SortOrder: SortDesc}
	if err := Save(prefsFile, p); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded, err := Load(prefsFile)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if diff := cmp.Diff(p, loaded); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_EmptyFieldsFallBackToDefaults(t *testing.T) {
	prefsFile := filepath.Join(t.TempDir(), "prefs.toml")
	if err := os.WriteFile(prefsFile, []byte("theme = \"\"\nsort_order = \"sideways\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load(prefsFile)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if diff := cmp.Diff(Default(), p); diff != "" {
		t.Fatalf("Load mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_InvalidTOMLReturnsDefaultsAndError(t *testing.T) {
	prefsFile := filepath.Join(t.TempDir(), "prefs.toml")
	if err := os.WriteFile(prefsFile, []byte("not valid toml {{{\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load(prefsFile)
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, defaultTheme)
	}
}

func TestSave_OverwritesWithoutLeftovers(t *testing.T) {
	dir := t.TempDir()
	prefsFile := filepath.Join(dir, "prefs.toml")

	if err := Save(prefsFile, Prefs{Theme: "Slate"}); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	if err := Save(prefsFile, Prefs{Theme: "Kanagawa", SortColumn: "platform"}); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "prefs.toml" {
		t.Fatalf("dir entries = %v, want only prefs.toml", entries)
	}
	loaded, err := Load(prefsFile)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Prefs{Theme: "Kanagawa", SortColumn: "platform", SortOrder: SortAsc}
	if diff := cmp.Diff(want, loaded); diff != "" {
		t.Fatalf("Load mismatch (-want +got):\n%s", diff)
	}
}
