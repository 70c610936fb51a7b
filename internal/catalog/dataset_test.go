package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func names(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Name)
	}
	return out
}

func TestDataset_Query(t *testing.T) {
	ds := Builtin()

	tests := []struct {
		name    string
		filters Filters
		want    []string
	}{
		{"default hides retired", Filters{}, []string{"Angular", "React", "Vue", "Svelte", "Node", "Express", "NestJS", "Flutter", "Ionic"}},
		{"category", Filters{Category: "frontend"}, []string{"Angular", "React", "Vue", "Svelte", "Ionic"}},
		{"search substring", Filters{SearchTerm: "e"}, []string{"React", "Vue", "Svelte", "Node", "Express", "NestJS", "Flutter"}},
		{"status and platform", Filters{Status: "Beta", Platform: "Mobile"}, []string{"Flutter"}},
		{"inactive toggle", Filters{Toggle: ToggleInactive}, []string{"Backbone", "Knockout", "Meteor"}},
		{"no match", Filters{SearchTerm: "cobol"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names(ds.Query(tt.filters))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("Query(%v) mismatch (-want +got):\n%s", tt.filters, diff)
			}
		})
	}
}

func TestDataset_OptionsAreCopies(t *testing.T) {
	ds := Builtin()
	opts := ds.Options(FacetCategory)
	opts[0] = "mutated"
	if ds.Options(FacetCategory)[0] != "Frontend" {
		t.Fatal("Options should return a copy")
	}
	if diff := cmp.Diff([]string{"Web", "Mobile"}, ds.Options(FacetPlatform)); diff != "" {
		t.Fatalf("platform options mismatch:\n%s", diff)
	}
}

func TestLoadDataset_DerivesMissingOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.yaml")
	if err := os.WriteFile(path, []byte(`
items:
  - {name: Go, category: Backend, status: Ativo, platform: CLI}
  - {name: Rust, category: Backend, status: Beta, platform: CLI}
  - {name: Elm, category: Frontend, status: Ativo, platform: Web}
statuses: [Ativo, Beta, Inativo]
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	ds, err := LoadDataset(path)
	if err != nil {
		t.Fatalf("LoadDataset returned error: %v", err)
	}
	if len(ds.Items) != 3 || ds.Items[0].Name != "Go" {
		t.Fatalf("items = %#v", ds.Items)
	}
	if diff := cmp.Diff([]string{"Backend", "Frontend"}, ds.Categories); diff != "" {
		t.Fatalf("derived categories mismatch:\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Ativo", "Beta", "Inativo"}, ds.Statuses); diff != "" {
		t.Fatalf("explicit statuses mismatch:\n%s", diff)
	}
	if diff := cmp.Diff([]string{"CLI", "Web"}, ds.Platforms); diff != "" {
		t.Fatalf("derived platforms mismatch:\n%s", diff)
	}
}

func TestLoadDataset_Errors(t *testing.T) {
	if _, err := LoadDataset(" "); err == nil {
		t.Fatal("LoadDataset(empty) returned nil error")
	}
	if _, err := LoadDataset(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("LoadDataset(missing) returned nil error")
	}
	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("items: [unclosed"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := LoadDataset(bad); err == nil {
		t.Fatal("LoadDataset(bad yaml) returned nil error")
	}
}

func TestMemory_DelaysAndHonoursCancellation(t *testing.T) {
	m := NewMemory(Builtin(), 20*time.Millisecond, 0)

	start := time.Now()
	items, err := m.Items(context.Background(), Filters{Category: "Backend"})
	if err != nil {
		t.Fatalf("Items returned error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Fatalf("Items returned after %v, want >= 20ms", elapsed)
	}
	if diff := cmp.Diff([]string{"Node", "Express", "NestJS"}, names(items)); diff != "" {
		t.Fatalf("Items mismatch:\n%s", diff)
	}

	slow := NewMemory(Builtin(), time.Hour, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := slow.StatusOptions(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("StatusOptions err = %v, want context.Canceled", err)
	}
}

func TestMemory_Options(t *testing.T) {
	m := NewMemory(Builtin(), 0, 0)
	ctx := context.Background()

	cats, err := m.CategoryOptions(ctx)
	if err != nil || len(cats) != 3 {
		t.Fatalf("CategoryOptions = %v, %v", cats, err)
	}
	statuses, err := m.StatusOptions(ctx)
	if err != nil || len(statuses) != 2 {
		t.Fatalf("StatusOptions = %v, %v", statuses, err)
	}
	platforms, err := m.PlatformOptions(ctx)
	if err != nil || len(platforms) != 2 {
		t.Fatalf("PlatformOptions = %v, %v", platforms, err)
	}
}
