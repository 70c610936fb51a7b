package catalog

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Dataset is an in-memory catalog together with its facet option lists.
type Dataset struct {
	Items      []Item   `yaml:"items"`
	Categories []string `yaml:"categories"`
	Statuses   []string `yaml:"statuses"`
	Platforms  []string `yaml:"platforms"`
}

// Builtin returns the demo catalog.
func Builtin() Dataset {
	return Dataset{
		Items: []Item{
			{Name: "Angular", Category: "Frontend", Status: "Ativo", Platform: "Web"},
			{Name: "React", Category: "Frontend", Status: "Ativo", Platform: "Web"},
			{Name: "Vue", Category: "Frontend", Status: "Ativo", Platform: "Web"},
			{Name: "Svelte", Category: "Frontend", Status: "Beta", Platform: "Web"},
			{Name: "Node", Category: "Backend", Status: "Ativo", Platform: "Web"},
			{Name: "Express", Category: "Backend", Status: "Ativo", Platform: "Web"},
			{Name: "NestJS", Category: "Backend", Status: "Beta", Platform: "Web"},
			{Name: "Flutter", Category: "Fullstack", Status: "Beta", Platform: "Mobile"},
			{Name: "Ionic", Category: "Frontend", Status: "Ativo", Platform: "Mobile"},
			{Name: "Backbone", Category: "Frontend", Status: "Inativo", Platform: "Web"},
			{Name: "Knockout", Category: "Frontend", Status: "Inativo", Platform: "Web"},
			{Name: "Meteor", Category: "Fullstack", Status: "Inativo", Platform: "Web"},
		},
		Categories: []string{"Frontend", "Backend", "Fullstack"},
		Statuses:   []string{"Ativo", "Beta"},
		Platforms:  []string{"Web", "Mobile"},
	}
}

// LoadDataset reads a YAML dataset. Option lists absent from the file are
// derived from the items.
func LoadDataset(path string) (Dataset, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return Dataset{}, errors.New("dataset path is empty")
	}
	raw, err := os.ReadFile(trimmed)
	if err != nil {
		return Dataset{}, fmt.Errorf("read dataset: %w", err)
	}
	var ds Dataset
	if err := yaml.Unmarshal(raw, &ds); err != nil {
		return Dataset{}, fmt.Errorf("parse dataset: %w", err)
	}
	if len(ds.Categories) == 0 {
		ds.Categories = distinct(ds.Items, func(it Item) string { return it.Category })
	}
	if len(ds.Statuses) == 0 {
		ds.Statuses = distinct(ds.Items, func(it Item) string { return it.Status })
	}
	if len(ds.Platforms) == 0 {
		ds.Platforms = distinct(ds.Items, func(it Item) string { return it.Platform })
	}
	return ds, nil
}

// Query returns the items matching f, in dataset order.
func (d Dataset) Query(f Filters) []Item {
	out := make([]Item, 0, len(d.Items))
	for _, it := range d.Items {
		if Matches(f, it) {
			out = append(out, it)
		}
	}
	return out
}

// Options returns a copy of the option list for facet.
func (d Dataset) Options(facet Facet) []string {
	switch facet {
	case FacetStatus:
		return CloneStrings(d.Statuses)
	case FacetPlatform:
		return CloneStrings(d.Platforms)
	default:
		return CloneStrings(d.Categories)
	}
}

// Matches reports whether it satisfies f. The search term is a
// case-insensitive substring of the name; facets compare case-insensitively.
// ToggleActive hides retired (Inativo) items, ToggleInactive shows only them.
func Matches(f Filters, it Item) bool {
	if term := strings.TrimSpace(f.SearchTerm); term != "" {
		if !strings.Contains(strings.ToLower(it.Name), strings.ToLower(term)) {
			return false
		}
	}
	if f.Category != "" && !strings.EqualFold(f.Category, it.Category) {
		return false
	}
	if f.Status != "" && !strings.EqualFold(f.Status, it.Status) {
		return false
	}
	if f.Platform != "" && !strings.EqualFold(f.Platform, it.Platform) {
		return false
	}
	retired := strings.EqualFold(it.Status, labelInactive)
	if f.Toggle == ToggleInactive {
		return retired
	}
	return !retired
}

func distinct(items []Item, key func(Item) string) []string {
	seen := make(map[string]struct{}, len(items))
	var out []string
	for _, it := range items {
		v := strings.TrimSpace(key(it))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
