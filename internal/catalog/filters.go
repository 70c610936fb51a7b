package catalog

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	// ErrUnknownField is returned by ParseField for names outside the filter set.
	ErrUnknownField = errors.New("unknown filter field")
	// ErrUnknownFacet is returned by ParseFacet for names outside the facet set.
	ErrUnknownFacet = errors.New("unknown facet")
)

// Toggle is the binary switch carried by every filter snapshot.
type Toggle int

const (
	ToggleActive Toggle = iota
	ToggleInactive
)

const (
	labelActive   = "Ativo"
	labelInactive = "Inativo"
)

// String returns the display label of the toggle.
func (t Toggle) String() string {
	if t == ToggleInactive {
		return labelInactive
	}
	return labelActive
}

// Flip returns the other toggle value.
func (t Toggle) Flip() Toggle {
	if t == ToggleInactive {
		return ToggleActive
	}
	return ToggleInactive
}

// ParseToggle accepts the two toggle labels, case-insensitively.
func ParseToggle(value string) (Toggle, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case strings.ToLower(labelActive):
		return ToggleActive, true
	case strings.ToLower(labelInactive):
		return ToggleInactive, true
	}
	return ToggleActive, false
}

// MarshalText implements encoding.TextMarshaler.
func (t Toggle) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Toggle) UnmarshalText(text []byte) error {
	parsed, ok := ParseToggle(string(text))
	if !ok {
		return fmt.Errorf("invalid toggle %q", string(text))
	}
	*t = parsed
	return nil
}

// Field names one member of a filter snapshot.
type Field int

const (
	FieldSearch Field = iota
	FieldCategory
	FieldStatus
	FieldPlatform
	FieldToggle
)

var fieldNames = [...]string{
	FieldSearch:   "searchTerm",
	FieldCategory: "category",
	FieldStatus:   "status",
	FieldPlatform: "platform",
	FieldToggle:   "toggle",
}

// Fields lists every filter field in wire order.
func Fields() []Field {
	return []Field{FieldSearch, FieldCategory, FieldStatus, FieldPlatform, FieldToggle}
}

func (f Field) String() string {
	if f < 0 || int(f) >= len(fieldNames) {
		return fmt.Sprintf("field(%d)", int(f))
	}
	return fieldNames[f]
}

// ParseField maps a wire name back to its Field.
func ParseField(name string) (Field, error) {
	trimmed := strings.TrimSpace(name)
	for i, n := range fieldNames {
		if strings.EqualFold(n, trimmed) {
			return Field(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// Facet names a categorical filter whose selectable values are loaded
// independently of the item list.
type Facet int

const (
	FacetCategory Facet = iota
	FacetStatus
	FacetPlatform
)

// Facets lists every facet.
func Facets() []Facet {
	return []Facet{FacetCategory, FacetStatus, FacetPlatform}
}

func (f Facet) String() string {
	return f.Field().String()
}

// Field returns the filter field the facet constrains.
func (f Facet) Field() Field {
	switch f {
	case FacetStatus:
		return FieldStatus
	case FacetPlatform:
		return FieldPlatform
	default:
		return FieldCategory
	}
}

// ParseFacet maps a wire name back to its Facet.
func ParseFacet(name string) (Facet, error) {
	for _, facet := range Facets() {
		if strings.EqualFold(facet.String(), strings.TrimSpace(name)) {
			return facet, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFacet, name)
}

// Filters is one complete filter configuration.
type Filters struct {
	SearchTerm string `json:"searchTerm" toml:"search_term"`
	Category   string `json:"category" toml:"category"`
	Status     string `json:"status" toml:"status"`
	Platform   string `json:"platform" toml:"platform"`
	Toggle     Toggle `json:"toggle" toml:"toggle"`
}

// Update returns a copy of f with field set to value.
func (f Filters) Update(field Field, value string) Filters {
	switch field {
	case FieldSearch:
		f.SearchTerm = value
	case FieldCategory:
		f.Category = value
	case FieldStatus:
		f.Status = value
	case FieldPlatform:
		f.Platform = value
	case FieldToggle:
		if t, ok := ParseToggle(value); ok {
			f.Toggle = t
		}
	}
	return f
}

// Reset returns the default snapshot.
func (f Filters) Reset() Filters {
	return Filters{}
}

// Flip returns a copy of f with the toggle switched.
func (f Filters) Flip() Filters {
	f.Toggle = f.Toggle.Flip()
	return f
}

// Get returns the value of field as a string.
func (f Filters) Get(field Field) string {
	switch field {
	case FieldSearch:
		return f.SearchTerm
	case FieldCategory:
		return f.Category
	case FieldStatus:
		return f.Status
	case FieldPlatform:
		return f.Platform
	case FieldToggle:
		return f.Toggle.String()
	}
	return ""
}

// HasActive reports whether any text filter constrains the result. The
// toggle always has a value and does not count.
func (f Filters) HasActive() bool {
	return f.SearchTerm != "" || f.Category != "" || f.Status != "" || f.Platform != ""
}

// Query encodes f as URL query values. Empty text filters are omitted.
func (f Filters) Query() url.Values {
	values := url.Values{}
	for _, field := range Fields() {
		if v := f.Get(field); v != "" {
			values.Set(field.String(), v)
		}
	}
	return values
}

// FiltersFromQuery decodes values produced by Query. Unknown keys and an
// unrecognised toggle are ignored.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters
	for _, field := range Fields() {
		if v := values.Get(field.String()); v != "" {
			f = f.Update(field, v)
		}
	}
	return f
}

func (f Filters) String() string {
	return fmt.Sprintf("search=%q category=%q status=%q platform=%q toggle=%s",
		f.SearchTerm, f.Category, f.Status, f.Platform, f.Toggle)
}
