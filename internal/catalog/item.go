package catalog

// Item is a catalog record. Consumers treat it as opaque data.
type Item struct {
	Name     string `json:"name" yaml:"name"`
	Category string `json:"category" yaml:"category"`
	Status   string `json:"status" yaml:"status"`
	Platform string `json:"platform" yaml:"platform"`
}

// CloneItems returns an independent copy of items. Empty input yields nil.
func CloneItems(items []Item) []Item {
	if len(items) == 0 {
		return nil
	}
	dup := make([]Item, len(items))
	copy(dup, items)
	return dup
}

// CloneStrings returns an independent copy of values. Empty input yields nil.
func CloneStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	dup := make([]string, len(values))
	copy(dup, values)
	return dup
}
