package catalogapi

import "github.com/five82/shelf/internal/catalog"

// ItemListResponse mirrors /api/items.
type ItemListResponse struct {
	Items []catalog.Item `json:"items"`
	Total int            `json:"total"`
}

// OptionsResponse mirrors /api/options/{facet}.
type OptionsResponse struct {
	Facet  string   `json:"facet"`
	Values []string `json:"values"`
}

// ErrorResponse is the body shelfd sends with 4xx/5xx statuses.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}
