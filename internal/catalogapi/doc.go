// Package catalogapi is the HTTP client for the shelfd catalog API.
//
// # Endpoints
//
//   - GET /api/items: items matching the filter query parameters
//     (searchTerm, category, status, platform, toggle)
//   - GET /api/options/{facet}: option list for category, status or platform
//
// # Retries
//
// Transport errors and 5xx responses are retried with exponential backoff,
// bounded by MaxTries and the caller's context. 4xx responses and malformed
// bodies fail immediately.
//
// Every request carries a fresh X-Request-ID so server logs can be matched
// with client failures.
//
// *Client satisfies state.DataSource.
package catalogapi
