// Package server implements shelfd, the demo catalog API.
//
// Responses are served from an in-memory catalog.Dataset after an artificial
// delay, and a configurable share of API calls fail with 503, so clients can
// exercise loading states, retries and out-of-order responses against a real
// HTTP endpoint.
package server
