// Package state provides the reactive list store that sits between a UI and a
// catalog data source.
//
// # Overview
//
// A ListStore owns the current filter snapshot, the item list derived from
// it, a loading flag, the last fetch error and the facet option lists. UIs
// call the operations (UpdateFilter, ClearFilters, ToggleSwitch, Refresh,
// Initialize) and read the state back through Snapshot or the individual
// views. Nothing outside the store mutates it.
//
//	UI input ──> UpdateFilter ──> filters' ──> DataSource.Items(filters')
//	                                 │                      │
//	                         Loading=true               (goroutine)
//	                         Err=nil                        │
//	                                 │                      v
//	UI <── Subscribe/Snapshot <── publish <── apply if token is latest
//
// # Refetch Protocol
//
// Every operation that touches the filters runs the same sequence under the
// store mutex:
//
//  1. Compute the new filter snapshot.
//  2. Set Loading=true and Err=nil, publish.
//  3. Increment the fetch sequence and capture {seq, filters} as the token.
//  4. Call DataSource.Items on a goroutine.
//
// When the call returns, the result is applied only if its token is still
// the most recently issued one. Otherwise it is dropped without touching
// Items, Loading or Err. Results therefore land in issue order, never in
// resolution order: a slow early fetch cannot overwrite a fast later one.
//
// On success Items is replaced and Loading cleared. On failure Err holds a
// *FetchError, Loading is cleared and Items keeps its last good value.
//
// # Facet Options
//
// Initialize loads the category, status and platform option lists once, as
// three independent calls. Each list is applied as soon as it arrives.
// Failures are logged and never surface in Err, unlike item failures.
//
// # Concurrency Model
//
// The mutex stands in for a single UI thread: each operation and each fetch
// continuation runs to completion while holding it, so no two mutations
// interleave. The lock is never held during DataSource calls.
//
// Superseded fetches are not cancelled; they complete and are discarded.
// Close cancels every outstanding call, blocks further mutation and closes
// subscriber channels.
//
// # Notifications
//
// Subscribe hands out a channel with a one-slot buffer. A send that would
// block is dropped, so readers see "something changed" rather than a queue
// of events and should read Snapshot when woken.
//
// # Usage Example
//
//	store := state.New(source, state.WithLogger(logger))
//	defer store.Close()
//
//	store.Initialize()
//	store.Refresh()
//	store.UpdateFilter(catalog.FieldCategory, "Frontend")
//
//	changes, cancel := store.Subscribe()
//	defer cancel()
//	for range changes {
//		render(store.Snapshot())
//	}
package state
