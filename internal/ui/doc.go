// Package ui provides the terminal interface of the shelf catalog browser.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Model holds only presentation state
// (cursor, page, sort, search input, theme); catalog state lives in the
// state.ListStore. The model reads the store through Snapshot and learns
// about changes through Subscribe: waitForStore turns each notification
// into a storeChangedMsg, and a closed subscription quits the program.
// User actions call the store operations directly and never touch the
// item list themselves.
//
// # Package Structure
//
//   - app.go: Model, Update/View, key dispatch, Run
//   - table.go: catalog table with fixed Name column, sorting and paging
//   - filterbar.go: filter line and facet cycling through loaded options
//   - search.go: debounced name search
//   - header.go: status line with spinner, counts and fetch errors
//   - logs.go: tail of the shelf JSON log
//   - theme.go, style_helpers.go, layout.go: colors and box rendering
//   - keys.go, help.go: key bindings and the help overlay
//
// # Search Debounce
//
// Each keystroke in the search box increments a sequence number and
// schedules a tea.Tick carrying it. When a tick arrives only the one whose
// number is still current commits UpdateFilter, so the store sees one
// operation per pause in typing. Enter commits at once.
//
// # Preferences
//
// Theme and sort order are saved to prefs.toml whenever they change.
package ui
