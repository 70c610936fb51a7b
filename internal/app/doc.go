// Package app is the composition root of the shelf catalog browser.
//
// # Overview
//
// Run wires configuration, logging, the data source, the list store and the
// user interface together. Domain logic lives in catalog and state; this
// package only decides which pieces to build and in what order.
//
// # Startup
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> config.Load()          Read ~/.config/shelf/config.toml
//	       ├─────> logging.New()          JSON log file (the TUI owns stdout)
//	       ├─────> newSource()            catalog.Memory or catalogapi.Client
//	       ├─────> state.New()            ListStore over that source
//	       ├─────> Initialize()           facet options, best effort
//	       ├─────> applySeed() / Refresh  first item fetch
//	       ├─────> StartRetrier()         automatic retry after failures
//	       └─────> ui.Run() or printPlain()
//
// The TUI starts only when the output is a terminal (mattn/go-isatty) and
// Options.Plain is unset. Plain mode waits for the first fetch to settle,
// prints a table and returns the fetch error so scripts see a non-zero exit.
//
// # Retry Behavior
//
// The retrier subscribes to the store. When the latest fetch failed and
// nothing is loading it schedules Refresh after retry_base, doubling for each
// further consecutive failure up to 30 seconds. Any new fetch, whether from
// the user or from the retrier, disarms the pending timer. retry_base = "0s"
// turns the retrier off.
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Configuration file invalid
//   - Logger or data source cannot be built
//   - In plain mode, the failure of the first fetch
//
// Recoverable errors are store state: the UI shows them and the retrier
// acts on them.
package app
