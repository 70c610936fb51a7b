// Package config loads the shelf configuration file.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/shelf/config.toml (default)
//  3. If the config file doesn't exist, fall back to Default()
//  4. If the file exists but fields are missing/empty, keep the defaults
//
// # Example
//
//	source = "http"            # or "memory"
//	api_bind = "127.0.0.1:7490"
//	log_file = "~/.local/state/shelf/shelf.log"
//	log_level = "debug"
//	fetch_timeout = "5s"
//	debounce = "300ms"         # search input debounce
//	retry_base = "2s"          # "0s" disables automatic retry
//	page_size = 10
//
//	[memory]
//	latency = "500ms"
//	jitter = "250ms"
//	dataset = "~/catalog.yaml" # optional YAML dataset
//
//	[server]
//	listen = "127.0.0.1:7490"
//	latency = "500ms"
//	jitter = "250ms"
//	failure_rate = 0.1
//	metrics = true
//	rate_limit = 50.0          # requests per second, 0 disables
//	rate_burst = 10
//
// Durations use Go syntax (time.ParseDuration). Paths may start with ~.
//
// # Validation
//
// Load returns an error for an unknown source, an unparsable or negative
// duration, a failure rate outside [0,1] or a negative rate limit. A
// missing file is not an error.
package config
