// Package config loads the remic configuration.
//
// # Resolution Order
//
//  1. The path passed to Load, or ~/.config/remic/config.toml
//  2. Built-in defaults for any key the file leaves out or blank
//  3. REMIC_* environment variables, which win over the file
//
// A missing config file is not an error; remic runs with defaults.
//
// # TOML Format
//
//	rerender_interval = "16ms"   # minimum spacing of render cycles
//	todos_file = "~/.config/remic/todos.yaml"
//	todos_url = ""               # when set, fetched instead of todos_file
//	refresh_interval = "30s"     # "0" disables background refresh
//	fetch_delay = "0s"           # simulated latency before each fetch
//	theme = "Nightfox"
//	log_file = "~/.local/state/remic/remic.log"
//	log_level = "info"
//
// Durations use Go syntax and must not be negative. Paths get tilde
// expansion and are made absolute.
//
// # Environment
//
//   - REMIC_RERENDER_INTERVAL, REMIC_REFRESH_INTERVAL
//   - REMIC_TODOS_FILE, REMIC_TODOS_URL
//   - REMIC_LOG_LEVEL
//   - REMIC_OTEL_ENDPOINT: OTLP/HTTP collector; setting it enables tracing
//   - REMIC_OTEL_ENABLED: enable tracing with the exporter's own defaults
//
// # Error Handling
//
// Load returns errors for unreadable files, TOML syntax errors, malformed
// or negative durations, unknown log levels and unparsable environment
// values. Each error names the offending key.
package config
