// Package logtail reads the tail of the remic log file for the `remic logs`
// command.
//
// The app logs with slog's text handler, one record per line:
//
//	time=2026-10-14T09:30:00Z level=WARN msg="refresh failed" store=todos err="..."
//
// Read keeps only lines at or above a minimum level and returns the last N
// of them, holding at most 2N lines in memory while scanning. Colorize
// highlights the level field with lipgloss for terminal output.
//
// Read returns nil, nil for a missing file: a fresh install has no log yet.
package logtail
