package ui

import "strings"

// truncate shortens a string to limit runes, ending in an ellipsis when
// anything was cut. limit <= 0 disables truncation.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit == 1 {
		return "…"
	}
	return string(runes[:limit-1]) + "…"
}
