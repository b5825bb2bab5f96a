// Package ui provides the remic terminal to-do list, built on Bubble Tea.
//
// # Architecture Overview
//
// The Model never reads the store directly for display. It binds to a
// binding.Provider with the to-do selectors and actions, and re-reads the
// bound props whenever one of three things happens:
//
//   - a cycleMsg arrives: Run registers an OnCycle observer on the
//     provider's scheduler that forwards every render cycle into the program
//   - an action it invoked returns (actionMsg)
//   - a failed refresh has been recorded (reloadMsg)
//
// Because Bound.Invoke returns only after the cycle containing the write has
// been observed, an actionMsg always carries state the view can trust.
//
// # Package Structure
//
//   - app.go: Model, Update loop, messages, commands and Run
//   - view.go: header, list rows, add form and footer rendering
//   - keys.go: key bindings (bubbles/key) shared with the help views
//   - help.go: help overlay built from bubbles/help
//   - theme.go: Nightfox, Kanagawa and Slate themes as lipgloss styles
//
// # Key Bindings
//
//   - j/k, g/G: move the selection
//   - space or x: toggle finished
//   - a: add a to-do (enter saves, esc cancels)
//   - d: delete the selected to-do
//   - r: reload from the source
//   - H: hide finished to-dos
//   - T: cycle theme
//   - ?: help
//   - q or ctrl+c: quit
//
// Theme and the hide-finished flag are saved through package prefs. When
// the configured source can also save, local edits are written back after
// each successful add, toggle or delete.
package ui
