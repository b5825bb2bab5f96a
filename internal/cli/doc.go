// Package cli defines the remic command tree: the interactive tui, get and
// set for one-shot edits of state documents, and logs for reading back what
// a tui session wrote.
package cli
