// Package source provides the authoritative to-do collections the refresher
// pulls from.
//
// # Sources
//
//   - File: a JSON, YAML or TOML document on disk, re-read on every fetch.
//     A missing file is an empty collection, so a fresh install starts with
//     an empty list instead of an error.
//   - HTTP: a JSON document served at a URL, fetched with a five second
//     timeout.
//
// Both implement todo.Fetcher and run their documents through Collection,
// which accepts a list of entries, a map keyed by to-do key, or either of
// those nested under a top-level "toDos" field:
//
//	toDos:
//	  - key: 1
//	    description: Buy milk
//	    isFinished: false
//
// # Simulated latency
//
// NewFile takes a delay that is waited before each read. The demo config
// uses it to make the loading state visible; it honors context
// cancellation like any other blocking fetch.
package source
