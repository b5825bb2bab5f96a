// Package lens reads and writes nested tree values by dotted path.
//
// Write never modifies its input. It copies the root and every Map on the
// path, then sets the leaf, so for a write at "a.b":
//
//	before:  root ─┬─ a ─┬─ b
//	               │     └─ c
//	               └─ d
//
//	after:   root' ─┬─ a' ─┬─ b'   (new value)
//	                │      └─ c    (shared)
//	                └─ d           (shared)
//
// Read(Write(s, p, v), p) returns v for every path. Missing segments are not
// errors: Read reports absence through its second result and Write creates
// empty Maps as needed, including for empty segments such as "a..b".
package lens
