// Package tree defines the value type a remic state is built from.
//
// A state is a tree of Map nodes keyed by field name (or by entity id for
// collections such as a to-do list) with Bool, Number, String, Null and List
// leaves. The interface is sealed so every consumer can switch over the full
// set of kinds.
//
// Values are immutable by convention. Producing a new version of a tree means
// copying every Map along the changed path (see package lens) and sharing the
// rest, so a reference to an older version stays valid indefinitely. Same
// reports node identity, which is how tests check that untouched subtrees were
// reused rather than copied.
//
// FromAny and ToAny bridge to the plain Go values produced and consumed by the
// YAML, TOML and JSON codecs.
package tree
