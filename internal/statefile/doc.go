// Package statefile reads and writes state documents as tree values.
//
// JSON, YAML and TOML are supported; the format follows the file extension
// (.json, .yaml/.yml, .toml). Documents round-trip through tree.FromAny and
// tree.ToAny, so whole numbers are written back as integers and TOML dates
// come back as strings.
package statefile
