package lens

import (
	"strings"

	"github.com/sdujack2012/remic/internal/tree"
)

// Split breaks a dotted path into segments. Empty segments are kept and act as
// empty-string keys.
func Split(path string) []string {
	return strings.Split(path, ".")
}

// Read returns the value at path. The second result is false as soon as a
// segment is missing, holds nil, or a node on the way is not a Map.
func Read(v tree.Value, path string) (tree.Value, bool) {
	current := v
	for _, seg := range Split(path) {
		m, ok := current.(tree.Map)
		if !ok {
			return nil, false
		}
		next, ok := m[seg]
		if !ok || next == nil {
			return nil, false
		}
		current = next
	}
	return current, true
}

// Write returns a new root with value stored at path. Every Map on the path
// is shallow-copied; missing or non-Map intermediates become fresh empty
// Maps. Nodes off the path are shared with v.
func Write(v tree.Value, path string, value tree.Value) tree.Value {
	segs := Split(path)
	root := cloneOrNew(v)

	parent := root
	for _, seg := range segs[:len(segs)-1] {
		child := cloneOrNew(parent[seg])
		parent[seg] = child
		parent = child
	}
	parent[segs[len(segs)-1]] = value
	return root
}

// Delete returns a new root without the leaf at path. When the path does not
// resolve, v is returned unchanged.
func Delete(v tree.Value, path string) tree.Value {
	segs := Split(path)
	if _, ok := Read(v, path); !ok {
		return v
	}

	root := cloneOrNew(v)
	parent := root
	for _, seg := range segs[:len(segs)-1] {
		child := cloneOrNew(parent[seg])
		parent[seg] = child
		parent = child
	}
	delete(parent, segs[len(segs)-1])
	return root
}

func cloneOrNew(v tree.Value) tree.Map {
	if m, ok := v.(tree.Map); ok && m != nil {
		return m.Clone()
	}
	return tree.Map{}
}
