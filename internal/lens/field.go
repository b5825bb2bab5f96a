package lens

import "github.com/sdujack2012/remic/internal/tree"

// Field is a typed accessor for one known path.
type Field[T any] struct {
	path string
	from func(tree.Value) (T, bool)
	to   func(T) tree.Value
}

// NewField builds a Field from a path and a pair of conversions.
func NewField[T any](path string, from func(tree.Value) (T, bool), to func(T) tree.Value) Field[T] {
	return Field[T]{path: path, from: from, to: to}
}

// Path returns the dotted path the field addresses.
func (f Field[T]) Path() string {
	return f.path
}

// Get reads the field. It reports false when the path is absent or holds a
// value of another kind.
func (f Field[T]) Get(v tree.Value) (T, bool) {
	raw, ok := Read(v, f.path)
	if !ok {
		var zero T
		return zero, false
	}
	return f.from(raw)
}

// Or reads the field, falling back to def.
func (f Field[T]) Or(v tree.Value, def T) T {
	if x, ok := f.Get(v); ok {
		return x
	}
	return def
}

// Set writes the field with copy-on-write semantics.
func (f Field[T]) Set(v tree.Value, x T) tree.Value {
	return Write(v, f.path, f.to(x))
}

// StringField addresses a String leaf.
func StringField(path string) Field[string] {
	return NewField(path, tree.AsString, func(s string) tree.Value { return tree.String(s) })
}

// BoolField addresses a Bool leaf.
func BoolField(path string) Field[bool] {
	return NewField(path, tree.AsBool, func(b bool) tree.Value { return tree.Bool(b) })
}

// NumberField addresses a Number leaf.
func NumberField(path string) Field[float64] {
	return NewField(path, tree.AsNumber, func(n float64) tree.Value { return tree.Number(n) })
}

// MapField addresses a Map node.
func MapField(path string) Field[tree.Map] {
	return NewField(path, tree.AsMap, func(m tree.Map) tree.Value { return m })
}
