package tree

import (
	"bytes"
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"slices"
	"time"
)

// ErrUnsupported is returned by FromAny for Go values that have no tree form.
var ErrUnsupported = errors.New("unsupported value type")

// Value is a sealed interface over the node kinds a state tree may hold.
// Only Null, Bool, Number, String, List and Map implement it.
type Value interface {
	treeValue()
}

// Null is an explicit null leaf. A nil Value means "absent", Null means
// "present and empty".
type Null struct{}

func (Null) treeValue() {}

// MarshalJSON implements json.Marshaler for Null.
func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// Bool is a boolean leaf.
type Bool bool

func (Bool) treeValue() {}

// Number is a numeric leaf. Integers decoded from documents are stored as
// whole floats and converted back by ToAny.
type Number float64

func (Number) treeValue() {}

// String is a string leaf.
type String string

func (String) treeValue() {}

// List is an ordered sequence node.
type List []Value

func (List) treeValue() {}

// Map is a mapping node keyed by field name or entity id.
type Map map[string]Value

func (Map) treeValue() {}

// Clone returns a shallow copy of m. Child nodes are shared with m.
func (m Map) Clone() Map {
	out := make(Map, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Keys returns the keys of m in sorted order.
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// AsMap returns v as a Map when it is one.
func AsMap(v Value) (Map, bool) {
	m, ok := v.(Map)
	return m, ok
}

// AsString returns v as a Go string when it is a String.
func AsString(v Value) (string, bool) {
	s, ok := v.(String)
	return string(s), ok
}

// AsBool returns v as a Go bool when it is a Bool.
func AsBool(v Value) (bool, bool) {
	b, ok := v.(Bool)
	return bool(b), ok
}

// AsNumber returns v as a float64 when it is a Number.
func AsNumber(v Value) (float64, bool) {
	n, ok := v.(Number)
	return float64(n), ok
}

// Same reports whether a and b are the same node. Maps and lists compare by
// identity, leaves by value.
func Same(a, b Value) bool {
	switch av := a.(type) {
	case Map:
		bv, ok := b.(Map)
		if !ok || av == nil || bv == nil {
			return ok && av == nil && bv == nil
		}
		return reflect.ValueOf(av).UnsafePointer() == reflect.ValueOf(bv).UnsafePointer()
	case List:
		bv, ok := b.(List)
		if !ok || len(av) != len(bv) {
			return false
		}
		if len(av) == 0 {
			return true
		}
		return &av[0] == &bv[0]
	default:
		return a == b
	}
}

// Equal reports whether a and b are structurally equal.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case Map:
		bv, ok := b.(Map)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			w, ok := bv[k]
			if !ok || !Equal(v, w) {
				return false
			}
		}
		return true
	case List:
		bv, ok := b.(List)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

// FromAny converts a decoded YAML, TOML or JSON document into a Value.
func FromAny(v any) (Value, error) {
	return fromAny(v, "$")
}

func fromAny(v any, at string) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return val, nil
	case bool:
		return Bool(val), nil
	case string:
		return String(val), nil
	case int:
		return Number(val), nil
	case int8:
		return Number(val), nil
	case int16:
		return Number(val), nil
	case int32:
		return Number(val), nil
	case int64:
		return Number(val), nil
	case uint:
		return Number(val), nil
	case uint8:
		return Number(val), nil
	case uint16:
		return Number(val), nil
	case uint32:
		return Number(val), nil
	case uint64:
		return Number(val), nil
	case float32:
		return Number(val), nil
	case float64:
		return Number(val), nil
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", at, err)
		}
		return Number(f), nil
	case time.Time:
		return String(val.Format(time.RFC3339Nano)), nil
	case []any:
		out := make(List, len(val))
		for i, elem := range val {
			item, err := fromAny(elem, fmt.Sprintf("%s[%d]", at, i))
			if err != nil {
				return nil, err
			}
			out[i] = item
		}
		return out, nil
	case map[string]any:
		out := make(Map, len(val))
		for k, elem := range val {
			item, err := fromAny(elem, at+"."+k)
			if err != nil {
				return nil, err
			}
			out[k] = item
		}
		return out, nil
	case map[any]any:
		out := make(Map, len(val))
		for k, elem := range val {
			key := fmt.Sprint(k)
			item, err := fromAny(elem, at+"."+key)
			if err != nil {
				return nil, err
			}
			out[key] = item
		}
		return out, nil
	case encoding.TextMarshaler:
		text, err := val.MarshalText()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", at, err)
		}
		return String(text), nil
	default:
		return nil, fmt.Errorf("%s: %w: %T", at, ErrUnsupported, v)
	}
}

// ToAny converts v into plain Go values suitable for any encoder. Whole
// numbers come back as int64.
func ToAny(v Value) any {
	switch val := v.(type) {
	case nil, Null:
		return nil
	case Bool:
		return bool(val)
	case String:
		return string(val)
	case Number:
		f := float64(val)
		if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			return int64(f)
		}
		return f
	case List:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = ToAny(elem)
		}
		return out
	case Map:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[k] = ToAny(elem)
		}
		return out
	default:
		return nil
	}
}

// ParseJSON decodes a JSON document into a Value.
func ParseJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return FromAny(raw)
}

// MarshalJSON encodes v as JSON. Map keys are emitted in sorted order.
func MarshalJSON(v Value) ([]byte, error) {
	return json.Marshal(ToAny(v))
}
