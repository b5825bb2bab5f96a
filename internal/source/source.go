package source

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/sdujack2012/remic/internal/todo"
	"github.com/sdujack2012/remic/internal/tree"
)

// ErrMalformed is returned when a document does not hold a to-do collection.
var ErrMalformed = errors.New("malformed to-do document")

// Collection extracts the to-dos from a decoded document. Accepted shapes:
//
//	{toDos: ...}                      the collection is taken from toDos
//	[{key, description, isFinished}]  a list; every entry needs a key
//	{"<key>": {description, ...}}     a map keyed by to-do key
//
// Entries are normalized to the key/description/isFinished form.
func Collection(doc tree.Value) (tree.Map, error) {
	if m, ok := tree.AsMap(doc); ok {
		if inner, ok := m["toDos"]; ok {
			doc = inner
		}
	}

	out := tree.Map{}
	switch v := doc.(type) {
	case nil, tree.Null:
		return out, nil
	case tree.List:
		for i, entry := range v {
			m, ok := tree.AsMap(entry)
			if !ok {
				return nil, fmt.Errorf("%w: entry %d is not a table", ErrMalformed, i)
			}
			key, ok := keyOf(m["key"])
			if !ok {
				return nil, fmt.Errorf("%w: entry %d has no key", ErrMalformed, i)
			}
			item, _ := todo.ItemFrom(key, m)
			out[key] = normalize(item)
		}
	case tree.Map:
		for key, entry := range v {
			item, ok := todo.ItemFrom(key, entry)
			if !ok {
				return nil, fmt.Errorf("%w: entry %q is not a table", ErrMalformed, key)
			}
			out[key] = normalize(item)
		}
	default:
		return nil, fmt.Errorf("%w: unexpected %T at root", ErrMalformed, doc)
	}
	return out, nil
}

func normalize(it todo.Item) tree.Map {
	it.Description = todo.Normalize(it.Description)
	return it.Value()
}

func keyOf(v tree.Value) (string, bool) {
	switch k := v.(type) {
	case tree.String:
		return string(k), k != ""
	case tree.Number:
		return strconv.FormatFloat(float64(k), 'f', -1, 64), true
	default:
		return "", false
	}
}
