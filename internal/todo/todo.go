package todo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/sdujack2012/remic/internal/binding"
	"github.com/sdujack2012/remic/internal/lens"
	"github.com/sdujack2012/remic/internal/state"
	"github.com/sdujack2012/remic/internal/tree"
)

// ErrBadArgument is returned by updaters invoked with arguments of the wrong
// shape.
var ErrBadArgument = errors.New("bad argument")

// Action names accepted by Actions.
const (
	ActionAdd           = "addToDo"
	ActionRemove        = "removeToDo"
	ActionToggle        = "toggleToDo"
	ActionRetrieve      = "retrieveToDos"
	ActionStartRetrieve = "startRetrievingToDos"
	ActionSetLoading    = "updateIsLoadingToDos"
)

var (
	toDos         = state.Path("toDos")
	loadingStatus = state.Path("loadingStatus")

	isLoadingField = lens.BoolField("loadingStatus.isLoadingToDos")
	lastErrorField = lens.StringField("loadingStatus.lastError")
	failuresField  = lens.NumberField("loadingStatus.consecutiveFailures")
)

// Fetcher supplies the authoritative to-do collection.
type Fetcher interface {
	Fetch(ctx context.Context) (tree.Map, error)
}

// Saver is implemented by fetchers that can also write the collection back.
type Saver interface {
	Save(ctx context.Context, items tree.Map) error
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context) (tree.Map, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context) (tree.Map, error) {
	return f(ctx)
}

// Item is one to-do entry.
type Item struct {
	Key         string
	Description string
	IsFinished  bool
}

// Value encodes the item as a tree node.
func (it Item) Value() tree.Map {
	return tree.Map{
		"key":         tree.String(it.Key),
		"description": tree.String(it.Description),
		"isFinished":  tree.Bool(it.IsFinished),
	}
}

// ItemFrom decodes the entry stored under key. Missing fields take their
// zero value; the map key wins over any stored key field.
func ItemFrom(key string, v tree.Value) (Item, bool) {
	m, ok := tree.AsMap(v)
	if !ok {
		return Item{}, false
	}
	it := Item{Key: key}
	it.Description, _ = tree.AsString(m["description"])
	it.IsFinished, _ = tree.AsBool(m["isFinished"])
	return it, true
}

// Normalize trims a description and brings it to NFC so that visually equal
// text compares equal.
func Normalize(desc string) string {
	return norm.NFC.String(strings.TrimSpace(desc))
}

// Initial returns the state the application starts from.
func Initial() tree.Value {
	return tree.Map{
		"toDos": tree.Map{},
		"loadingStatus": tree.Map{
			"isLoadingToDos": tree.Bool(true),
		},
	}
}

// The updaters below operate on the toDos collection only. Keys index the
// collection map directly; they are ids, not paths, and may contain dots.

func addToDo(it Item) state.Updater[tree.Value] {
	it.Description = Normalize(it.Description)
	return state.Func(func(todos tree.Value) tree.Value {
		next := cloneCollection(todos)
		next[it.Key] = it.Value()
		return next
	})
}

func removeToDo(key string) state.Updater[tree.Value] {
	return state.Func(func(todos tree.Value) tree.Value {
		m, _ := tree.AsMap(todos)
		if _, ok := m[key]; !ok {
			return todos
		}
		next := m.Clone()
		delete(next, key)
		return next
	})
}

func toggleToDo(key string, finished bool) state.Updater[tree.Value] {
	return state.Func(func(todos tree.Value) tree.Value {
		m, _ := tree.AsMap(todos)
		entry, ok := tree.AsMap(m[key])
		if !ok {
			return todos
		}
		entry = entry.Clone()
		entry["isFinished"] = tree.Bool(finished)
		next := m.Clone()
		next[key] = entry
		return next
	})
}

// cloneCollection returns a shallow copy of todos, or an empty collection
// when todos is absent or not a map.
func cloneCollection(todos tree.Value) tree.Map {
	if m, ok := tree.AsMap(todos); ok && m != nil {
		return m.Clone()
	}
	return tree.Map{}
}

func retrieveToDos(f Fetcher) state.Updater[tree.Value] {
	return func(ctx context.Context, _ tree.Value) (tree.Value, error) {
		items, err := f.Fetch(ctx)
		if err != nil {
			return nil, fmt.Errorf("retrieve to-dos: %w", err)
		}
		if items == nil {
			items = tree.Map{}
		}
		return items, nil
	}
}

// This one operates on loadingStatus.
func setLoading(loading bool) state.Updater[tree.Value] {
	return state.Func(func(status tree.Value) tree.Value {
		return lens.Write(status, "isLoadingToDos", tree.Bool(loading))
	})
}

// Add returns an updater inserting or replacing it.
func Add(it Item) state.Updater[tree.Value] {
	return lift(addToDo)(it)
}

// Remove returns an updater deleting the entry under key.
func Remove(key string) state.Updater[tree.Value] {
	return lift(removeToDo)(key)
}

// Toggle returns an updater setting the finished flag of an existing entry.
// Unknown keys are left alone.
func Toggle(key string, finished bool) state.Updater[tree.Value] {
	return toDos.Updater(toggleToDo(key, finished))
}

// Retrieve returns an updater replacing the collection with f's result.
func Retrieve(f Fetcher) state.Updater[tree.Value] {
	return toDos.Updater(retrieveToDos(f))
}

// SetLoading returns an updater setting the loading flag.
func SetLoading(loading bool) state.Updater[tree.Value] {
	return state.Lift(loadingStatus, setLoading)(loading)
}

// StartRetrieving marks the collection as loading, fetches it and clears the
// flag, as three separate commits. A successful fetch also clears any
// recorded failure.
func StartRetrieving(f Fetcher) state.Sequence[tree.Value] {
	return state.InSequence(
		SetLoading(true),
		Retrieve(f),
		state.Merge(SetLoading(false), clearFailure()),
	)
}

// RecordFailure notes a failed refresh: loading stops, the message is kept
// and the failure counter grows. Existing to-dos are left in place.
func RecordFailure(err error) state.Updater[tree.Value] {
	return state.Func(func(s tree.Value) tree.Value {
		s = isLoadingField.Set(s, false)
		s = lastErrorField.Set(s, err.Error())
		return failuresField.Set(s, failuresField.Or(s, 0)+1)
	})
}

func clearFailure() state.Updater[tree.Value] {
	return loadingStatus.Updater(state.Func(func(status tree.Value) tree.Value {
		status = lens.Delete(status, "lastError")
		return lens.Delete(status, "consecutiveFailures")
	}))
}

func lift[A any](fn func(A) state.Updater[tree.Value]) func(A) state.Updater[tree.Value] {
	return state.Lift(toDos, fn)
}

// Actions returns the named actions a view binds to.
func Actions(f Fetcher) binding.Actions[tree.Value] {
	wrapped := binding.FromThunks(toDos.Thunks(map[string]state.Thunk[tree.Value]{
		ActionAdd: func(args ...any) state.Updater[tree.Value] {
			it, err := arg[Item](args, 0)
			if err != nil {
				return fail(err)
			}
			return addToDo(it)
		},
		ActionRemove: func(args ...any) state.Updater[tree.Value] {
			key, err := arg[string](args, 0)
			if err != nil {
				return fail(err)
			}
			return removeToDo(key)
		},
		ActionToggle: func(args ...any) state.Updater[tree.Value] {
			key, err := arg[string](args, 0)
			if err != nil {
				return fail(err)
			}
			finished, err := arg[bool](args, 1)
			if err != nil {
				return fail(err)
			}
			return toggleToDo(key, finished)
		},
		ActionRetrieve: func(...any) state.Updater[tree.Value] {
			return retrieveToDos(f)
		},
	}))

	return binding.Combine(wrapped, binding.Actions[tree.Value]{
		ActionSetLoading: func(args ...any) state.Sequence[tree.Value] {
			loading, err := arg[bool](args, 0)
			if err != nil {
				return state.InSequence(fail(err))
			}
			return state.InSequence(SetLoading(loading))
		},
		ActionStartRetrieve: func(...any) state.Sequence[tree.Value] {
			return StartRetrieving(f)
		},
	})
}

// Collection returns the toDos sub-tree of s.
func Collection(s tree.Value) tree.Map {
	todos, _ := toDosField.Get(s)
	return todos
}

// NextKey proposes a key for a new entry: one past the largest numeric key,
// or a random id once non-numeric keys are in use.
func NextKey(s tree.Value) string {
	highest := 0
	for key := range Collection(s) {
		n, err := strconv.Atoi(key)
		if err != nil {
			return uuid.NewString()[:8]
		}
		highest = max(highest, n)
	}
	return strconv.Itoa(highest + 1)
}

func arg[T any](args []any, i int) (T, error) {
	var zero T
	if i >= len(args) {
		return zero, fmt.Errorf("%w: missing argument %d", ErrBadArgument, i+1)
	}
	v, ok := args[i].(T)
	if !ok {
		return zero, fmt.Errorf("%w: argument %d is %T, want %T", ErrBadArgument, i+1, args[i], zero)
	}
	return v, nil
}

func fail(err error) state.Updater[tree.Value] {
	return func(context.Context, tree.Value) (tree.Value, error) {
		return nil, err
	}
}
