package state

import (
	"context"
	"fmt"

	"github.com/sdujack2012/remic/internal/lens"
	"github.com/sdujack2012/remic/internal/tree"
)

// Partial narrows updaters written for a sub-state P so they can be applied
// to a whole state S.
type Partial[S, P any] struct {
	read  func(S) P
	write func(S, P) S
	label string
}

// Custom builds a Partial from an arbitrary reader and writer, for lenses
// that are not plain paths (indirect lookups, struct fields).
func Custom[S, P any](read func(S) P, write func(S, P) S) *Partial[S, P] {
	return &Partial[S, P]{read: read, write: write}
}

// Path builds a Partial addressing the sub-tree at a dotted path. An absent
// sub-tree is handed to the wrapped updater as nil.
func Path(path string) *Partial[tree.Value, tree.Value] {
	p := Custom(
		func(s tree.Value) tree.Value {
			v, _ := lens.Read(s, path)
			return v
		},
		func(s, sub tree.Value) tree.Value {
			return lens.Write(s, path, sub)
		},
	)
	p.label = path
	return p
}

// Updater wraps u so it reads its input from, and writes its result back to,
// the addressed sub-state.
func (p *Partial[S, P]) Updater(u Updater[P]) Updater[S] {
	return func(ctx context.Context, s S) (S, error) {
		next, err := u(ctx, p.read(s))
		if err != nil {
			var zero S
			if p.label != "" {
				return zero, fmt.Errorf("%s: %w", p.label, err)
			}
			return zero, err
		}
		return p.write(s, next), nil
	}
}

// Thunk wraps t, keeping its parameters.
func (p *Partial[S, P]) Thunk(t Thunk[P]) Thunk[S] {
	return func(args ...any) Updater[S] {
		return p.Updater(t(args...))
	}
}

// Thunks wraps every entry of m and returns a map with the same keys.
func (p *Partial[S, P]) Thunks(m map[string]Thunk[P]) map[string]Thunk[S] {
	out := make(map[string]Thunk[S], len(m))
	for name, t := range m {
		out[name] = p.Thunk(t)
	}
	return out
}

// Lift wraps a typed single-argument updater factory.
func Lift[S, P, A any](p *Partial[S, P], fn func(A) Updater[P]) func(A) Updater[S] {
	return func(arg A) Updater[S] {
		return p.Updater(fn(arg))
	}
}
