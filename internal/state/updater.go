package state

import (
	"context"
	"fmt"
	"time"
)

// Updater transforms a state into its next version. It may block (timers,
// file reads, network calls) and should return early when ctx ends.
type Updater[S any] func(ctx context.Context, s S) (S, error)

// Thunk builds an Updater from arguments, e.g. the key of an entry to remove.
type Thunk[S any] func(args ...any) Updater[S]

// Sequence is an ordered list of updaters applied as separate commits by a
// single Update call.
type Sequence[S any] []Updater[S]

// InSequence groups updaters so they are applied in order within one logical
// operation:
//
//	store.Update(ctx, state.InSequence(markLoading, fetch, clearLoading)...)
func InSequence[S any](updaters ...Updater[S]) Sequence[S] {
	return Sequence[S](updaters)
}

// Merge composes updaters into one, feeding each result into the next. The
// store commits only the final result. The first error stops the chain.
func Merge[S any](updaters ...Updater[S]) Updater[S] {
	return func(ctx context.Context, s S) (S, error) {
		for i, u := range updaters {
			next, err := u(ctx, s)
			if err != nil {
				var zero S
				return zero, fmt.Errorf("merged updater %d: %w", i+1, err)
			}
			s = next
		}
		return s, nil
	}
}

// Func lifts a pure transformation into an Updater.
func Func[S any](fn func(S) S) Updater[S] {
	return func(_ context.Context, s S) (S, error) {
		return fn(s), nil
	}
}

// Replace returns an Updater that discards the current state in favour of v.
func Replace[S any](v S) Updater[S] {
	return func(context.Context, S) (S, error) {
		return v, nil
	}
}

// Delay waits d before running u. It fails with ctx.Err() if ctx ends first.
func Delay[S any](d time.Duration, u Updater[S]) Updater[S] {
	return func(ctx context.Context, s S) (S, error) {
		if d > 0 {
			timer := time.NewTimer(d)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				var zero S
				return zero, ctx.Err()
			case <-timer.C:
			}
		}
		return u(ctx, s)
	}
}
