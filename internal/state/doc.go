// Package state provides the update queue at the heart of remic.
//
// # Overview
//
// A Store owns exactly one value, the current state. Nothing else may replace
// it. Callers describe changes as Updaters, functions from the current state
// to the next one, and hand them to Update. The store applies them one at a
// time, commits each result, and tells its subscribers.
//
// # Architecture
//
//	Callers (any goroutine):        Store:                      Subscribers:
//	┌──────────────────┐           ┌──────────────────────┐    ┌──────────────┐
//	│ Update(ctx, u1)  │──ticket──→│ wait for turn (FIFO) │    │              │
//	│ Update(ctx, u2,  │──ticket──→│ prev := Get()        │    │              │
//	│        u3)       │           │ next := u(ctx, prev) │    │              │
//	└──────────────────┘           │ commit(next)         │───→│ fn(next,prev)│
//	                               │ next updater...      │    │ in order     │
//	                               └──────────────────────┘    └──────────────┘
//
// Each call to Update takes a ticket: a channel that will be closed when the
// call finishes. It then waits for the ticket of the call that arrived just
// before it. This gives a strict first-come first-served order without a
// worker goroutine; the calling goroutine runs its own updaters.
//
// # Core Types
//
// Store[S]:
//   - Generic over the state type; remic's own code uses tree.Value
//   - Get for synchronous reads (RWMutex, safe from any goroutine)
//   - Subscribe/unsubscribe with per-registration identity
//   - Update for serialized writes
//
// Updater[S], Thunk[S], Sequence[S]:
//   - Updater is the unit of change and may block
//   - Thunk builds an Updater from arguments (a key to remove, a flag to set)
//   - Sequence is an ordered []Updater applied as separate commits
//
// Partial[S, P]:
//   - Lets an updater written for a sub-state run against the whole state
//   - Path builds one over a dotted path using package lens
//   - Custom accepts any reader/writer pair
//
// # Update Semantics
//
//	store.Update(ctx, u1, u2, u3)
//	→ u1 reads v0, commit v1, notify(v1, v0)
//	→ u2 reads v1, commit v2, notify(v2, v1)
//	→ u3 reads v2, commit v3, notify(v3, v2)
//	→ returns v3
//
// If u2 fails the call returns an *UpdateError for step 2, v1 stays
// committed and u3 never runs. There is no rollback. The queue is not
// poisoned: the next caller in line proceeds normally.
//
// Merge is the alternative when intermediate versions should not be
// visible: it folds several updaters into one and the store commits only
// the final result.
//
// # Concurrency Model
//
//   - Updaters never run concurrently with each other
//   - A subscriber always receives as prev the commit directly before next
//   - Subscribers are called synchronously, in registration order, before
//     the following updater starts
//   - A subscriber that calls Update synchronously deadlocks; hand the work
//     to another goroutine instead
//
// An updater that never returns blocks every caller queued behind it. The
// store does not time updaters out. Callers that need liveness pass a ctx
// with a deadline: a call still waiting for its turn gives up with ctx.Err(),
// and well-behaved updaters (see Delay) return when ctx ends.
//
// # Failure Isolation
//
// A panicking updater is recovered and reported as an UpdateError wrapping
// ErrUpdaterPanic. A panicking subscriber is recovered and logged; the
// commit stands and the remaining subscribers are still notified.
//
// # Usage Example
//
//	store := state.New[tree.Value](tree.Map{
//		"toDos":         tree.Map{},
//		"loadingStatus": tree.Map{"isLoadingToDos": tree.Bool(true)},
//	})
//
//	unsubscribe := store.Subscribe(func(next, prev tree.Value) {
//		render(next)
//	})
//	defer unsubscribe()
//
//	todos := state.Path("toDos")
//	add := todos.Updater(state.Func(func(v tree.Value) tree.Value {
//		return lens.Write(v, "5", tree.Map{"description": tree.String("todo5")})
//	}))
//	if _, err := store.Update(ctx, add); err != nil {
//		return err
//	}
//
// # Observability
//
// WithLogger attaches a *slog.Logger (commits at debug, failures at warn,
// subscriber panics at error). Update and each applied step are traced as
// remic.update and remic.apply spans on the global OpenTelemetry tracer
// unless WithTracer supplies another.
package state
