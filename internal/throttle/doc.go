// Package throttle turns a stream of commit notifications into render
// cycles that consumers can wait on.
//
// # Phases
//
//	          Notify / Current
//	  Idle ─────────────────────→ Pending ──(interval elapses)──→ Committing
//	   ↑                            ↑  │ Notify: absorbed               │
//	   │                            │  └────────────────               │
//	   │                            └──── notified while committing ───┤
//	   └──────────────────────────── nothing pending ──────────────────┘
//
// The first notification after a quiet period opens a cycle and starts the
// interval timer. Further notifications are absorbed into that cycle. When
// the timer fires, every observer registered with OnCycle runs once (the
// render), the cycle resolves (the settle), and the scheduler returns to
// Idle. A notification that arrives while observers are still running opens
// the next cycle, whose timer only starts after the current cycle settles.
// Consecutive cycles are therefore at least one interval apart, and a write
// is observed no later than one interval after the previous render settles.
//
// # Waiting for a cycle
//
// Current returns the cycle that will reflect every notification made before
// the call. If nothing is pending it opens a new cycle rather than returning
// one that already resolved, so waiting on it always terminates:
//
//	if _, err := store.Update(ctx, u); err != nil {
//		return err
//	}
//	if err := scheduler.Wait(ctx); err != nil {
//		return err
//	}
//	// every observer has seen the committed state
//
// Stop resolves any outstanding cycle, so shutting down never strands a
// waiter.
package throttle
