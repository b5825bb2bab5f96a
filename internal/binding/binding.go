package binding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sdujack2012/remic/internal/state"
	"github.com/sdujack2012/remic/internal/throttle"
)

var (
	// ErrUnknownAction is returned by Invoke for names that were not bound.
	ErrUnknownAction = errors.New("unknown action")
	// ErrClosed is returned by Invoke after the provider was closed.
	ErrClosed = errors.New("provider closed")
)

// Selectors maps prop names to pure read functions over the state.
type Selectors[S any] map[string]func(S) any

// Action builds the updaters for one named write. Most actions yield a
// single updater; multi-step operations return a sequence.
type Action[S any] func(args ...any) state.Sequence[S]

// Actions maps names to actions.
type Actions[S any] map[string]Action[S]

// FromThunk adapts a thunk into a single-step action.
func FromThunk[S any](t state.Thunk[S]) Action[S] {
	return func(args ...any) state.Sequence[S] {
		return state.InSequence(t(args...))
	}
}

// FromThunks adapts every thunk in m.
func FromThunks[S any](m map[string]state.Thunk[S]) Actions[S] {
	out := make(Actions[S], len(m))
	for name, t := range m {
		out[name] = FromThunk(t)
	}
	return out
}

// Combine merges action maps. Later maps win on duplicate names.
func Combine[S any](sets ...Actions[S]) Actions[S] {
	out := make(Actions[S])
	for _, set := range sets {
		maps.Copy(out, set)
	}
	return out
}

// ProviderOption configures a Provider.
type ProviderOption func(*providerOptions)

type providerOptions struct {
	interval time.Duration
	logger   *slog.Logger
}

// WithInterval sets the rerender interval. The default is
// throttle.DefaultInterval.
func WithInterval(d time.Duration) ProviderOption {
	return func(o *providerOptions) { o.interval = d }
}

// WithLogger passes a logger to the provider's scheduler.
func WithLogger(logger *slog.Logger) ProviderOption {
	return func(o *providerOptions) { o.logger = logger }
}

// Provider pairs a store with the scheduler that renders it. Every commit
// on the store is reported to the scheduler.
type Provider[S any] struct {
	store       *state.Store[S]
	scheduler   *throttle.Scheduler
	unsubscribe func()
	closed      atomic.Bool
}

// NewProvider subscribes a new scheduler to store.
func NewProvider[S any](store *state.Store[S], opts ...ProviderOption) *Provider[S] {
	o := providerOptions{interval: throttle.DefaultInterval}
	for _, opt := range opts {
		opt(&o)
	}

	scheduler := throttle.New(o.interval, throttle.WithLogger(o.logger))
	unsubscribe := store.Subscribe(func(_, _ S) { scheduler.Notify() })

	return &Provider[S]{
		store:       store,
		scheduler:   scheduler,
		unsubscribe: unsubscribe,
	}
}

// Store returns the bound store.
func (p *Provider[S]) Store() *state.Store[S] {
	return p.store
}

// Scheduler returns the provider's scheduler. Renderers register with its
// OnCycle.
func (p *Provider[S]) Scheduler() *throttle.Scheduler {
	return p.scheduler
}

// WaitCycle blocks until the next render cycle reflecting every commit made
// so far has been observed.
func (p *Provider[S]) WaitCycle(ctx context.Context) error {
	return p.scheduler.Wait(ctx)
}

// Close detaches the scheduler from the store and stops it. Pending waits
// resolve immediately.
func (p *Provider[S]) Close() {
	if p.closed.Swap(true) {
		return
	}
	p.unsubscribe()
	p.scheduler.Stop()
}

// Bound is a consumer's view of a provider: selected props plus named
// actions.
type Bound[S any] struct {
	provider  *Provider[S]
	selectors Selectors[S]
	actions   Actions[S]
}

// Connect binds selectors and actions to a provider. Either map may be nil.
func Connect[S any](p *Provider[S], selectors Selectors[S], actions Actions[S]) *Bound[S] {
	return &Bound[S]{provider: p, selectors: selectors, actions: actions}
}

// Props evaluates every selector against the current state.
func (b *Bound[S]) Props() map[string]any {
	return selectAll(b.selectors, b.provider.store.Get())
}

// Names returns the bound action names in sorted order.
func (b *Bound[S]) Names() []string {
	return slices.Sorted(maps.Keys(b.actions))
}

// Invoke runs the named action through the store, then waits for the render
// cycle that reflects it. It returns the state committed by the action.
//
// If the wait is cut short by ctx the committed state is still returned,
// together with ctx's error.
func (b *Bound[S]) Invoke(ctx context.Context, name string, args ...any) (S, error) {
	var zero S
	if b.provider.closed.Load() {
		return zero, ErrClosed
	}
	action, ok := b.actions[name]
	if !ok {
		return zero, fmt.Errorf("%w: %q", ErrUnknownAction, name)
	}

	next, err := b.provider.store.Update(ctx, action(args...)...)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", name, err)
	}
	if err := b.provider.WaitCycle(ctx); err != nil {
		return next, fmt.Errorf("%s: wait for render: %w", name, err)
	}
	return next, nil
}

// Hooked is the imperative form of Bound. It holds a selection that is
// refreshed from the state each successful Invoke returns.
type Hooked[S any] struct {
	*Bound[S]

	mu       sync.Mutex
	selected map[string]any
}

// Hook binds selectors and actions and takes an initial selection.
func Hook[S any](p *Provider[S], selectors Selectors[S], actions Actions[S]) *Hooked[S] {
	b := Connect(p, selectors, actions)
	return &Hooked[S]{Bound: b, selected: b.Props()}
}

// Selected returns the held selection.
func (h *Hooked[S]) Selected() map[string]any {
	h.mu.Lock()
	defer h.mu.Unlock()
	return maps.Clone(h.selected)
}

// Invoke behaves like Bound.Invoke and refreshes the held selection.
func (h *Hooked[S]) Invoke(ctx context.Context, name string, args ...any) (S, error) {
	next, err := h.Bound.Invoke(ctx, name, args...)
	if err != nil {
		return next, err
	}

	h.mu.Lock()
	h.selected = selectAll(h.selectors, next)
	h.mu.Unlock()
	return next, nil
}

func selectAll[S any](selectors Selectors[S], s S) map[string]any {
	out := make(map[string]any, len(selectors))
	for name, sel := range selectors {
		out[name] = sel(s)
	}
	return out
}
