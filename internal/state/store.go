package state

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/sdujack2012/remic/internal/state"

// Option configures a Store.
type Option func(*options)

type options struct {
	name   string
	logger *slog.Logger
	tracer trace.Tracer
}

// WithName labels the store in logs and spans.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTracer overrides the tracer used for update spans. The default is the
// global OpenTelemetry tracer, which is a no-op until a provider is set.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) {
		if tracer != nil {
			o.tracer = tracer
		}
	}
}

type subscription[S any] struct {
	fn func(next, prev S)
}

// Store owns the current state and applies updaters to it one at a time.
type Store[S any] struct {
	id     string
	name   string
	logger *slog.Logger
	tracer trace.Tracer

	mu      sync.RWMutex
	state   S
	version uint64

	subMu sync.Mutex
	subs  []*subscription[S]

	queueMu sync.Mutex
	tail    chan struct{} // closed once the most recently queued call finishes
}

// New creates a store holding initial.
func New[S any](initial S, opts ...Option) *Store[S] {
	o := options{
		name:   "store",
		logger: slog.New(slog.DiscardHandler),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(&o)
	}

	tail := make(chan struct{})
	close(tail)

	return &Store[S]{
		id:     uuid.NewString(),
		name:   o.name,
		logger: o.logger.With("store", o.name),
		tracer: o.tracer,
		state:  initial,
		tail:   tail,
	}
}

// ID returns the unique id assigned at construction.
func (s *Store[S]) ID() string {
	return s.id
}

// Get returns the current state.
func (s *Store[S]) Get() S {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Version returns the number of commits applied so far.
func (s *Store[S]) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Select applies fn to the current state.
func Select[S, T any](s *Store[S], fn func(S) T) T {
	return fn(s.Get())
}

// Subscribe registers fn to run after every commit with the new and the
// previous state. Registrations are independent: subscribing the same
// function twice yields two calls per commit and two unsubscribe funcs.
// The returned func is idempotent.
//
// fn runs on the goroutine that committed and must not call Update
// synchronously.
func (s *Store[S]) Subscribe(fn func(next, prev S)) (unsubscribe func()) {
	sub := &subscription[S]{fn: fn}

	s.subMu.Lock()
	s.subs = append(s.subs[:len(s.subs):len(s.subs)], sub)
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { s.unsubscribe(sub) })
	}
}

func (s *Store[S]) unsubscribe(sub *subscription[S]) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	kept := make([]*subscription[S], 0, len(s.subs))
	for _, existing := range s.subs {
		if existing != sub {
			kept = append(kept, existing)
		}
	}
	s.subs = kept
}

func (s *Store[S]) subscribers() []*subscription[S] {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	return s.subs
}

// Update applies updaters in order. Each one sees the state committed by the
// one before it, and subscribers are notified after every individual commit.
// Concurrent calls are served in arrival order.
//
// If an updater fails, Update returns an *UpdateError; steps before it stay
// committed and steps after it never run. If ctx ends while the call is still
// waiting for its turn, ctx.Err() is returned and nothing is applied.
func (s *Store[S]) Update(ctx context.Context, updaters ...Updater[S]) (S, error) {
	ctx, span := s.tracer.Start(ctx, "remic.update", trace.WithAttributes(
		attribute.String("remic.store.id", s.id),
		attribute.String("remic.store.name", s.name),
		attribute.Int("remic.update.steps", len(updaters)),
	))
	defer span.End()

	var zero S
	release, err := s.acquire(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "wait for turn")
		return zero, err
	}
	defer release()

	for i, u := range updaters {
		if err := s.apply(ctx, i, len(updaters), u); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "updater failed")
			s.logger.Warn("update failed", "step", i+1, "steps", len(updaters), "error", err)
			return zero, err
		}
	}
	return s.Get(), nil
}

// acquire waits until every previously queued call has finished. The
// returned release func hands the turn to the next caller.
func (s *Store[S]) acquire(ctx context.Context) (func(), error) {
	done := make(chan struct{})

	s.queueMu.Lock()
	prev := s.tail
	s.tail = done
	s.queueMu.Unlock()

	release := func() { close(done) }

	select {
	case <-prev:
		return release, nil
	default:
	}

	select {
	case <-prev:
		return release, nil
	case <-ctx.Done():
		// Keep the chain intact for callers queued behind this one.
		go func() {
			<-prev
			close(done)
		}()
		return nil, ctx.Err()
	}
}

func (s *Store[S]) apply(ctx context.Context, step, total int, u Updater[S]) error {
	ctx, span := s.tracer.Start(ctx, "remic.apply", trace.WithAttributes(
		attribute.Int("remic.update.step", step),
	))
	defer span.End()

	prev := s.Get()
	next, err := run(ctx, u, prev)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "updater failed")
		return &UpdateError{Store: s.name, Step: step, Total: total, Err: err}
	}

	version := s.commit(next)
	span.SetAttributes(attribute.Int64("remic.store.version", int64(version)))
	s.notify(next, prev, version)
	return nil
}

func run[S any](ctx context.Context, u Updater[S], prev S) (next S, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrUpdaterPanic, r)
		}
	}()
	return u(ctx, prev)
}

func (s *Store[S]) commit(next S) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = next
	s.version++
	return s.version
}

func (s *Store[S]) notify(next, prev S, version uint64) {
	subs := s.subscribers()
	for i, sub := range subs {
		s.call(sub, next, prev, version, i)
	}
	s.logger.Debug("state committed", "version", version, "subscribers", len(subs))
}

func (s *Store[S]) call(sub *subscription[S], next, prev S, version uint64, index int) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("subscriber panicked", "version", version, "subscriber", index, "panic", r)
		}
	}()
	sub.fn(next, prev)
}
