package throttle

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultInterval is the rerender interval used when none is configured.
const DefaultInterval = 16 * time.Millisecond

// Phase is the scheduler's position in the render cycle.
type Phase int

const (
	// Idle means nothing is waiting to be observed.
	Idle Phase = iota
	// Pending means a cycle is open and its interval timer is running (or
	// will start once the current commit settles).
	Pending
	// Committing means observers are running for a cycle.
	Committing
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Committing:
		return "committing"
	default:
		return "unknown"
	}
}

// Cycle is one externally visible render cycle. It resolves after every
// observer has run for it.
type Cycle struct {
	seq  uint64
	done chan struct{}
}

func newCycle(seq uint64) *Cycle {
	return &Cycle{seq: seq, done: make(chan struct{})}
}

// Seq returns the cycle's sequence number, starting at 1.
func (c *Cycle) Seq() uint64 {
	return c.seq
}

// Done returns a channel closed when the cycle has been observed.
func (c *Cycle) Done() <-chan struct{} {
	return c.done
}

// Wait blocks until the cycle has been observed or ctx ends.
func (c *Cycle) Wait(ctx context.Context) error {
	select {
	case <-c.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type observer struct {
	fn func(seq uint64)
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Scheduler coalesces commit notifications into render cycles fired at most
// once per interval.
type Scheduler struct {
	interval time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	phase   Phase
	pending *Cycle
	timer   *time.Timer
	seq     uint64
	fired   uint64
	stopped bool

	obsMu     sync.Mutex
	observers []*observer
}

// New creates a scheduler. A negative interval is treated as zero.
func New(interval time.Duration, opts ...Option) *Scheduler {
	if interval < 0 {
		interval = 0
	}
	s := &Scheduler{
		interval: interval,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Interval returns the minimum time between cycles.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Phase returns the current phase.
func (s *Scheduler) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Count returns the number of cycles fired so far.
func (s *Scheduler) Count() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fired
}

// OnCycle registers fn to run once per fired cycle, before the cycle
// resolves. Observers run on the scheduler's timer goroutine in
// registration order. The returned func is idempotent.
func (s *Scheduler) OnCycle(fn func(seq uint64)) (unsubscribe func()) {
	obs := &observer{fn: fn}

	s.obsMu.Lock()
	s.observers = append(s.observers[:len(s.observers):len(s.observers)], obs)
	s.obsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.obsMu.Lock()
			defer s.obsMu.Unlock()
			kept := make([]*observer, 0, len(s.observers))
			for _, existing := range s.observers {
				if existing != obs {
					kept = append(kept, existing)
				}
			}
			s.observers = kept
		})
	}
}

// Notify records that a commit happened. It opens a cycle when none is
// pending and is absorbed otherwise.
func (s *Scheduler) Notify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped || s.pending != nil {
		return
	}
	s.open()
}

// Current returns the cycle that will reflect every commit notified before
// the call. When nothing is pending a new cycle is opened, so the result
// always resolves within one interval of the scheduler settling.
func (s *Scheduler) Current() *Cycle {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		c := newCycle(s.seq)
		close(c.done)
		return c
	}
	if s.pending == nil {
		s.open()
	}
	return s.pending
}

// Wait is shorthand for Current().Wait(ctx).
func (s *Scheduler) Wait(ctx context.Context) error {
	return s.Current().Wait(ctx)
}

// Stop cancels the timer and resolves the pending cycle. Later calls to
// Current return resolved cycles.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	c := s.pending
	s.pending = nil
	if s.phase == Pending {
		s.phase = Idle
	}
	s.mu.Unlock()

	if c != nil {
		close(c.done)
	}
}

// open creates the pending cycle. The timer starts now unless a commit is
// in flight, in which case fire starts it once observers have settled.
// Callers hold s.mu.
func (s *Scheduler) open() {
	s.seq++
	s.pending = newCycle(s.seq)
	if s.phase == Idle {
		s.phase = Pending
		s.timer = time.AfterFunc(s.interval, s.fire)
	}
}

func (s *Scheduler) fire() {
	s.mu.Lock()
	c := s.pending
	if c == nil || s.stopped {
		s.mu.Unlock()
		return
	}
	s.pending = nil
	s.timer = nil
	s.phase = Committing
	s.fired++
	s.mu.Unlock()

	start := time.Now()
	s.render(c.seq)
	close(c.done)
	s.logger.Debug("render cycle fired", "cycle", c.seq, "took", time.Since(start))

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending != nil && !s.stopped {
		s.phase = Pending
		s.timer = time.AfterFunc(s.interval, s.fire)
		return
	}
	s.phase = Idle
}

func (s *Scheduler) render(seq uint64) {
	s.obsMu.Lock()
	observers := s.observers
	s.obsMu.Unlock()

	for i, obs := range observers {
		s.call(obs, seq, i)
	}
}

func (s *Scheduler) call(obs *observer, seq uint64, index int) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("cycle observer panicked", "cycle", seq, "observer", index, "panic", r)
		}
	}()
	obs.fn(seq)
}
