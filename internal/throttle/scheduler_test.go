package throttle

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitCycle(t *testing.T, c *Cycle) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, c.Wait(ctx), "cycle %d never resolved", c.Seq())
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "pending", Pending.String())
	assert.Equal(t, "committing", Committing.String())
	assert.Equal(t, "unknown", Phase(42).String())
}

func TestNew_ClampsNegativeInterval(t *testing.T) {
	assert.Equal(t, time.Duration(0), New(-time.Second).Interval())
	assert.Equal(t, 5*time.Millisecond, New(5*time.Millisecond).Interval())
}

func TestNotify_OpensCycleAfterInterval(t *testing.T) {
	const interval = 30 * time.Millisecond
	s := New(interval)
	defer s.Stop()

	var renders atomic.Int32
	s.OnCycle(func(uint64) { renders.Add(1) })

	assert.Equal(t, Idle, s.Phase())
	start := time.Now()
	s.Notify()
	assert.Equal(t, Pending, s.Phase())

	c := s.Current()
	waitCycle(t, c)

	assert.GreaterOrEqual(t, time.Since(start), interval)
	assert.Equal(t, int32(1), renders.Load())
	assert.Equal(t, uint64(1), s.Count())
	assert.Eventually(t, func() bool { return s.Phase() == Idle }, time.Second, time.Millisecond)
}

func TestNotify_CoalescesBurst(t *testing.T) {
	s := New(40 * time.Millisecond)
	defer s.Stop()

	var renders atomic.Int32
	s.OnCycle(func(uint64) { renders.Add(1) })

	first := s.Current()
	for range 100 {
		s.Notify()
		assert.Same(t, first, s.Current(), "notifications inside a window share one cycle")
	}
	waitCycle(t, first)

	assert.Equal(t, int32(1), renders.Load())
	assert.Equal(t, uint64(1), s.Count())
}

func TestCurrent_WhenIdleStillResolves(t *testing.T) {
	s := New(10 * time.Millisecond)
	defer s.Stop()

	c := s.Current()
	waitCycle(t, c)
	assert.Equal(t, uint64(1), c.Seq())
	assert.Equal(t, uint64(1), s.Count())

	next := s.Current()
	assert.NotSame(t, c, next, "a settled cycle is never handed out again")
	waitCycle(t, next)
}

func TestCycleCountBound(t *testing.T) {
	const interval = 20 * time.Millisecond
	s := New(interval)
	defer s.Stop()

	var renders atomic.Int32
	s.OnCycle(func(uint64) { renders.Add(1) })

	start := time.Now()
	deadline := start.Add(150 * time.Millisecond)
	for time.Now().Before(deadline) {
		s.Notify()
		time.Sleep(time.Millisecond)
	}
	waitCycle(t, s.Current())
	elapsed := time.Since(start)

	bound := int32(math.Ceil(float64(elapsed)/float64(interval))) + 1
	assert.LessOrEqual(t, renders.Load(), bound, "elapsed %v", elapsed)
	assert.GreaterOrEqual(t, renders.Load(), int32(2), "continuous writes are still observed")
}

func TestCycle_ObservesWriteMadeBeforeRequest(t *testing.T) {
	s := New(15 * time.Millisecond)
	defer s.Stop()

	var (
		latest   atomic.Int64
		observed atomic.Int64
	)
	s.OnCycle(func(uint64) { observed.Store(latest.Load()) })

	for i := int64(1); i <= 20; i++ {
		latest.Store(i)
		s.Notify()
		c := s.Current()
		waitCycle(t, c)
		assert.GreaterOrEqual(t, observed.Load(), i, "cycle resolved before write %d was visible", i)
		if i%5 == 0 {
			time.Sleep(20 * time.Millisecond)
		}
	}
}

func TestCurrent_DuringCommitReturnsNextCycle(t *testing.T) {
	s := New(5 * time.Millisecond)
	defer s.Stop()

	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	var seqs []uint64
	var mu sync.Mutex
	s.OnCycle(func(seq uint64) {
		mu.Lock()
		seqs = append(seqs, seq)
		mu.Unlock()
		once.Do(func() {
			close(entered)
			<-release
		})
	})

	first := s.Current()
	<-entered
	assert.Equal(t, Committing, s.Phase())

	s.Notify()
	second := s.Current()
	assert.NotSame(t, first, second)
	assert.Greater(t, second.Seq(), first.Seq())

	select {
	case <-second.Done():
		t.Fatal("next cycle resolved while the previous one was still committing")
	default:
	}

	close(release)
	waitCycle(t, first)
	waitCycle(t, second)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []uint64{first.Seq(), second.Seq()}, seqs)
}

func TestOnCycle_UnsubscribeAndPanicIsolation(t *testing.T) {
	s := New(0)
	defer s.Stop()

	var calls []string
	var mu sync.Mutex
	s.OnCycle(func(uint64) { panic("bad observer") })
	unsub := s.OnCycle(func(uint64) {
		mu.Lock()
		calls = append(calls, "removed")
		mu.Unlock()
	})
	s.OnCycle(func(uint64) {
		mu.Lock()
		calls = append(calls, "kept")
		mu.Unlock()
	})

	unsub()
	unsub()
	waitCycle(t, s.Current())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"kept"}, calls)
}

func TestStop_ResolvesWaiters(t *testing.T) {
	s := New(time.Hour)

	c := s.Current()
	s.Stop()
	waitCycle(t, c)

	after := s.Current()
	waitCycle(t, after)
	assert.Equal(t, uint64(0), s.Count())

	s.Notify()
	s.Stop()
	assert.Equal(t, Idle, s.Phase())
}

func TestWait_HonoursContext(t *testing.T) {
	s := New(time.Hour)
	defer s.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.Wait(ctx), context.DeadlineExceeded)
}
