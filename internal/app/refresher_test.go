package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdujack2012/remic/internal/state"
	"github.com/sdujack2012/remic/internal/todo"
	"github.com/sdujack2012/remic/internal/tree"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 30 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 30 * time.Second},
		{"negative failures", -1, 30 * time.Second},
		{"one failure", 1, time.Minute},
		{"two failures", 2, 2 * time.Minute},
		{"four failures", 4, 8 * time.Minute},
		{"five failures capped", 5, 10 * time.Minute}, // Would be 16m, capped to 10m
		{"many failures capped", 50, 10 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, calculateBackoff(tt.failures, baseInterval))
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	baseInterval := 2 * time.Second
	for failures := 0; failures <= 64; failures++ {
		assert.LessOrEqual(t, calculateBackoff(failures, baseInterval), maxBackoff, "failures=%d", failures)
	}
}

func TestRefresh_RecordsFailureAndRecovers(t *testing.T) {
	store := state.New(todo.Initial())
	ctx := context.Background()

	var fail atomic.Bool
	fail.Store(true)
	fetcher := todo.FetcherFunc(func(context.Context) (tree.Map, error) {
		if fail.Load() {
			return nil, errors.New("daemon down")
		}
		return tree.Map{"1": todo.Item{Key: "1", Description: "back"}.Value()}, nil
	})

	require.Error(t, Refresh(ctx, store, fetcher, discardLogger()))
	s := store.Get()
	assert.False(t, todo.IsLoading(s), "loading clears after a failure")
	assert.Equal(t, 1, todo.Failures(s))

	fail.Store(false)
	require.NoError(t, Refresh(ctx, store, fetcher, discardLogger()))
	s = store.Get()
	assert.Zero(t, todo.Failures(s))
	assert.Empty(t, todo.LastError(s))
	assert.Equal(t, []todo.Item{{Key: "1", Description: "back"}}, todo.Items(s))
}

func TestStartRefresher_RepeatsUntilCancelled(t *testing.T) {
	store := state.New(todo.Initial())
	ctx, cancel := context.WithCancel(context.Background())

	var calls atomic.Int32
	fetcher := todo.FetcherFunc(func(context.Context) (tree.Map, error) {
		calls.Add(1)
		return tree.Map{}, nil
	})

	StartRefresher(ctx, store, fetcher, 5*time.Millisecond, discardLogger())

	require.Eventually(t, func() bool { return calls.Load() >= 3 }, 2*time.Second, time.Millisecond)
	cancel()

	time.Sleep(20 * time.Millisecond)
	settled := calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, settled, calls.Load(), "refresher kept running after cancel")
}

func TestStartRefresher_ZeroIntervalLoadsOnce(t *testing.T) {
	store := state.New(todo.Initial())
	done := make(chan struct{})
	fetcher := todo.FetcherFunc(func(context.Context) (tree.Map, error) {
		close(done)
		return tree.Map{}, nil
	})

	StartRefresher(context.Background(), store, fetcher, 0, discardLogger())

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("initial load never happened")
	}
}
