package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/sdujack2012/remic/internal/state"
	"github.com/sdujack2012/remic/internal/todo"
	"github.com/sdujack2012/remic/internal/tree"
)

const maxBackoff = 10 * time.Minute

// StartRefresher launches a background goroutine that reloads the to-dos
// from fetcher: once immediately, then every interval. Consecutive failures
// stretch the wait up to maxBackoff. A non-positive interval loads once and
// stops. It returns immediately.
func StartRefresher(ctx context.Context, store *state.Store[tree.Value], fetcher todo.Fetcher, interval time.Duration, logger *slog.Logger) {
	go func() {
		for {
			_ = Refresh(ctx, store, fetcher, logger)
			if interval <= 0 {
				return
			}

			timer := time.NewTimer(calculateBackoff(todo.Failures(store.Get()), interval))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}
	}()
}

// Refresh runs one retrieval sequence. A failure is recorded in the state
// so views can show it; the previous to-dos stay in place.
func Refresh(ctx context.Context, store *state.Store[tree.Value], fetcher todo.Fetcher, logger *slog.Logger) error {
	_, err := store.Update(ctx, todo.StartRetrieving(fetcher)...)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return err
	}

	next, recErr := store.Update(ctx, todo.RecordFailure(err))
	if recErr != nil {
		logger.Error("record refresh failure", "err", recErr)
		return err
	}
	logger.Warn("refresh failed", "err", err, "failures", todo.Failures(next))
	return err
}

// calculateBackoff doubles base for every consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	backoff := base
	for range failures {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}
