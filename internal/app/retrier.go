package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/five82/shelf/internal/state"
)

const maxBackoff = 30 * time.Second

// StartRetrier launches a goroutine that re-issues the current fetch after a
// failure, backing off exponentially while failures repeat. Any new fetch
// disarms the pending retry. A base of zero disables retrying. The returned
// channel is closed once the goroutine exits, which happens when ctx is
// cancelled or the store is closed.
func StartRetrier(ctx context.Context, store *state.ListStore, base time.Duration, logger *zap.Logger) <-chan struct{} {
	done := make(chan struct{})
	if base <= 0 {
		close(done)
		return done
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	changes, unsubscribe := store.Subscribe()
	go func() {
		defer close(done)
		defer unsubscribe()

		var (
			timer   *time.Timer
			fire    <-chan time.Time
			armedAt int
		)
		disarm := func() {
			if timer != nil {
				timer.Stop()
			}
			timer, fire, armedAt = nil, nil, 0
		}
		defer disarm()

		evaluate := func() {
			snap := store.Snapshot()
			switch {
			case snap.Loading || snap.Err == nil:
				disarm()
			case armedAt != snap.ConsecutiveFailures:
				disarm()
				delay := calculateBackoff(snap.ConsecutiveFailures-1, base)
				logger.Info("retry scheduled",
					zap.Int("consecutive_failures", snap.ConsecutiveFailures),
					zap.Duration("delay", delay),
					zap.Error(snap.Err),
				)
				timer = time.NewTimer(delay)
				fire = timer.C
				armedAt = snap.ConsecutiveFailures
			}
		}

		// A fetch may have failed before the subscription existed.
		evaluate()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-changes:
				if !ok {
					return
				}
				evaluate()
			case <-fire:
				timer, fire = nil, nil
				logger.Debug("retrying fetch")
				store.Refresh()
			}
		}
	}()
	return done
}

// calculateBackoff doubles base for every failure beyond the first,
// capped at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	delay := base
	for i := 0; i < failures; i++ {
		delay *= 2
		if delay >= maxBackoff {
			return maxBackoff
		}
	}
	return delay
}
