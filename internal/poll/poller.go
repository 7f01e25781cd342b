// Package poll provides the recurring-refresh primitive behind every
// live view: fetch on a fixed interval, reconcile results in issue order,
// stop cleanly when the owning view goes away.
package poll

import (
	"context"
	"sync"
	"time"
)

// Default refresh cadences, matching the views they drive.
const (
	ListInterval  = 5 * time.Second
	StatsInterval = 10 * time.Second
)

// Handle controls one running poller. Stop is safe to call more than once.
type Handle struct {
	cancel context.CancelFunc

	mu          sync.Mutex
	stopped     bool
	lastApplied uint64
}

// Stop cancels all future ticks. An in-flight fetch still runs to
// completion, but its result is discarded on arrival.
func (h *Handle) Stop() {
	h.mu.Lock()
	h.stopped = true
	h.mu.Unlock()
	h.cancel()
}

// deliver applies a tick's result if it is still the freshest one seen.
// Ticks carry the sequence they were issued with, so a slow early tick
// arriving after a later one is dropped rather than overwriting fresher
// data. Apply callbacks run serialized under the handle's lock.
func deliver[T any](h *Handle, seq uint64, value T, apply func(T)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped || seq <= h.lastApplied {
		return
	}
	h.lastApplied = seq
	apply(value)
}

// Start invokes fetch once immediately and then on every interval until
// the returned handle is stopped. Overlapping fetches are permitted; each
// runs in its own goroutine and results reconcile last-write-wins by
// issue order. A fetch error drops that tick — previously applied state
// stays in place and the next tick retries naturally.
func Start[T any](interval time.Duration, fetch func(ctx context.Context) (T, error), apply func(T)) *Handle {
	ctx, cancel := context.WithCancel(context.Background())
	h := &Handle{cancel: cancel}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		var seq uint64
		for {
			seq++
			go func(seq uint64) {
				value, err := fetch(ctx)
				if err != nil {
					return
				}
				deliver(h, seq, value, apply)
			}(seq)

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	return h
}
