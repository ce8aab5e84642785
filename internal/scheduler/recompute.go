package scheduler

import (
	"context"
	"time"

	"github.com/lachiem1/pragati/internal/tracker"
)

// RecomputeJob advances t on every run and hands the result to observe.
// Runs after the tracker leaves the running state are cheap no-ops.
func RecomputeJob(t *tracker.Tracker, clock tracker.Clock, observe func(tracker.Snapshot, time.Duration)) func(context.Context) {
	return func(ctx context.Context) {
		began := time.Now()
		snap := t.Recompute(ctx, clock.Now())
		if observe != nil {
			observe(snap, time.Since(began))
		}
	}
}
