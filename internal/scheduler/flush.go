package scheduler

import (
	"context"
	"log"
	"time"
)

const FlushJob = "flush"

// Flusher writes the current state synchronously.
type Flusher interface {
	Flush(ctx context.Context) error
}

// PeriodicFlush periodically saves the full snapshot, so state survives even when
// a background write was lost.
type PeriodicFlush struct {
	store   Flusher
	timeout time.Duration
}

func NewPeriodicFlush(store Flusher, timeout time.Duration) *PeriodicFlush {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &PeriodicFlush{store: store, timeout: timeout}
}

func (f *PeriodicFlush) Name() string { return FlushJob }

func (f *PeriodicFlush) Run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	start := time.Now()
	if err := f.store.Flush(ctx); err != nil {
		log.Printf("[SCHEDULER] Flush failed: %v", err)
		return
	}
	log.Printf("[SCHEDULER] Flushed snapshot in %s", time.Since(start).Round(time.Millisecond))
}
