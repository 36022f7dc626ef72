package tasks

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/bookreviews/internal/entities"
	"github.com/mrlokans/bookreviews/internal/store"
)

// PersistSnapshotTask carries a full snapshot to be written by a worker. Seq
// orders snapshots; a task whose Seq is older than the newest enqueued one is
// skipped because a later task already carries a superset of its state.
type PersistSnapshotTask struct {
	Seq      int64              `json:"seq"`
	Snapshot *entities.Snapshot `json:"snapshot"`
}

// Config returns the queue configuration for snapshot writes.
func (t PersistSnapshotTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "persist_snapshot",
		MaxAttempts: 5,
		Backoff:     5 * time.Second,
		Timeout:     30 * time.Second,
		Retention: &backlite.Retention{
			Duration:   time.Hour,
			OnlyFailed: true,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// OutboxPersister implements store.Persister on top of the task queue, so a
// failed write is retried by a worker instead of being lost.
type OutboxPersister struct {
	client   *Client
	gateway  store.Gateway
	onResult store.ResultFunc

	mu      sync.Mutex
	latest  int64
	saved   int64
	closed  bool
	lastErr error
}

// NewOutboxPersister creates the persister and registers its queue with the
// client. Must be called before client.Start. Tasks left over from an earlier
// process are older than any snapshot enqueued here and are skipped.
func NewOutboxPersister(client *Client, gateway store.Gateway, onResult store.ResultFunc) *OutboxPersister {
	p := &OutboxPersister{
		client:   client,
		gateway:  gateway,
		onResult: onResult,
		latest:   time.Now().UnixNano(),
	}
	p.saved = p.latest
	client.Register(backlite.NewQueue(p.process))
	return p
}

// Persist enqueues snap. Enqueue failures are reported through onResult.
func (p *OutboxPersister) Persist(snap *entities.Snapshot) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		log.Printf("[TASK] Dropping snapshot, outbox closed")
		return
	}
	seq := time.Now().UnixNano()
	if seq <= p.latest {
		seq = p.latest + 1
	}
	p.latest = seq
	p.mu.Unlock()

	if _, err := p.client.Add(PersistSnapshotTask{Seq: seq, Snapshot: snap}).Save(); err != nil {
		log.Printf("[TASK ERROR] Failed to enqueue snapshot %d: %v", seq, err)
		p.mu.Lock()
		p.lastErr = err
		p.mu.Unlock()
		if p.onResult != nil {
			// Persist runs under the store lock; report from outside it.
			go p.onResult(fmt.Errorf("enqueue snapshot: %w", err), 0)
		}
	}
}

// Close stops accepting snapshots and waits until the newest one has been
// written or ctx expires.
func (p *OutboxPersister) Close(ctx context.Context) error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	for {
		if p.Settled() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// LastError returns the error of the most recent write attempt, or nil if it
// succeeded.
func (p *OutboxPersister) LastError() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

// Settled reports whether the newest enqueued snapshot has been written.
func (p *OutboxPersister) Settled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.saved >= p.latest
}

func (p *OutboxPersister) process(ctx context.Context, task PersistSnapshotTask) error {
	p.mu.Lock()
	superseded := task.Seq < p.latest || task.Seq <= p.saved
	p.mu.Unlock()
	if superseded {
		log.Printf("[TASK] Skipping superseded snapshot %d", task.Seq)
		return nil
	}
	if task.Snapshot == nil {
		return fmt.Errorf("snapshot %d has no payload", task.Seq)
	}

	start := time.Now()
	err := p.gateway.Save(ctx, task.Snapshot)
	took := time.Since(start)
	if p.onResult != nil {
		p.onResult(err, took)
	}
	if err != nil {
		p.mu.Lock()
		p.lastErr = err
		p.mu.Unlock()
		return fmt.Errorf("persist snapshot %d: %w", task.Seq, err)
	}

	p.mu.Lock()
	p.lastErr = nil
	if task.Seq > p.saved {
		p.saved = task.Seq
	}
	p.mu.Unlock()

	log.Printf("[TASK] Persisted snapshot %d in %s", task.Seq, took.Round(time.Millisecond))
	return nil
}
