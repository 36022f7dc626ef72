package store

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/mrlokans/bookreviews/internal/entities"
)

// DefaultPersistTimeout bounds a single background save.
const DefaultPersistTimeout = 10 * time.Second

// ResultFunc is told the outcome and duration of every background save.
type ResultFunc func(err error, took time.Duration)

// AsyncPersister saves snapshots on a background goroutine. Snapshots that
// arrive while a save is in flight are coalesced so only the newest is
// written next; the last write always carries the latest state.
type AsyncPersister struct {
	gateway  Gateway
	timeout  time.Duration
	onResult ResultFunc

	mu      sync.Mutex
	closed  bool
	lastErr error
	pending chan *entities.Snapshot
	done    chan struct{}
}

// NewAsyncPersister starts the background writer. onResult may be nil.
func NewAsyncPersister(gateway Gateway, timeout time.Duration, onResult ResultFunc) *AsyncPersister {
	if timeout <= 0 {
		timeout = DefaultPersistTimeout
	}
	p := &AsyncPersister{
		gateway:  gateway,
		timeout:  timeout,
		onResult: onResult,
		pending:  make(chan *entities.Snapshot, 1),
		done:     make(chan struct{}),
	}
	go p.run()
	return p
}

// Persist queues snap, replacing any snapshot still waiting to be written.
func (p *AsyncPersister) Persist(snap *entities.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		log.Printf("[PERSIST] Dropping snapshot, persister closed")
		return
	}

	select {
	case p.pending <- snap:
	default:
		select {
		case <-p.pending:
		default:
		}
		p.pending <- snap
	}
}

// Close stops accepting snapshots and waits until the queued one is written.
func (p *AsyncPersister) Close(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.pending)
	}
	p.mu.Unlock()

	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LastError returns the error of the most recent save, or nil if it succeeded.
func (p *AsyncPersister) LastError() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

func (p *AsyncPersister) run() {
	defer close(p.done)

	for snap := range p.pending {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		start := time.Now()
		err := p.gateway.Save(ctx, snap)
		took := time.Since(start)
		cancel()

		if err != nil {
			log.Printf("[PERSIST] Failed to save snapshot: %v", err)
		}

		p.mu.Lock()
		p.lastErr = err
		p.mu.Unlock()

		if p.onResult != nil {
			p.onResult(err, took)
		}
	}
}
