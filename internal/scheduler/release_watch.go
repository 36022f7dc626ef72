package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mrlokans/bookreviews/internal/entities"
	"github.com/mrlokans/bookreviews/internal/events"
)

const ReleaseWatchJob = "release_watch"

// BookLister is the read side of the store used by the watcher.
type BookLister interface {
	ListBooks() []entities.Book
}

// ReleaseWatcher announces books whose release time passed since the previous
// check. Books released before the watcher was created are not announced.
type ReleaseWatcher struct {
	books BookLister
	relay *events.Relay
	clock func() time.Time

	mu       sync.Mutex
	lastTick entities.Timestamp
}

func NewReleaseWatcher(books BookLister, relay *events.Relay, clock func() time.Time) *ReleaseWatcher {
	if clock == nil {
		clock = time.Now
	}
	return &ReleaseWatcher{
		books:    books,
		relay:    relay,
		clock:    clock,
		lastTick: entities.FromTime(clock()),
	}
}

func (w *ReleaseWatcher) Name() string { return ReleaseWatchJob }

func (w *ReleaseWatcher) Run(ctx context.Context) {
	released := w.Check()
	if len(released) > 0 {
		log.Printf("[SCHEDULER] %d book(s) released", len(released))
	}
}

// Check emits BookReleased and an info toast for every book released in
// (previous check, now] and returns them.
func (w *ReleaseWatcher) Check() []entities.Book {
	now := entities.FromTime(w.clock())

	w.mu.Lock()
	since := w.lastTick
	if now > w.lastTick {
		w.lastTick = now
	}
	w.mu.Unlock()

	var released []entities.Book
	for _, b := range w.books.ListBooks() {
		if b.ReleaseAt == nil {
			continue
		}
		if at := *b.ReleaseAt; at.After(since) && !now.Before(at) {
			released = append(released, b)
		}
	}

	for _, b := range released {
		w.relay.Emit(events.BookReleased{Book: b})
		w.relay.Emit(events.Info(fmt.Sprintf("Now available: %s", b.Title)))
	}
	return released
}
