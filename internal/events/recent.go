package events

import (
	"sync"
	"time"
)

// Notification is a recorded toast.
type Notification struct {
	Seq      uint64    `json:"seq"`
	Severity Severity  `json:"severity"`
	Message  string    `json:"message"`
	At       time.Time `json:"at"`
}

// Recent keeps the last few toasts so clients that poll can show them.
type Recent struct {
	mu    sync.RWMutex
	limit int
	seq   uint64
	items []Notification
}

// NewRecent creates a buffer holding at most limit toasts.
func NewRecent(limit int) *Recent {
	if limit <= 0 {
		limit = 50
	}
	return &Recent{limit: limit}
}

// Attach subscribes the buffer to toasts on r.
func (b *Recent) Attach(r *Relay) func() {
	return On(r, b.record)
}

func (b *Recent) record(t Toast) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.seq++
	b.items = append(b.items, Notification{Seq: b.seq, Severity: t.Severity, Message: t.Message, At: time.Now().UTC()})
	if len(b.items) > b.limit {
		b.items = b.items[len(b.items)-b.limit:]
	}
}

// Since returns buffered toasts with a sequence number greater than after,
// oldest first.
func (b *Recent) Since(after uint64) []Notification {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Notification, 0, len(b.items))
	for _, n := range b.items {
		if n.Seq > after {
			out = append(out, n)
		}
	}
	return out
}
