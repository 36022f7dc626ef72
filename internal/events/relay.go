package events

import "sync"

// Handler receives an emitted event.
type Handler func(Event)

type subscription struct {
	id      uint64
	handler Handler
}

// Relay is a topic-keyed observer registry. The zero value is not usable;
// create one with NewRelay.
type Relay struct {
	mu     sync.RWMutex
	nextID uint64
	topics map[Topic][]subscription
	all    []subscription
}

func NewRelay() *Relay {
	return &Relay{topics: make(map[Topic][]subscription)}
}

// Subscribe registers h for a single topic and returns a function that
// removes it. Calling the returned function more than once is a no-op.
func (r *Relay) Subscribe(topic Topic, h Handler) func() {
	r.mu.Lock()
	r.nextID++
	id := r.nextID
	r.topics[topic] = append(r.topics[topic], subscription{id: id, handler: h})
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.topics[topic] = without(r.topics[topic], id)
	}
}

// SubscribeAll registers h for every topic.
func (r *Relay) SubscribeAll(h Handler) func() {
	r.mu.Lock()
	r.nextID++
	id := r.nextID
	r.all = append(r.all, subscription{id: id, handler: h})
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.all = without(r.all, id)
	}
}

// Emit delivers e to the topic's subscribers in subscription order, then to
// the catch-all subscribers. Handlers run on the caller's goroutine.
func (r *Relay) Emit(e Event) {
	if r == nil || e == nil {
		return
	}

	r.mu.RLock()
	targets := make([]Handler, 0, len(r.topics[e.Topic()])+len(r.all))
	for _, s := range r.topics[e.Topic()] {
		targets = append(targets, s.handler)
	}
	for _, s := range r.all {
		targets = append(targets, s.handler)
	}
	r.mu.RUnlock()

	for _, h := range targets {
		h(e)
	}
}

// On subscribes a handler typed to a single event type.
func On[E Event](r *Relay, fn func(E)) func() {
	var zero E
	return r.Subscribe(zero.Topic(), func(e Event) {
		if typed, ok := e.(E); ok {
			fn(typed)
		}
	})
}

func without(subs []subscription, id uint64) []subscription {
	out := make([]subscription, 0, len(subs))
	for _, s := range subs {
		if s.id != id {
			out = append(out, s)
		}
	}
	return out
}
