package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookreviews/internal/entities"
	"github.com/mrlokans/bookreviews/internal/events"
)

// memoryGateway keeps the last saved snapshot in memory.
type memoryGateway struct {
	mu      sync.Mutex
	snap    *entities.Snapshot
	saves   int
	loadErr error
	saveErr error
	block   chan struct{}
}

func (g *memoryGateway) Load(ctx context.Context) (*entities.Snapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.loadErr != nil {
		return nil, g.loadErr
	}
	if g.snap == nil {
		return nil, entities.ErrSnapshotNotFound
	}
	return g.snap.Clone(), nil
}

func (g *memoryGateway) Save(ctx context.Context, snap *entities.Snapshot) error {
	if g.block != nil {
		<-g.block
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.saves++
	if g.saveErr != nil {
		return g.saveErr
	}
	g.snap = snap.Clone()
	return nil
}

func (g *memoryGateway) saved() (*entities.Snapshot, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snap.Clone(), g.saves
}

// recordingPersister captures every snapshot handed over by the store.
type recordingPersister struct {
	mu    sync.Mutex
	snaps []*entities.Snapshot
}

func (p *recordingPersister) Persist(snap *entities.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snaps = append(p.snaps, snap)
}

func (p *recordingPersister) Close(context.Context) error { return nil }

func (p *recordingPersister) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.snaps)
}

func (p *recordingPersister) last() *entities.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.snaps) == 0 {
		return nil
	}
	return p.snaps[len(p.snaps)-1]
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func sequentialIDs() IDGenerator {
	var mu sync.Mutex
	n := 0
	return func(prefix string) string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

type testEnv struct {
	store     *Store
	gateway   *memoryGateway
	persister *recordingPersister
	relay     *events.Relay
	clock     *fakeClock
	events    []events.Event
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		gateway:   &memoryGateway{},
		persister: &recordingPersister{},
		relay:     events.NewRelay(),
		clock:     &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
	}
	env.relay.SubscribeAll(func(e events.Event) { env.events = append(env.events, e) })
	env.store = New(env.gateway, env.relay,
		WithPersister(env.persister),
		WithClock(env.clock.Now),
		WithIDGenerator(sequentialIDs()),
	)
	require.NoError(t, env.store.Initialize(context.Background()))
	return env
}

// asAdmin seeds an admin account and signs it in.
func (env *testEnv) asAdmin(t *testing.T) entities.User {
	t.Helper()
	admin, _, err := env.store.EnsureAdmin("Admin", "admin@example.com", "admin123")
	require.NoError(t, err)
	_, err = env.store.Login("admin@example.com", "admin123")
	require.NoError(t, err)
	env.events = nil
	return admin
}

func (env *testEnv) toasts() []events.Toast {
	var out []events.Toast
	for _, e := range env.events {
		if t, ok := e.(events.Toast); ok {
			out = append(out, t)
		}
	}
	return out
}
