// Package store owns the application state: users, books, reviews and the
// session pointer. Reads are served from memory; every mutation hands a copy
// of the new state to a Persister and emits notifications on the relay.
package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mrlokans/bookreviews/internal/entities"
	"github.com/mrlokans/bookreviews/internal/events"
)

// Gateway loads and saves the whole snapshot. Load returns an error matching
// entities.ErrSnapshotNotFound or entities.ErrInvalidSnapshot when there is
// nothing usable to load.
type Gateway interface {
	Load(ctx context.Context) (*entities.Snapshot, error)
	Save(ctx context.Context, snap *entities.Snapshot) error
}

// SourceLoader is implemented by gateways layered over another source (such
// as a cache) that can read the underlying source directly.
type SourceLoader interface {
	LoadSource(ctx context.Context) (*entities.Snapshot, error)
}

// Persister receives a snapshot after every mutation. Persist is called with
// the store's write lock held, so snapshots arrive in the order they were
// committed. It must return promptly and must not call back into the store;
// failures are handled by the persister, never by the mutating caller.
type Persister interface {
	Persist(snap *entities.Snapshot)
	Close(ctx context.Context) error
}

type Store struct {
	mu        sync.RWMutex
	mem       *entities.Snapshot
	gateway   Gateway
	persister Persister
	relay     *events.Relay
	clock     func() time.Time
	newID     IDGenerator
}

type Option func(*Store)

// WithPersister replaces the default AsyncPersister.
func WithPersister(p Persister) Option {
	return func(s *Store) { s.persister = p }
}

func WithClock(clock func() time.Time) Option {
	return func(s *Store) { s.clock = clock }
}

func WithIDGenerator(gen IDGenerator) Option {
	return func(s *Store) { s.newID = gen }
}

// New creates an empty store. Call Initialize to load persisted state.
func New(gateway Gateway, relay *events.Relay, opts ...Option) *Store {
	s := &Store{
		mem:     entities.NewSnapshot(),
		gateway: gateway,
		relay:   relay,
		clock:   time.Now,
		newID:   NewID,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.persister == nil {
		s.persister = NewAsyncPersister(gateway, DefaultPersistTimeout, nil)
	}
	return s
}

// Initialize replaces the in-memory state with the gateway's snapshot. A
// missing or malformed snapshot starts the store empty; any other load
// failure is returned.
func (s *Store) Initialize(ctx context.Context) error {
	snap, err := s.gateway.Load(ctx)
	switch {
	case errors.Is(err, entities.ErrSnapshotNotFound), errors.Is(err, entities.ErrInvalidSnapshot):
		log.Printf("[STORE] No usable snapshot (%v), starting empty", err)
		snap = entities.NewSnapshot()
	case err != nil:
		return fmt.Errorf("%w: load snapshot: %w", entities.ErrPersistence, err)
	}

	s.mu.Lock()
	s.mem = snap
	s.mu.Unlock()

	log.Printf("[STORE] Loaded %d users, %d books, %d reviews", len(snap.Users), len(snap.Books), len(snap.Reviews))
	return nil
}

// Flush saves the current state synchronously and reports the outcome.
func (s *Store) Flush(ctx context.Context) error {
	snap := s.Snapshot()
	if err := s.gateway.Save(ctx, snap); err != nil {
		return fmt.Errorf("%w: %w", entities.ErrPersistence, err)
	}
	return nil
}

// Shutdown waits for pending background writes and then flushes the final
// state.
func (s *Store) Shutdown(ctx context.Context) error {
	if err := s.persister.Close(ctx); err != nil {
		log.Printf("[STORE] Persister did not drain: %v", err)
	}
	return s.Flush(ctx)
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() *entities.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mem.Clone()
}

// ReloadFromGateway replaces the in-memory state with the persisted source,
// bypassing any cache layer. Admin only.
func (s *Store) ReloadFromGateway(ctx context.Context) error {
	if !s.IsAdmin() {
		return ErrAdminRequired
	}

	var (
		snap *entities.Snapshot
		err  error
	)
	if src, ok := s.gateway.(SourceLoader); ok {
		snap, err = src.LoadSource(ctx)
	} else {
		snap, err = s.gateway.Load(ctx)
	}
	if err != nil {
		s.relay.Emit(events.Error("Snapshot not found or invalid"))
		return fmt.Errorf("reload snapshot: %w", err)
	}

	s.mu.Lock()
	s.mem = snap
	s.persister.Persist(s.mem.Clone())
	s.mu.Unlock()

	s.relay.Emit(events.Success("Reloaded from snapshot"))
	return nil
}

// mutate runs fn under the write lock. If fn succeeds a copy of the resulting
// state is handed to the persister before the lock is released.
func (s *Store) mutate(fn func(mem *entities.Snapshot) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(s.mem); err != nil {
		return err
	}
	s.persister.Persist(s.mem.Clone())
	return nil
}

func (s *Store) now() entities.Timestamp {
	return entities.FromTime(s.clock())
}

// currentUser must be called with the lock held.
func (s *Store) currentUser() (entities.User, bool) {
	if s.mem.CurrentUserID == nil {
		return entities.User{}, false
	}
	return findUser(s.mem, *s.mem.CurrentUserID)
}

func findUser(mem *entities.Snapshot, id string) (entities.User, bool) {
	for _, u := range mem.Users {
		if u.ID == id {
			return u, true
		}
	}
	return entities.User{}, false
}

func findBook(mem *entities.Snapshot, id string) (entities.Book, bool) {
	for _, b := range mem.Books {
		if b.ID == id {
			return b, true
		}
	}
	return entities.Book{}, false
}
