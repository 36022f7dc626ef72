package persistence

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mrlokans/bookreviews/internal/entities"
	"github.com/mrlokans/bookreviews/internal/store"
)

// DefaultCacheKey matches the storage key the browser client used.
const DefaultCacheKey = "brs:data:v3"

// CachedGateway keeps a copy of the latest snapshot in Redis in front of a
// source gateway. Reads prefer the cache and fall back to the source; writes
// go to the source first and refresh the cache afterwards. Redis failures are
// logged and never fail a read or write on their own.
type CachedGateway struct {
	client *redis.Client
	source store.Gateway
	key    string
	ttl    time.Duration
}

// NewCachedGateway wraps source. A zero ttl keeps the cache entry forever.
func NewCachedGateway(client *redis.Client, source store.Gateway, key string, ttl time.Duration) *CachedGateway {
	if key == "" {
		key = DefaultCacheKey
	}
	return &CachedGateway{client: client, source: source, key: key, ttl: ttl}
}

func (g *CachedGateway) Load(ctx context.Context) (*entities.Snapshot, error) {
	data, err := g.client.Get(ctx, g.key).Bytes()
	switch {
	case err == nil:
		snap, decodeErr := entities.DecodeSnapshot(data)
		if decodeErr == nil {
			return snap, nil
		}
		log.Printf("[CACHE] Discarding invalid cached snapshot: %v", decodeErr)
	case errors.Is(err, redis.Nil):
	default:
		log.Printf("[CACHE] Read failed, using source: %v", err)
	}

	return g.LoadSource(ctx)
}

// LoadSource reads the underlying source directly and refreshes the cache.
func (g *CachedGateway) LoadSource(ctx context.Context) (*entities.Snapshot, error) {
	snap, err := g.source.Load(ctx)
	if err != nil {
		if errors.Is(err, entities.ErrSnapshotNotFound) {
			g.invalidate(ctx)
		}
		return nil, err
	}
	g.refresh(ctx, snap)
	return snap, nil
}

func (g *CachedGateway) Save(ctx context.Context, snap *entities.Snapshot) error {
	if err := g.source.Save(ctx, snap); err != nil {
		g.invalidate(ctx)
		return err
	}
	g.refresh(ctx, snap)
	return nil
}

func (g *CachedGateway) refresh(ctx context.Context, snap *entities.Snapshot) {
	data, err := snap.Encode()
	if err != nil {
		log.Printf("[CACHE] %v", err)
		return
	}
	if err := g.client.Set(ctx, g.key, data, g.ttl).Err(); err != nil {
		log.Printf("[CACHE] Write failed: %v", fmt.Errorf("set %s: %w", g.key, err))
	}
}

func (g *CachedGateway) invalidate(ctx context.Context) {
	if err := g.client.Del(ctx, g.key).Err(); err != nil {
		log.Printf("[CACHE] Invalidate failed: %v", err)
	}
}
