package cache

import (
	"context"
	"log"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const DefaultTTL = 5 * time.Minute
const DefaultCleanupInterval = 10 * time.Minute

// readThrough serves values from an in-memory cache and falls back to load on a miss.
// Failed loads are not cached.
type readThrough[V any] struct {
	name  string
	cache *gocache.Cache
	ttl   time.Duration
	load  func(ctx context.Context) (V, error)
}

func newReadThrough[V any](name string, ttl time.Duration, load func(ctx context.Context) (V, error)) *readThrough[V] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &readThrough[V]{
		name:  name,
		cache: gocache.New(ttl, DefaultCleanupInterval),
		ttl:   ttl,
		load:  load,
	}
}

func (r *readThrough[V]) get(ctx context.Context, key string) (V, error) {
	if value, found := r.cache.Get(key); found {
		if v, ok := value.(V); ok {
			return v, nil
		}
		log.Printf("cache=%s key=%s msg=%q", r.name, key, "wrong type in cache, reloading")
	}

	v, err := r.load(ctx)
	if err != nil {
		return v, err
	}

	r.cache.Set(key, v, r.ttl)
	return v, nil
}

func (r *readThrough[V]) invalidate(key string) {
	r.cache.Delete(key)
}
