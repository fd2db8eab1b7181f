package cached

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/geocoder89/billed/internal/cache"
	"github.com/geocoder89/billed/internal/domain/bill"
	"github.com/geocoder89/billed/internal/utils"
	"github.com/redis/go-redis/v9"
)

// ListCache stores bill lists per filter. Invalidate drops every cached list
// and moves the cache to a new generation. Set stores a list under the
// generation read before it was fetched; a list fetched before an
// invalidation is never readable afterwards.
type ListCache interface {
	Generation(ctx context.Context) (int64, error)
	Get(ctx context.Context, filter bill.ListFilter) ([]bill.Bill, bool, error)
	Set(ctx context.Context, gen int64, filter bill.ListFilter, bills []bill.Bill) error
	Invalidate(ctx context.Context) error
}

// MemoryCache keeps lists in the in-process TTL cache.
type MemoryCache struct {
	mu  sync.Mutex
	gen int64
	c   *cache.Cache
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{c: cache.New(ttl)}
}

func (m *MemoryCache) Generation(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.gen, nil
}

func (m *MemoryCache) Get(ctx context.Context, filter bill.ListFilter) ([]bill.Bill, bool, error) {
	m.mu.Lock()
	gen := m.gen
	m.mu.Unlock()

	v, ok := m.c.Get(utils.BuildBillsListCacheKey(gen, filter.Email))
	if !ok {
		return nil, false, nil
	}

	bills, ok := v.([]bill.Bill)
	if !ok {
		return nil, false, nil
	}

	return cloneBills(bills), true, nil
}

// Set drops lists fetched under an older generation.
func (m *MemoryCache) Set(ctx context.Context, gen int64, filter bill.ListFilter, bills []bill.Bill) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.gen {
		return nil
	}

	m.c.Set(utils.BuildBillsListCacheKey(gen, filter.Email), cloneBills(bills))
	return nil
}

func (m *MemoryCache) Invalidate(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.gen++
	m.c.DeletePrefix(utils.BillsListCachePrefix)
	return nil
}

const generationKey = "bills:list:generation"

// RedisCache stores lists as JSON. Invalidation bumps a generation counter so
// stale keys are never read again and simply expire.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration

	// last generation seen, used when redis cannot be read
	gen atomic.Int64
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func (r *RedisCache) Generation(ctx context.Context) (int64, error) {
	g, err := r.rdb.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return r.gen.Load(), err
	}

	r.gen.Store(g)
	return g, nil
}

func (r *RedisCache) Get(ctx context.Context, filter bill.ListFilter) ([]bill.Bill, bool, error) {
	gen, err := r.Generation(ctx)
	if err != nil {
		return nil, false, err
	}

	raw, err := r.rdb.Get(ctx, utils.BuildBillsListCacheKey(gen, filter.Email)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var bills []bill.Bill
	if err := json.Unmarshal(raw, &bills); err != nil {
		return nil, false, err
	}

	return bills, true, nil
}

// Set writes under gen. A stale gen lands on a key no reader builds any more
// and expires with the TTL.
func (r *RedisCache) Set(ctx context.Context, gen int64, filter bill.ListFilter, bills []bill.Bill) error {
	raw, err := json.Marshal(bills)
	if err != nil {
		return err
	}

	return r.rdb.Set(ctx, utils.BuildBillsListCacheKey(gen, filter.Email), raw, r.ttl).Err()
}

func (r *RedisCache) Invalidate(ctx context.Context) error {
	g, err := r.rdb.Incr(ctx, generationKey).Result()
	if err != nil {
		return err
	}

	r.gen.Store(g)
	return nil
}

func cloneBills(in []bill.Bill) []bill.Bill {
	out := make([]bill.Bill, len(in))
	copy(out, in)
	return out
}
