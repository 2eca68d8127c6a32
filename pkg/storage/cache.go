package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/axle-registry/axle/pkg/observability"
	"github.com/axle-registry/axle/pkg/registry"
)

const redisSchemaKeyPrefix = "axle:schema:"

// CachedStore layers a read-through cache for schema records over any
// Store. Records are immutable once written, so cached entries never
// need invalidation. Subject, tag and group operations pass through.
type CachedStore struct {
	registry.Store
	byID   *lru.Cache[int64, *registry.SchemaRecord]
	byHash *lru.Cache[string, *registry.SchemaRecord]
	redis  *redis.Client
	ttl    time.Duration

	hits    atomic.Int64
	misses  atomic.Int64
	metrics *observability.Metrics
}

// NewCached wraps inner with an LRU of the given size and an optional
// Redis tier (pass nil to disable).
func NewCached(inner registry.Store, size int, redisClient *redis.Client) (*CachedStore, error) {
	byID, err := lru.New[int64, *registry.SchemaRecord](size)
	if err != nil {
		return nil, err
	}
	byHash, err := lru.New[string, *registry.SchemaRecord](size)
	if err != nil {
		return nil, err
	}
	return &CachedStore{
		Store:  inner,
		byID:   byID,
		byHash: byHash,
		redis:  redisClient,
		ttl:    time.Hour,
	}, nil
}

// WithMetrics mirrors hit and miss counts into the service metrics
func (c *CachedStore) WithMetrics(m *observability.Metrics) *CachedStore {
	c.metrics = m
	return c
}

func (c *CachedStore) recordHit() {
	c.hits.Add(1)
	if c.metrics != nil {
		c.metrics.CacheHitsTotal.Inc()
	}
}

func (c *CachedStore) recordMiss() {
	c.misses.Add(1)
	if c.metrics != nil {
		c.metrics.CacheMissesTotal.Inc()
	}
}

// GetSchemaByID serves the record from cache when possible
func (c *CachedStore) GetSchemaByID(ctx context.Context, id int64) (*registry.SchemaRecord, error) {
	if record, ok := c.byID.Get(id); ok {
		c.recordHit()
		return record, nil
	}
	if record := c.redisGet(ctx, id); record != nil {
		c.recordHit()
		c.populate(record)
		return record, nil
	}
	c.recordMiss()

	record, err := c.Store.GetSchemaByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.populate(record)
	c.redisSet(ctx, record)
	return record, nil
}

// GetSchemaByHash serves the record from cache when possible
func (c *CachedStore) GetSchemaByHash(ctx context.Context, hash string) (*registry.SchemaRecord, error) {
	if record, ok := c.byHash.Get(hash); ok {
		c.recordHit()
		return record, nil
	}
	c.recordMiss()

	record, err := c.Store.GetSchemaByHash(ctx, hash)
	if err != nil {
		return nil, err
	}
	c.populate(record)
	c.redisSet(ctx, record)
	return record, nil
}

// CreateSchema persists through the inner store and pre-warms the cache
func (c *CachedStore) CreateSchema(ctx context.Context, record *registry.SchemaRecord) error {
	if err := c.Store.CreateSchema(ctx, record); err != nil {
		return err
	}
	c.populate(record)
	c.redisSet(ctx, record)
	return nil
}

// Stats returns the cache hit and miss counts
func (c *CachedStore) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Close closes the Redis tier and the inner store
func (c *CachedStore) Close() error {
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			return err
		}
	}
	return c.Store.Close()
}

func (c *CachedStore) populate(record *registry.SchemaRecord) {
	c.byID.Add(record.ID, record)
	c.byHash.Add(record.Hash, record)
}

func (c *CachedStore) redisGet(ctx context.Context, id int64) *registry.SchemaRecord {
	if c.redis == nil {
		return nil
	}
	payload, err := c.redis.Get(ctx, redisSchemaKey(id)).Bytes()
	if err != nil {
		return nil
	}
	record := &registry.SchemaRecord{}
	if err := json.Unmarshal(payload, record); err != nil {
		return nil
	}
	return record
}

func (c *CachedStore) redisSet(ctx context.Context, record *registry.SchemaRecord) {
	if c.redis == nil {
		return
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return
	}
	// cache failures are invisible to callers
	c.redis.Set(ctx, redisSchemaKey(record.ID), payload, c.ttl)
}

func redisSchemaKey(id int64) string {
	return fmt.Sprintf("%s%d", redisSchemaKeyPrefix, id)
}
