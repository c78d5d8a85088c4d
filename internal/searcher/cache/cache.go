// Package cache provides an optional Redis-backed query-result cache. Keys
// are derived from the canonical RPN form of the query so that different
// spellings of the same expression ("a b", "a && b") share an entry.
// Duplicate in-flight queries collapse through singleflight.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/Nik1toZ/IR/pkg/config"
	pkgredis "github.com/Nik1toZ/IR/pkg/redis"
)

const keyPrefix = "boolsearch:"

type QueryCache struct {
	client *pkgredis.Client
	cfg    config.RedisConfig
	group  singleflight.Group
	logger *slog.Logger
	hits   atomic.Int64
	misses atomic.Int64
}

func New(client *pkgredis.Client, cfg config.RedisConfig) *QueryCache {
	return &QueryCache{
		client: client,
		cfg:    cfg,
		logger: slog.Default().With("component", "query-cache"),
	}
}

// Get returns the cached doc-id set for the canonical query key.
func (c *QueryCache) Get(ctx context.Context, canonical string) ([]uint32, bool) {
	key := c.buildKey(canonical)
	data, err := c.client.Get(ctx, key)
	if err != nil {
		if !pkgredis.IsNilError(err) {
			c.logger.Error("cache get failed", "key", key, "error", err)
		}
		c.misses.Add(1)
		return nil, false
	}
	var docs []uint32
	if err := json.Unmarshal([]byte(data), &docs); err != nil {
		c.logger.Error("cache unmarshal failed", "key", key, "error", err)
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return docs, true
}

// Set stores the doc-id set under the canonical query key.
func (c *QueryCache) Set(ctx context.Context, canonical string, docs []uint32) {
	key := c.buildKey(canonical)
	data, err := json.Marshal(docs)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, data, c.cfg.CacheTTL); err != nil {
		c.logger.Error("cache set failed", "key", key, "error", err)
	}
}

// GetOrCompute returns the cached result or computes and stores it,
// collapsing concurrent computations of the same key. Compute errors are
// never cached.
func (c *QueryCache) GetOrCompute(
	ctx context.Context,
	canonical string,
	computeFn func() ([]uint32, error),
) ([]uint32, bool, error) {
	if docs, ok := c.Get(ctx, canonical); ok {
		return docs, true, nil
	}
	key := c.buildKey(canonical)
	val, err, _ := c.group.Do(key, func() (interface{}, error) {
		if docs, ok := c.Get(ctx, canonical); ok {
			return docs, nil
		}
		docs, err := computeFn()
		if err != nil {
			return nil, err
		}
		c.Set(ctx, canonical, docs)
		return docs, nil
	})
	if err != nil {
		return nil, false, err
	}
	return val.([]uint32), false, nil
}

// Stats returns hit and miss counts since startup.
func (c *QueryCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *QueryCache) buildKey(canonical string) string {
	hash := sha256.Sum256([]byte(canonical))
	return fmt.Sprintf("%s%x", keyPrefix, hash[:16])
}
