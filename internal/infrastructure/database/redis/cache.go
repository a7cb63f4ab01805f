package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bginsber/docketcalc/internal/infrastructure/monitoring/logging"
	"github.com/bginsber/docketcalc/pkg/errors"
)

// ResultCache stores serialized calculation results keyed by request
// fingerprint.  Results are pure functions of engine state, so a cached value
// stays valid until the engine is rebuilt; every rebuild bumps the key
// generation to shed stale entries without a flush.
type ResultCache struct {
	client *Client
	prefix string
	ttl    time.Duration
	logger logging.Logger
}

// NewResultCache constructs a cache over an established client.
func NewResultCache(client *Client, prefix string, ttl time.Duration, log logging.Logger) *ResultCache {
	return &ResultCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		logger: log.Named("result_cache"),
	}
}

// Get returns the cached payload for key, or (nil, false) on a miss.  Cache
// infrastructure failures are reported as misses after logging; the caller
// recomputes rather than failing the request.
func (c *ResultCache) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := c.client.Raw().Get(ctx, c.prefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("cache get failed", logging.String("key", key), logging.Err(err))
		return nil, false
	}
	return data, true
}

// Set stores payload under key with the configured TTL.
func (c *ResultCache) Set(ctx context.Context, key string, payload []byte) error {
	if err := c.client.Raw().Set(ctx, c.prefix+key, payload, c.ttl).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "cache set failed").
			WithDetail("key=" + key)
	}
	return nil
}
