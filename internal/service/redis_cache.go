package service

import (
	"context"
	"errors"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/guttosm/coupon-service/internal/circuitbreaker"
	"github.com/guttosm/coupon-service/internal/domain/model"
	"github.com/guttosm/coupon-service/internal/metrics"
)

const defaultRedisPrefix = "coupon:quote:"

// RedisCache stores quotes in Redis so that replicas share priced carts.
// Every call goes through a circuit breaker; an open circuit or any Redis
// error behaves as a cache miss.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	cb     *circuitbreaker.CircuitBreaker
}

// RedisCacheOption configures a RedisCache.
type RedisCacheOption func(*RedisCache)

// WithRedisPrefix sets the key prefix. Clear deletes every key under it.
func WithRedisPrefix(prefix string) RedisCacheOption {
	return func(c *RedisCache) {
		c.prefix = prefix
	}
}

// WithRedisCircuitBreaker guards Redis calls with cb.
func WithRedisCircuitBreaker(cb *circuitbreaker.CircuitBreaker) RedisCacheOption {
	return func(c *RedisCache) {
		c.cb = cb
	}
}

// NewRedisCache wraps client. ttl applies to every entry.
func NewRedisCache(client *redis.Client, ttl time.Duration, opts ...RedisCacheOption) *RedisCache {
	c := &RedisCache{
		client: client,
		prefix: defaultRedisPrefix,
		ttl:    ttl,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cb == nil {
		cfg := circuitbreaker.DefaultConfig()
		cfg.Name = "redis"
		c.cb = circuitbreaker.New(cfg)
	}
	return c
}

func (c *RedisCache) key(key string) string {
	return c.prefix + key
}

func (c *RedisCache) execute(ctx context.Context, fn func() error) error {
	return c.cb.Execute(ctx, fn)
}

// Get returns the cached quote for key.
func (c *RedisCache) Get(ctx context.Context, key string) (model.Quote, bool) {
	var data []byte
	err := c.execute(ctx, func() error {
		var err error
		data, err = c.client.Get(ctx, c.key(key)).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return err
	})
	if err != nil {
		metrics.RecordCacheOperation("get", "error")
		log.Debug().Err(err).Str("key", key).Msg("Redis cache get failed")
		return model.Quote{}, false
	}
	if data == nil {
		metrics.RecordCacheOperation("get", "miss")
		return model.Quote{}, false
	}

	var q model.Quote
	if err := sonic.Unmarshal(data, &q); err != nil {
		metrics.RecordCacheOperation("get", "decode_error")
		log.Warn().Err(err).Str("key", key).Msg("Discarding undecodable cached quote")
		return model.Quote{}, false
	}

	metrics.RecordCacheOperation("get", "hit")
	return q, true
}

// Set stores value under key with the configured TTL.
func (c *RedisCache) Set(ctx context.Context, key string, value model.Quote) {
	data, err := sonic.Marshal(value)
	if err != nil {
		metrics.RecordCacheOperation("set", "encode_error")
		return
	}

	err = c.execute(ctx, func() error {
		return c.client.Set(ctx, c.key(key), data, c.ttl).Err()
	})
	if err != nil {
		metrics.RecordCacheOperation("set", "error")
		log.Debug().Err(err).Str("key", key).Msg("Redis cache set failed")
		return
	}
	metrics.RecordCacheOperation("set", "success")
}

// Invalidate deletes key.
func (c *RedisCache) Invalidate(ctx context.Context, key string) {
	err := c.execute(ctx, func() error {
		return c.client.Del(ctx, c.key(key)).Err()
	})
	if err != nil {
		metrics.RecordCacheOperation("invalidate", "error")
		return
	}
	metrics.RecordCacheOperation("invalidate", "success")
}

// Clear deletes every key under the prefix.
func (c *RedisCache) Clear(ctx context.Context) {
	err := c.execute(ctx, func() error {
		iter := c.client.Scan(ctx, 0, c.prefix+"*", 200).Iterator()
		batch := make([]string, 0, 200)
		for iter.Next(ctx) {
			batch = append(batch, iter.Val())
			if len(batch) == cap(batch) {
				if err := c.client.Del(ctx, batch...).Err(); err != nil {
					return err
				}
				batch = batch[:0]
			}
		}
		if err := iter.Err(); err != nil {
			return err
		}
		if len(batch) > 0 {
			return c.client.Del(ctx, batch...).Err()
		}
		return nil
	})
	if err != nil {
		metrics.RecordCacheOperation("clear", "error")
		log.Warn().Err(err).Msg("Redis cache clear failed")
		return
	}
	metrics.RecordCacheOperation("clear", "success")
}

// Stop closes the Redis client.
func (c *RedisCache) Stop() {
	if err := c.client.Close(); err != nil {
		log.Warn().Err(err).Msg("Error closing Redis client")
	}
}

// HealthCheck pings Redis.
func (c *RedisCache) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return c.client.Ping(ctx).Err()
}

// CircuitBreaker returns the breaker guarding Redis calls.
func (c *RedisCache) CircuitBreaker() *circuitbreaker.CircuitBreaker {
	return c.cb
}
