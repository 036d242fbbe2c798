package middleware

import (
	"errors"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// MemoryIdempotencyStore keeps responses in process memory.
type MemoryIdempotencyStore struct {
	mu    sync.RWMutex
	items map[string]*StoredResponse
	ttl   time.Duration

	stopOnce sync.Once
	stop     chan struct{}
}

// NewMemoryIdempotencyStore creates a store whose entries live for ttl and
// starts its cleanup loop. Call Stop to end the loop.
func NewMemoryIdempotencyStore(ttl time.Duration) *MemoryIdempotencyStore {
	if ttl <= 0 {
		ttl = IdempotencyKeyTTL
	}
	s := &MemoryIdempotencyStore{
		items: make(map[string]*StoredResponse),
		ttl:   ttl,
		stop:  make(chan struct{}),
	}
	go s.cleanupLoop(time.Minute)
	return s
}

// Get returns the stored response for key if it has not expired.
func (s *MemoryIdempotencyStore) Get(_ *gin.Context, key string) (*StoredResponse, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resp, ok := s.items[key]
	if !ok || time.Since(resp.StoredAt) > s.ttl {
		return nil, false
	}
	return resp, true
}

// Set stores resp under key.
func (s *MemoryIdempotencyStore) Set(_ *gin.Context, key string, resp *StoredResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp.StoredAt = time.Now()
	s.items[key] = resp
}

// Len returns the number of entries, expired or not.
func (s *MemoryIdempotencyStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Stop ends the cleanup loop.
func (s *MemoryIdempotencyStore) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *MemoryIdempotencyStore) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stop:
			return
		}
	}
}

func (s *MemoryIdempotencyStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for key, resp := range s.items {
		if now.Sub(resp.StoredAt) > s.ttl {
			delete(s.items, key)
		}
	}
}

const defaultIdempotencyPrefix = "coupon:idempotency:"

// RedisIdempotencyStore shares stored responses between replicas.
// Redis failures are treated as misses so the request is processed normally.
type RedisIdempotencyStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisIdempotencyStore creates a Redis-backed store. An empty prefix
// selects the default.
func NewRedisIdempotencyStore(client *redis.Client, prefix string, ttl time.Duration) *RedisIdempotencyStore {
	if prefix == "" {
		prefix = defaultIdempotencyPrefix
	}
	if ttl <= 0 {
		ttl = IdempotencyKeyTTL
	}
	return &RedisIdempotencyStore{client: client, prefix: prefix, ttl: ttl}
}

// Get returns the stored response for key.
func (s *RedisIdempotencyStore) Get(c *gin.Context, key string) (*StoredResponse, bool) {
	data, err := s.client.Get(c.Request.Context(), s.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Debug().Err(err).Msg("Idempotency store get failed")
		}
		return nil, false
	}

	var resp StoredResponse
	if err := sonic.Unmarshal(data, &resp); err != nil {
		return nil, false
	}
	return &resp, true
}

// Set stores resp under key with the store TTL.
func (s *RedisIdempotencyStore) Set(c *gin.Context, key string, resp *StoredResponse) {
	data, err := sonic.Marshal(resp)
	if err != nil {
		return
	}
	if err := s.client.Set(c.Request.Context(), s.prefix+key, data, s.ttl).Err(); err != nil {
		log.Debug().Err(err).Msg("Idempotency store set failed")
	}
}
