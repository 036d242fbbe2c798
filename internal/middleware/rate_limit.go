package middleware

import (
	"hash/fnv"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/coupon-service/internal/domain/dto"
	"github.com/guttosm/coupon-service/internal/i18n"
	"github.com/guttosm/coupon-service/internal/metrics"
)

const defaultNumShards = 16

// Rate limit scopes reported in metrics.
const (
	scopeIP      = "ip"
	scopeSubject = "subject"
)

// fixedWindow counts one identifier's requests until resetAt.
type fixedWindow struct {
	used    int
	resetAt time.Time
}

type limiterShard struct {
	mu      sync.Mutex
	windows map[string]*fixedWindow
}

// ShardedRateLimiter is a fixed-window limiter. Identifiers are spread over
// shards by FNV hash so that unrelated callers rarely share a lock.
type ShardedRateLimiter struct {
	shards    []*limiterShard
	numShards int
	rate      int
	window    time.Duration
	now       func() time.Time

	stopCh   chan struct{}
	stopOnce sync.Once
}

// RateLimiter is the limiter used by the router.
type RateLimiter = ShardedRateLimiter

// NewRateLimiter allows rate requests per window for each identifier.
func NewRateLimiter(rate int, window time.Duration) *ShardedRateLimiter {
	return NewShardedRateLimiter(rate, window, defaultNumShards)
}

// NewShardedRateLimiter is NewRateLimiter with an explicit shard count.
// Non-positive counts use the default.
func NewShardedRateLimiter(rate int, window time.Duration, numShards int) *ShardedRateLimiter {
	if numShards <= 0 {
		numShards = defaultNumShards
	}

	rl := &ShardedRateLimiter{
		shards:    make([]*limiterShard, numShards),
		numShards: numShards,
		rate:      rate,
		window:    window,
		now:       time.Now,
		stopCh:    make(chan struct{}),
	}
	for i := range rl.shards {
		rl.shards[i] = &limiterShard{windows: make(map[string]*fixedWindow)}
	}

	go rl.evictLoop()
	return rl
}

func (rl *ShardedRateLimiter) shardFor(identifier string) *limiterShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(identifier))
	return rl.shards[h.Sum32()%uint32(rl.numShards)]
}

// take consumes one request from identifier's window. It reports whether the
// request is allowed, how many remain and when the window resets.
func (rl *ShardedRateLimiter) take(identifier string) (allowed bool, remaining int, resetAt time.Time) {
	shard := rl.shardFor(identifier)
	now := rl.now()

	shard.mu.Lock()
	defer shard.mu.Unlock()

	w, ok := shard.windows[identifier]
	if !ok || !now.Before(w.resetAt) {
		w = &fixedWindow{resetAt: now.Add(rl.window)}
		shard.windows[identifier] = w
	}

	if w.used >= rl.rate {
		return false, 0, w.resetAt
	}
	w.used++
	return true, rl.rate - w.used, w.resetAt
}

// checkRateLimit is take without the reset time.
func (rl *ShardedRateLimiter) checkRateLimit(identifier string) (bool, int) {
	allowed, remaining, _ := rl.take(identifier)
	return allowed, remaining
}

// RateLimit limits requests per client IP.
func (rl *ShardedRateLimiter) RateLimit() gin.HandlerFunc {
	return rl.limit(func(c *gin.Context) (string, string) {
		return c.ClientIP(), scopeIP
	})
}

// UserRateLimit limits requests per token subject. Requests without a
// subject are limited per client IP.
func (rl *ShardedRateLimiter) UserRateLimit() gin.HandlerFunc {
	return rl.limit(func(c *gin.Context) (string, string) {
		if GetSubject(c) != "" {
			return rl.getUserIdentifier(c), scopeSubject
		}
		return rl.getUserIdentifier(c), scopeIP
	})
}

func (rl *ShardedRateLimiter) limit(identify func(*gin.Context) (id, scope string)) gin.HandlerFunc {
	limit := strconv.Itoa(rl.rate)
	return func(c *gin.Context) {
		id, scope := identify(c)
		allowed, remaining, resetAt := rl.take(id)

		c.Header("X-RateLimit-Limit", limit)
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

		if allowed {
			c.Next()
			return
		}

		metrics.RecordRateLimited(scope)
		c.Header("Retry-After", strconv.Itoa(retryAfterSeconds(resetAt.Sub(rl.now()))))
		msg := i18n.GetTranslator().Translate(i18n.ErrKeyRateLimitExceeded, i18n.GetLocale(c))
		c.AbortWithStatusJSON(http.StatusTooManyRequests,
			dto.NewError(dto.ErrCodeRateLimit, msg).WithRequestID(GetRequestID(c)))
	}
}

// retryAfterSeconds rounds d up to whole seconds, never below one.
func retryAfterSeconds(d time.Duration) int {
	secs := int(math.Ceil(d.Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}

func (rl *ShardedRateLimiter) getUserIdentifier(c *gin.Context) string {
	if subject := GetSubject(c); subject != "" {
		return "subject:" + subject
	}
	return "ip:" + c.ClientIP()
}

func (rl *ShardedRateLimiter) evictLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.evictExpired()
		case <-rl.stopCh:
			return
		}
	}
}

// evictExpired drops windows that reset more than one window ago.
func (rl *ShardedRateLimiter) evictExpired() {
	cutoff := rl.now().Add(-rl.window)
	for _, shard := range rl.shards {
		shard.mu.Lock()
		for id, w := range shard.windows {
			if w.resetAt.Before(cutoff) {
				delete(shard.windows, id)
			}
		}
		shard.mu.Unlock()
	}
}

// Stop ends the eviction loop. It is safe to call more than once.
func (rl *ShardedRateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

// Done is closed once Stop has been called.
func (rl *ShardedRateLimiter) Done() <-chan struct{} {
	return rl.stopCh
}

// Stats reports the tracked identifiers in total and per shard.
func (rl *ShardedRateLimiter) Stats() (total int, perShard []int) {
	perShard = make([]int, rl.numShards)
	for i, shard := range rl.shards {
		shard.mu.Lock()
		perShard[i] = len(shard.windows)
		shard.mu.Unlock()
		total += perShard[i]
	}
	return total, perShard
}
