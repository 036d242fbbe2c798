package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/coupon-service/internal/domain/dto"
	"github.com/guttosm/coupon-service/internal/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// frozenLimiter returns a limiter whose clock only moves through the
// returned advance func.
func frozenLimiter(t *testing.T, rate int, window time.Duration) (*ShardedRateLimiter, func(time.Duration)) {
	t.Helper()
	rl := NewShardedRateLimiter(rate, window, 4)
	t.Cleanup(rl.Stop)

	now := time.Date(2024, 11, 29, 10, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	return rl, func(d time.Duration) { now = now.Add(d) }
}

func TestNewShardedRateLimiter_Shards(t *testing.T) {
	tests := []struct {
		numShards  int
		wantShards int
	}{
		{numShards: 0, wantShards: defaultNumShards},
		{numShards: -3, wantShards: defaultNumShards},
		{numShards: 8, wantShards: 8},
	}

	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.numShards), func(t *testing.T) {
			rl := NewShardedRateLimiter(10, time.Minute, tt.numShards)
			defer rl.Stop()

			assert.Len(t, rl.shards, tt.wantShards)
			_, perShard := rl.Stats()
			assert.Len(t, perShard, tt.wantShards)
		})
	}

	rl := NewRateLimiter(10, time.Minute)
	defer rl.Stop()
	assert.Len(t, rl.shards, defaultNumShards)
}

func TestShardedRateLimiter_Take(t *testing.T) {
	rl, _ := frozenLimiter(t, 3, time.Minute)

	var got []int
	for i := 0; i < 5; i++ {
		allowed, remaining := rl.checkRateLimit("merchandiser-1")
		if !allowed {
			remaining = -1
		}
		got = append(got, remaining)
	}
	assert.Equal(t, []int{2, 1, 0, -1, -1}, got)

	allowed, remaining := rl.checkRateLimit("merchandiser-2")
	assert.True(t, allowed, "quota is per identifier")
	assert.Equal(t, 2, remaining)
}

func TestShardedRateLimiter_WindowResets(t *testing.T) {
	rl, advance := frozenLimiter(t, 1, time.Minute)

	allowed, _, resetAt := rl.take("x")
	require.True(t, allowed)

	advance(59 * time.Second)
	allowed, _, sameReset := rl.take("x")
	assert.False(t, allowed)
	assert.Equal(t, resetAt, sameReset, "rejections do not extend the window")

	advance(time.Second)
	allowed, remaining, next := rl.take("x")
	assert.True(t, allowed)
	assert.Equal(t, 0, remaining)
	assert.Equal(t, resetAt.Add(time.Minute), next)
}

func TestShardedRateLimiter_RateLimit(t *testing.T) {
	rl, advance := frozenLimiter(t, 2, time.Minute)

	router := gin.New()
	router.Use(RequestID(), rl.RateLimit())
	router.GET("/quote", func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/quote", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	rejected := promtest.ToFloat64(metrics.RateLimitedTotal.WithLabelValues(scopeIP))

	first := send("10.0.0.1:1000")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, first.Header().Get("X-RateLimit-Reset"))

	assert.Equal(t, http.StatusOK, send("10.0.0.1:1001").Code)

	advance(20 * time.Second)
	blocked := send("10.0.0.1:1002")
	require.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Equal(t, "0", blocked.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "40", blocked.Header().Get("Retry-After"))
	assert.Equal(t, rejected+1, promtest.ToFloat64(metrics.RateLimitedTotal.WithLabelValues(scopeIP)))

	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(blocked.Body.Bytes(), &body))
	assert.Equal(t, dto.ErrCodeRateLimit, body.Error)
	assert.Equal(t, blocked.Header().Get(RequestIDHeader), body.RequestID)

	assert.Equal(t, http.StatusOK, send("10.0.0.2:1000").Code, "other clients keep their quota")
}

func TestShardedRateLimiter_UserRateLimit(t *testing.T) {
	rl, _ := frozenLimiter(t, 1, time.Minute)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		if s := c.GetHeader("X-Test-Subject"); s != "" {
			c.Set(SubjectKey, s)
		}
		c.Next()
	}, rl.UserRateLimit())
	router.POST("/coupons", func(c *gin.Context) { c.Status(http.StatusCreated) })

	send := func(subject string) int {
		req := httptest.NewRequest(http.MethodPost, "/coupons", nil)
		req.RemoteAddr = "10.0.0.9:4000"
		if subject != "" {
			req.Header.Set("X-Test-Subject", subject)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	rejected := promtest.ToFloat64(metrics.RateLimitedTotal.WithLabelValues(scopeSubject))

	assert.Equal(t, http.StatusCreated, send("alice"))
	assert.Equal(t, http.StatusTooManyRequests, send("alice"))
	assert.Equal(t, http.StatusCreated, send("bob"), "subjects behind one IP are limited separately")
	assert.Equal(t, http.StatusCreated, send(""), "anonymous callers fall back to the IP")
	assert.Equal(t, http.StatusTooManyRequests, send(""))

	assert.Equal(t, rejected+1, promtest.ToFloat64(metrics.RateLimitedTotal.WithLabelValues(scopeSubject)))
}

func TestShardedRateLimiter_GetUserIdentifier(t *testing.T) {
	rl, _ := frozenLimiter(t, 1, time.Minute)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.RemoteAddr = "192.168.1.1:12345"
	assert.Equal(t, "ip:192.168.1.1", rl.getUserIdentifier(c))

	c.Set(SubjectKey, "merchandiser-1")
	assert.Equal(t, "subject:merchandiser-1", rl.getUserIdentifier(c))
}

func TestShardedRateLimiter_EvictExpired(t *testing.T) {
	rl, advance := frozenLimiter(t, 5, time.Minute)

	for _, id := range []string{"a", "b", "c"} {
		rl.checkRateLimit(id)
	}
	advance(90 * time.Second)
	rl.checkRateLimit("d")

	total, perShard := rl.Stats()
	assert.Equal(t, 4, total)
	sum := 0
	for _, n := range perShard {
		sum += n
	}
	assert.Equal(t, total, sum)

	advance(40 * time.Second)
	rl.evictExpired()
	total, _ = rl.Stats()
	assert.Equal(t, 1, total, "only windows that reset over a window ago are dropped")
}

func TestRetryAfterSeconds(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want int
	}{
		{in: 0, want: 1},
		{in: -time.Second, want: 1},
		{in: 300 * time.Millisecond, want: 1},
		{in: 1500 * time.Millisecond, want: 2},
		{in: 40 * time.Second, want: 40},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, retryAfterSeconds(tt.in), tt.in.String())
	}
}

func TestShardedRateLimiter_StopTwice(t *testing.T) {
	rl := NewRateLimiter(1, time.Second)
	select {
	case <-rl.Done():
		t.Fatal("limiter reported done before Stop")
	default:
	}

	assert.NotPanics(t, func() {
		rl.Stop()
		rl.Stop()
	})

	select {
	case <-rl.Done():
	default:
		t.Fatal("limiter not done after Stop")
	}
}
