//go:build integration

package circuitbreaker_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/coupon-service/internal/circuitbreaker"
	"github.com/guttosm/coupon-service/internal/domain/model"
	"github.com/guttosm/coupon-service/internal/repository"
	"github.com/guttosm/coupon-service/internal/service"
	"github.com/guttosm/coupon-service/internal/testutil"
)

type transitions struct {
	mu   sync.Mutex
	seen []circuitbreaker.State
}

func (tr *transitions) record(_ string, _, to circuitbreaker.State) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.seen = append(tr.seen, to)
}

func (tr *transitions) states() []circuitbreaker.State {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return append([]circuitbreaker.State(nil), tr.seen...)
}

func TestCircuitBreakerWithRedis_Integration(t *testing.T) {
	ctx := context.Background()

	container, err := testutil.SetupRedis(ctx)
	require.NoError(t, err)

	var tr transitions
	cb := circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: 2,
		SuccessThreshold: 1,
		Timeout:          time.Minute,
		Name:             "test-redis",
		OnStateChange:    tr.record,
	})

	client := redis.NewClient(&redis.Options{Addr: container.Addr, MaxRetries: -1})
	c := service.NewRedisCache(client, time.Minute, service.WithRedisCircuitBreaker(cb))
	defer c.Stop()

	quote := model.Quote{QuoteID: "q1", FinalCost: 22865}
	c.Set(ctx, "cart", quote)
	got, found := c.Get(ctx, "cart")
	require.True(t, found)
	assert.Equal(t, quote.FinalCost, got.FinalCost)
	assert.Equal(t, circuitbreaker.StateClosed, cb.State())

	// Redis goes away: lookups degrade to misses and trip the breaker.
	require.NoError(t, container.Cleanup(ctx))

	for i := 0; i < 2; i++ {
		_, found := c.Get(ctx, "cart")
		assert.False(t, found)
	}
	assert.Equal(t, circuitbreaker.StateOpen, cb.State())
	assert.False(t, cb.GetStats().IsHealthy)
	assert.Equal(t, []circuitbreaker.State{circuitbreaker.StateOpen}, tr.states())

	// Further calls are rejected by the breaker without reaching Redis.
	_, found = c.Get(ctx, "cart")
	assert.False(t, found)
	assert.ErrorIs(t, cb.Execute(ctx, func() error { return nil }), circuitbreaker.ErrCircuitOpen)
}

func TestCircuitBreakerWithMongoDB_Integration(t *testing.T) {
	ctx := context.Background()

	mongoContainer, err := testutil.SetupMongoDB(ctx)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, mongoContainer.Cleanup(ctx))
	}()

	db, err := repository.NewMongoDB(mongoContainer.URI, "test_coupon_service")
	require.NoError(t, err)
	defer func() {
		_ = db.Close(ctx)
	}()

	cb := circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: 2,
		SuccessThreshold: 1,
		Timeout:          100 * time.Millisecond,
		Name:             "test-logs",
	})
	wrappedRepo := repository.NewLogsRepositoryWithCircuitBreaker(repository.NewLogsRepository(db), cb)

	err = wrappedRepo.CreateMany(ctx, []*repository.LogEntryDocument{
		{Level: "info", Message: "HTTP request"},
		{Level: "info", Message: "Quote computed", ActionType: model.ActionTypeQuote},
	})
	require.NoError(t, err)

	count, err := wrappedRepo.Count(ctx, repository.LogQueryOptions{ActionType: model.ActionTypeQuote})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	assert.Equal(t, circuitbreaker.StateClosed, cb.State())
	assert.True(t, cb.GetStats().IsHealthy)

	// A disconnected client fails every write and trips the breaker.
	require.NoError(t, db.Close(ctx))
	for i := 0; i < 2; i++ {
		assert.Error(t, wrappedRepo.Create(ctx, &repository.LogEntryDocument{Level: "info", Message: "dropped"}))
	}
	assert.True(t, cb.IsOpen())
	// Writes are dropped silently while open; reads surface the open circuit.
	assert.NoError(t, wrappedRepo.Create(ctx, &repository.LogEntryDocument{Level: "info", Message: "dropped"}))
	_, err = wrappedRepo.Count(ctx, repository.LogQueryOptions{})
	assert.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)

	time.Sleep(150 * time.Millisecond)
	assert.Error(t, wrappedRepo.Create(ctx, &repository.LogEntryDocument{Level: "info", Message: "trial"}))
	assert.True(t, cb.IsOpen(), "a failed half-open trial reopens the circuit")
}
