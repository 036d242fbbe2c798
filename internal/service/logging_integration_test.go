//go:build integration

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/coupon-service/internal/circuitbreaker"
	"github.com/guttosm/coupon-service/internal/domain/model"
	"github.com/guttosm/coupon-service/internal/repository"
	"github.com/guttosm/coupon-service/internal/testutil"
)

func newMongoLoggingService(t *testing.T, dbName string, wrap bool) LoggingService {
	t.Helper()
	ctx := context.Background()

	container, err := testutil.SetupMongoDB(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Cleanup(ctx) })

	db, err := repository.NewMongoDB(container.URI, dbName)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(ctx) })
	require.NoError(t, db.SetLogsTTL(ctx, 30))

	var repo repository.LogsRepositoryInterface = repository.NewLogsRepository(db)
	if wrap {
		repo = repository.NewLogsRepositoryWithCircuitBreaker(repo, circuitbreaker.New(circuitbreaker.Config{
			FailureThreshold: 2,
			SuccessThreshold: 1,
			Timeout:          100 * time.Millisecond,
			Name:             "mongodb_logs",
		}))
	}
	return NewLoggingService(repo)
}

func TestLoggingService_AuditTrail_Integration(t *testing.T) {
	ctx := context.Background()
	svc := newMongoLoggingService(t, "coupon_audit_trail", false)

	base := time.Now().UTC().Add(-time.Minute).Truncate(time.Millisecond)
	require.NoError(t, svc.CreateLogs(ctx, []*model.LogEntry{
		{
			Timestamp:  base,
			Message:    "Quote computed",
			RequestID:  "req-quote",
			Method:     "POST",
			Path:       "/api/checkout/quote",
			ActionType: model.ActionTypeQuote,
			Fields:     map[string]interface{}{"final_cost": 22865.0},
		},
		nil,
		{
			Timestamp:  base.Add(time.Second),
			Message:    "Coupon registered",
			RequestID:  "req-register",
			Method:     "POST",
			Path:       "/api/coupons",
			Subject:    "pricing-admin",
			ActionType: model.ActionTypeRegisterCoupon,
		},
		{
			Timestamp: base.Add(2 * time.Second),
			Level:     "error",
			Message:   "Request error",
			RequestID: "req-broken",
			Path:      "/api/checkout/quote",
		},
	}))

	t.Run("filters by action type", func(t *testing.T) {
		entries, err := svc.QueryLogs(ctx, model.LogQueryOptions{ActionType: model.ActionTypeRegisterCoupon})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "pricing-admin", entries[0].Subject)
		assert.Equal(t, "info", entries[0].Level, "unset level is stored as info")
	})

	t.Run("newest first with paging", func(t *testing.T) {
		entries, err := svc.QueryLogs(ctx, model.LogQueryOptions{Path: "/api/checkout", Limit: 1})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "req-broken", entries[0].RequestID)

		entries, err = svc.QueryLogs(ctx, model.LogQueryOptions{Path: "/api/checkout", Limit: 1, Skip: 1})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "req-quote", entries[0].RequestID)
		assert.InDelta(t, 22865.0, entries[0].Fields["final_cost"], 1e-9)
	})

	t.Run("time range", func(t *testing.T) {
		from := base.Add(500 * time.Millisecond)
		to := base.Add(1500 * time.Millisecond)
		entries, err := svc.QueryLogs(ctx, model.LogQueryOptions{StartTime: &from, EndTime: &to})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "req-register", entries[0].RequestID)
	})

	t.Run("count ignores paging", func(t *testing.T) {
		n, err := svc.CountLogs(ctx, model.LogQueryOptions{Level: "info", Limit: 1})
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})
}

func TestLoggingService_ThroughCircuitBreaker_Integration(t *testing.T) {
	ctx := context.Background()
	svc := newMongoLoggingService(t, "coupon_audit_breaker", true)

	entry := &model.LogEntry{Message: "Quote computed", RequestID: "req-cb", ActionType: model.ActionTypeQuote}
	require.NoError(t, svc.CreateLog(ctx, entry))
	assert.False(t, entry.ID.IsZero())

	entries, err := svc.QueryLogs(ctx, model.LogQueryOptions{RequestID: "req-cb"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entry.ID, entries[0].ID)
}
