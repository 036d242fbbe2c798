//go:build integration

package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/coupon-service/config"
	"github.com/guttosm/coupon-service/internal/domain/model"
)

func TestInitializeDatabase_Integration(t *testing.T) {
	ctx := context.Background()

	dbCfg := mongoConfig(t)
	dbCfg.LogsTTL = 7 * 24 * time.Hour
	components := InitializeDatabase(dbCfg, config.CircuitBreakerConfig{FailureThreshold: 5, SuccessThreshold: 2, Timeout: 30 * time.Second})
	require.NotNil(t, components)
	t.Cleanup(func() { components.Close(ctx) })

	assert.NotNil(t, components.DB)
	assert.NotNil(t, components.LogsCircuitBreaker)
	assert.NoError(t, components.DB.HealthCheck(ctx))

	entries := []*model.LogEntry{
		{Level: "info", Message: "HTTP request", Method: "POST", Path: "/api/checkout/quote", StatusCode: 200},
		{Level: "info", Message: "Quote computed", ActionType: model.ActionTypeQuote, Subject: "ops"},
	}
	require.NoError(t, components.LoggingService.CreateLogs(ctx, entries))

	count, err := components.LoggingService.CountLogs(ctx, model.LogQueryOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	audits, err := components.LoggingService.QueryLogs(ctx, model.LogQueryOptions{ActionType: model.ActionTypeQuote})
	require.NoError(t, err)
	require.Len(t, audits, 1)
	assert.Equal(t, "ops", audits[0].Subject)
	assert.False(t, audits[0].Timestamp.IsZero())
}

func TestInitializeDatabase_UnreachableIntegration(t *testing.T) {
	components := InitializeDatabase(config.DatabaseConfig{
		URI:          "mongodb://127.0.0.1:1/?serverSelectionTimeoutMS=500&connectTimeoutMS=500",
		DatabaseName: "unreachable",
		Enabled:      true,
	}, config.CircuitBreakerConfig{})
	assert.Nil(t, components)
}
