//go:build !integration

package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/guttosm/coupon-service/config"
)

func TestInitializeDatabase(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.DatabaseConfig
	}{
		{
			name: "disabled database",
			cfg:  config.DatabaseConfig{Enabled: false, URI: "mongodb://localhost:27017"},
		},
		{
			name: "invalid URI",
			cfg:  config.DatabaseConfig{Enabled: true, URI: "not-a-mongodb-uri", DatabaseName: "coupons"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := InitializeDatabase(tt.cfg, config.CircuitBreakerConfig{})
			assert.Nil(t, db)
		})
	}
}

func TestDatabaseComponents_CloseNil(t *testing.T) {
	var db *DatabaseComponents
	assert.NotPanics(t, func() { db.Close(context.Background()) })
	assert.NotPanics(t, func() { (&DatabaseComponents{}).Close(context.Background()) })
}

func TestNewCircuitBreaker(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.CircuitBreakerConfig
	}{
		{name: "defaults for zero values", cfg: config.CircuitBreakerConfig{}},
		{name: "configured", cfg: config.CircuitBreakerConfig{FailureThreshold: 1, SuccessThreshold: 1, Timeout: time.Second}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cb := newCircuitBreaker("test-"+tt.name, tt.cfg)
			assert.Equal(t, "test-"+tt.name, cb.Name())
			assert.False(t, cb.IsOpen())
		})
	}
}
