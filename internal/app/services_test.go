//go:build !integration

package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/coupon-service/config"
	"github.com/guttosm/coupon-service/internal/domain/model"
	"github.com/guttosm/coupon-service/internal/service"
)

// unreachable is a local port nothing listens on.
const unreachable = "127.0.0.1:1"

func baseConfig() config.Config {
	return config.Config{
		Cache: config.CacheConfig{Backend: config.CacheBackendMemory, Size: 100, TTL: time.Minute, Shards: 4},
		Redis: config.RedisConfig{Addr: unreachable, Prefix: "coupon:quote:"},
		Auth:  config.AuthConfig{JWTSecretKey: "secret", JWTIssuer: "coupon-service"},
		CircuitBreaker: config.CircuitBreakerConfig{
			FailureThreshold: 3,
			SuccessThreshold: 1,
			Timeout:          time.Second,
		},
	}
}

func writeCatalogue(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "coupons.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestInitializeServices(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(t *testing.T, cfg *config.Config)
		validate func(*testing.T, *ServiceComponents)
	}{
		{
			name:   "built-in catalogue with memory cache",
			mutate: func(*testing.T, *config.Config) {},
			validate: func(t *testing.T, sc *ServiceComponents) {
				assert.Equal(t, 4, sc.Engine.Len())
				assert.IsType(t, &service.ShardedCache{}, sc.Cache)
				assert.Nil(t, sc.RedisCache)
				assert.Nil(t, sc.RedisClient)
				assert.Nil(t, sc.Publisher)
				assert.Nil(t, sc.Tokens)
			},
		},
		{
			name: "cache disabled",
			mutate: func(_ *testing.T, cfg *config.Config) {
				cfg.Cache.Size = 0
			},
			validate: func(t *testing.T, sc *ServiceComponents) {
				assert.Nil(t, sc.Cache)
			},
		},
		{
			name: "unreachable redis falls back to memory",
			mutate: func(_ *testing.T, cfg *config.Config) {
				cfg.Cache.Backend = config.CacheBackendRedis
			},
			validate: func(t *testing.T, sc *ServiceComponents) {
				assert.IsType(t, &service.ShardedCache{}, sc.Cache)
				assert.Nil(t, sc.RedisClient)
			},
		},
		{
			name: "unreachable broker disables events",
			mutate: func(_ *testing.T, cfg *config.Config) {
				cfg.Messaging.URL = "amqp://guest:guest@" + unreachable + "/"
			},
			validate: func(t *testing.T, sc *ServiceComponents) {
				assert.Nil(t, sc.Publisher)
			},
		},
		{
			name: "jwt enabled",
			mutate: func(_ *testing.T, cfg *config.Config) {
				cfg.Auth.JWTEnabled = true
			},
			validate: func(t *testing.T, sc *ServiceComponents) {
				require.NotNil(t, sc.Tokens)
				token, err := sc.Tokens.IssueToken("ops", []string{"admin"}, time.Minute)
				require.NoError(t, err)
				claims, err := sc.Tokens.ValidateToken(context.Background(), token)
				require.NoError(t, err)
				assert.Equal(t, "ops", claims.Subject)
			},
		},
		{
			name: "catalogue file",
			mutate: func(t *testing.T, cfg *config.Config) {
				cfg.Coupons.File = writeCatalogue(t, "coupons:\n  - type: loyalty\n    percent: 5\n    combinable: false\n")
			},
			validate: func(t *testing.T, sc *ServiceComponents) {
				assert.Equal(t, []model.CouponInfo{
					{Position: 1, Type: model.CouponTypeLoyalty, Name: "Loyalty Offer 5% off", Combinable: false},
				}, sc.Coupons.List())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			tt.mutate(t, &cfg)

			sc, err := InitializeServices(cfg)
			require.NoError(t, err)
			t.Cleanup(sc.Close)

			require.NotNil(t, sc.Pricing)
			require.NotNil(t, sc.Coupons)
			tt.validate(t, sc)
		})
	}
}

func TestInitializeServices_InvalidCatalogue(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "unknown field", body: "coupons:\n  - type: loyalty\n    pct: 5\n", wantErr: "failed to parse coupon catalogue"},
		{name: "unknown type", body: "coupons:\n  - type: mystery\n", wantErr: "coupon 1 in catalogue"},
		{name: "out of range", body: "coupons:\n  - type: loyalty\n    percent: 5\n  - type: loyalty\n    percent: 150\n", wantErr: "coupon 2 in catalogue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			cfg.Coupons.File = writeCatalogue(t, tt.body)

			sc, err := InitializeServices(cfg)
			require.Error(t, err)
			assert.Nil(t, sc)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		cfg := baseConfig()
		cfg.Coupons.File = filepath.Join(t.TempDir(), "missing.yaml")
		_, err := InitializeServices(cfg)
		assert.Error(t, err)
	})
}

func TestInitializeServices_QuoteWorkedExample(t *testing.T) {
	sc, err := InitializeServices(baseConfig())
	require.NoError(t, err)
	t.Cleanup(sc.Close)

	cart := model.NewCart()
	require.NoError(t, cart.AddProduct(model.NewProduct("Winter Jacket", "Clothing", 1000), 1))
	require.NoError(t, cart.AddProduct(model.NewProduct("Smartphone", "Electronics", 20000), 1))
	require.NoError(t, cart.AddProduct(model.NewProduct("Jeans", "Clothing", 1000), 2))
	require.NoError(t, cart.AddProduct(model.NewProduct("Headphones", "Electronics", 2000), 1))
	cart.SetLoyaltyMember(true)
	cart.SetPaymentBank("ABC")

	q, err := sc.Pricing.Quote(context.Background(), cart)
	require.NoError(t, err)
	assert.InDelta(t, 22865, q.FinalCost, 1e-6)
}

func TestServiceComponents_CloseNil(t *testing.T) {
	var sc *ServiceComponents
	assert.NotPanics(t, sc.Close)
}
