// Package cache defines the quote cache contract shared by the in-memory
// and Redis backends.
package cache

import (
	"context"

	"github.com/guttosm/coupon-service/internal/domain/model"
)

// Cache stores priced quotes keyed by cart fingerprint.
type Cache interface {
	Get(ctx context.Context, key string) (model.Quote, bool)
	Set(ctx context.Context, key string, value model.Quote)
	Invalidate(ctx context.Context, key string)
	// Clear drops every entry. Called when the coupon chain changes.
	Clear(ctx context.Context)
	Stop()
}

// Metrics provides cache performance metrics.
type Metrics struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int
	Capacity  int
}

// CacheWithMetrics extends Cache with metrics reporting.
type CacheWithMetrics interface {
	Cache
	Metrics() Metrics
}
