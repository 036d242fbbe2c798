// Package metrics provides Prometheus metrics collection for the coupon service.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration tracks HTTP request duration by method, path, and status code.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)

	// HTTPRequestTotal tracks total HTTP requests by method, path, and status code.
	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	// QuotesTotal counts cart quotes by outcome (computed, cached, error).
	QuotesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coupon_quotes_total",
			Help: "Total number of cart quotes",
		},
		[]string{"status"},
	)

	// QuoteDuration tracks how long pricing a cart takes.
	QuoteDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "coupon_quote_duration_seconds",
			Help:    "Cart quote duration in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
	)

	// CouponsAppliedTotal counts coupon firings by coupon type.
	CouponsAppliedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coupon_applied_total",
			Help: "Total number of coupons applied to carts",
		},
		[]string{"type"},
	)

	// DiscountAmountTotal sums the discount granted across all quotes.
	DiscountAmountTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "coupon_discount_amount_total",
			Help: "Total discount amount granted",
		},
	)

	// CouponsRegistered tracks the number of coupons in the chain.
	CouponsRegistered = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "coupon_registered",
			Help: "Number of registered coupons",
		},
	)

	// CacheOperationsTotal tracks cache operations.
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Total number of cache operations",
		},
		[]string{"operation", "result"},
	)

	// CacheSize tracks current cache size.
	CacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_size",
			Help: "Current cache size",
		},
	)

	// CacheCapacity tracks cache capacity.
	CacheCapacity = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_capacity",
			Help: "Cache capacity",
		},
	)

	// EventsPublishedTotal counts quote event publications by result.
	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coupon_events_published_total",
			Help: "Total number of quote events published",
		},
		[]string{"result"},
	)

	// CircuitBreakerState reports breaker state per dependency (0 closed, 1 open, 2 half-open).
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 open, 2 half-open)",
		},
		[]string{"name"},
	)

	// RateLimitedTotal counts requests rejected by a rate limiter.
	RateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_rate_limited_total",
			Help: "Total number of requests rejected by rate limiting",
		},
		[]string{"scope"},
	)
)

const unmatchedRoute = "unmatched"

// PrometheusMiddleware returns a Gin middleware that collects HTTP metrics.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		// Route templates keep label cardinality bounded.
		path := c.FullPath()
		if path == "" {
			path = unmatchedRoute
		}

		c.Next()

		duration := time.Since(start).Seconds()
		statusCode := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration)
		HTTPRequestTotal.WithLabelValues(method, path, statusCode).Inc()
	}
}

// RecordQuote records metrics for a cart quote.
func RecordQuote(duration time.Duration, status string) {
	QuoteDuration.Observe(duration.Seconds())
	QuotesTotal.WithLabelValues(status).Inc()
}

// RecordCouponApplied records a single coupon firing.
func RecordCouponApplied(couponType string, amount float64) {
	CouponsAppliedTotal.WithLabelValues(couponType).Inc()
	if amount > 0 {
		DiscountAmountTotal.Add(amount)
	}
}

// SetCouponsRegistered updates the registered coupon gauge.
func SetCouponsRegistered(n int) {
	CouponsRegistered.Set(float64(n))
}

// RecordCacheOperation records metrics for a cache operation.
func RecordCacheOperation(operation, result string) {
	CacheOperationsTotal.WithLabelValues(operation, result).Inc()
}

// UpdateCacheMetrics updates cache size and capacity metrics.
func UpdateCacheMetrics(size, capacity int) {
	CacheSize.Set(float64(size))
	CacheCapacity.Set(float64(capacity))
}

// RecordEventPublished records the outcome of a quote event publication.
func RecordEventPublished(result string) {
	EventsPublishedTotal.WithLabelValues(result).Inc()
}

// SetCircuitBreakerState records the state of a named circuit breaker.
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordRateLimited records a request rejected by the limiter for scope.
func RecordRateLimited(scope string) {
	RateLimitedTotal.WithLabelValues(scope).Inc()
}
