// Package app provides router configuration.
package app

import (
	"github.com/guttosm/coupon-service/config"
	"github.com/guttosm/coupon-service/internal/http"
	"github.com/guttosm/coupon-service/internal/middleware"
)

const redisIdempotencyPrefix = "coupon:idempotency:"

// RouterComponents holds router-related components.
type RouterComponents struct {
	Handler       *http.Handler
	HealthHandler *http.HealthHandler
	Config        http.RouterConfig

	// AsyncLogger is nil when MongoDB is disabled.
	AsyncLogger *middleware.AsyncLogger
	// memoryStore is set when idempotency falls back to process memory.
	memoryStore *middleware.MemoryIdempotencyStore
}

// InitializeRouter builds the handlers, readiness checks and router
// configuration. db may be nil.
func InitializeRouter(svc *ServiceComponents, db *DatabaseComponents, cfg config.Config) *RouterComponents {
	rc := &RouterComponents{
		HealthHandler: http.NewHealthHandler(),
	}

	if db != nil {
		rc.AsyncLogger = middleware.NewAsyncLogger(db.LoggingService, middleware.DefaultAsyncLoggerConfig())
		if db.DB != nil {
			rc.HealthHandler.RegisterChecker("mongodb", db.DB)
		}
		rc.HealthHandler.RegisterCircuitBreaker(BreakerMongoDB, db.LogsCircuitBreaker)
	}

	if svc.RedisCache != nil {
		rc.HealthHandler.RegisterChecker("redis", svc.RedisCache)
		rc.HealthHandler.RegisterCircuitBreaker(BreakerRedis, svc.RedisCache.CircuitBreaker())
	}
	if svc.Publisher != nil {
		rc.HealthHandler.RegisterChecker("amqp", svc.Publisher)
		rc.HealthHandler.RegisterCircuitBreaker(BreakerAMQP, svc.Publisher.CircuitBreaker())
	}

	rc.Handler = http.NewHandler(svc.Pricing, svc.Coupons, http.WithAuditLogger(rc.AsyncLogger))

	rc.Config = http.RouterConfig{
		RequestTimeout: cfg.Server.RequestTimeout,
		EnableAuth:     cfg.Auth.Enabled,
		APIKeys:        cfg.Auth.APIKeys,
		CORSOrigins:    cfg.Server.CORSOrigins,
		SwaggerUser:    cfg.Server.SwaggerUser,
		SwaggerPass:    cfg.Server.SwaggerPass,
		AsyncLogger:    rc.AsyncLogger,
	}
	rc.Config.EnableRateLimit(cfg.Server.RateLimit, cfg.Server.RateWindow)

	// Shared Redis keeps idempotent replays consistent across replicas.
	if svc.RedisClient != nil {
		rc.Config.IdempotencyStore = middleware.NewRedisIdempotencyStore(
			svc.RedisClient, redisIdempotencyPrefix, middleware.IdempotencyKeyTTL)
	} else {
		rc.memoryStore = middleware.NewMemoryIdempotencyStore(middleware.IdempotencyKeyTTL)
		rc.Config.IdempotencyStore = rc.memoryStore
	}

	if svc.Tokens != nil {
		rc.Config.TokenValidator = svc.Tokens
	}

	return rc
}

// Close stops the rate limiters and the idempotency cleanup loop, then
// flushes pending log entries.
func (rc *RouterComponents) Close() {
	if rc == nil {
		return
	}
	rc.Config.Close()
	if rc.memoryStore != nil {
		rc.memoryStore.Stop()
	}
	rc.AsyncLogger.Stop()
}
