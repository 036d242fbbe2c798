// Package app provides service initialization.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/guttosm/coupon-service/config"
	"github.com/guttosm/coupon-service/internal/discount"
	"github.com/guttosm/coupon-service/internal/domain/dto"
	"github.com/guttosm/coupon-service/internal/logger"
	"github.com/guttosm/coupon-service/internal/messaging"
	"github.com/guttosm/coupon-service/internal/metrics"
	"github.com/guttosm/coupon-service/internal/service"
	"github.com/guttosm/coupon-service/internal/service/cache"
)

const (
	redisPingTimeout     = 2 * time.Second
	cacheMetricsInterval = 15 * time.Second
)

// ServiceComponents holds service-related components.
type ServiceComponents struct {
	Engine  *discount.Engine
	Factory *discount.StrategyFactory
	Pricing *service.PricingServiceImpl
	Coupons *service.CouponServiceImpl
	Tokens  *service.TokenServiceImpl

	// Cache is nil when caching is disabled.
	Cache cache.Cache
	// RedisCache and RedisClient are set only when the redis backend is reachable.
	RedisCache  *service.RedisCache
	RedisClient *redis.Client
	// Publisher is nil when no broker is configured or it is unreachable.
	Publisher *messaging.Publisher

	stopCacheMetrics func()
}

// InitializeServices builds the coupon chain from the configured catalogue
// and wires the pricing and coupon services around it. Optional backends that
// cannot be reached are logged and left out.
func InitializeServices(cfg config.Config) (*ServiceComponents, error) {
	defs, err := config.LoadCoupons(cfg.Coupons.File)
	if err != nil {
		return nil, err
	}

	factory := discount.NewStrategyFactory()
	engine := discount.NewEngine()
	for i, def := range defs {
		// Catalogue entries obey the same rules as registered coupons.
		if err := (&dto.RegisterCouponRequest{CouponDefinition: def}).Validate(); err != nil {
			return nil, fmt.Errorf("coupon %d in catalogue: %w", i+1, err)
		}
		coupon, err := discount.FromDefinition(factory, def)
		if err != nil {
			return nil, fmt.Errorf("coupon %d in catalogue: %w", i+1, err)
		}
		engine.Register(coupon)
	}
	log.Info().Int("coupons", engine.Len()).Str("file", cfg.Coupons.File).Msg("Coupon chain loaded")

	sc := &ServiceComponents{
		Engine:  engine,
		Factory: factory,
	}
	sc.initializeCache(cfg)
	sc.initializePublisher(cfg)

	pricingOpts := []service.PricingOption{
		service.WithPricingLogger(logger.Logger()),
		service.WithPublishTimeout(cfg.Messaging.PublishTimeout),
	}
	couponOpts := []service.CouponOption{
		service.WithCouponLogger(logger.Logger()),
	}
	if sc.Cache != nil {
		pricingOpts = append(pricingOpts, service.WithQuoteCache(sc.Cache))
		couponOpts = append(couponOpts, service.WithCouponCache(sc.Cache))
	}
	if sc.Publisher != nil {
		pricingOpts = append(pricingOpts, service.WithPublisher(sc.Publisher))
	}

	sc.Pricing = service.NewPricingService(engine, pricingOpts...)
	sc.Coupons = service.NewCouponService(engine, factory, couponOpts...)

	if cfg.Auth.JWTEnabled {
		sc.Tokens = service.NewTokenService(cfg.Auth.JWTSecretKey, cfg.Auth.JWTIssuer)
	}

	return sc, nil
}

func (sc *ServiceComponents) initializeCache(cfg config.Config) {
	if cfg.Cache.Size <= 0 {
		log.Info().Msg("Quote cache disabled")
		return
	}

	if cfg.Cache.Backend == config.CacheBackendRedis {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
		err := client.Ping(ctx).Err()
		cancel()

		if err == nil {
			sc.RedisClient = client
			sc.RedisCache = service.NewRedisCache(client, cfg.Cache.TTL,
				service.WithRedisPrefix(cfg.Redis.Prefix),
				service.WithRedisCircuitBreaker(newCircuitBreaker(BreakerRedis, cfg.CircuitBreaker)),
			)
			sc.Cache = sc.RedisCache
			log.Info().Str("addr", cfg.Redis.Addr).Msg("Using Redis quote cache")
			return
		}

		_ = client.Close()
		log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis unreachable - falling back to in-memory quote cache")
	}

	memory := service.NewShardedCache(cfg.Cache.Size, cfg.Cache.TTL, cfg.Cache.Shards)
	sc.Cache = memory
	sc.stopCacheMetrics = reportCacheMetrics(memory, cacheMetricsInterval)
	log.Info().Int("size", cfg.Cache.Size).Dur("ttl", cfg.Cache.TTL).Msg("Using in-memory quote cache")
}

func (sc *ServiceComponents) initializePublisher(cfg config.Config) {
	if cfg.Messaging.URL == "" {
		return
	}

	publisher, err := messaging.NewPublisher(messaging.Config{
		URL:        cfg.Messaging.URL,
		Exchange:   cfg.Messaging.Exchange,
		RoutingKey: cfg.Messaging.RoutingKey,
	}, messaging.WithCircuitBreaker(newCircuitBreaker(BreakerAMQP, cfg.CircuitBreaker)))
	if err != nil {
		log.Warn().Err(err).Msg("AMQP broker unreachable - quote events disabled")
		return
	}
	sc.Publisher = publisher
}

// Close waits for in-flight event publishes and releases the backends.
func (sc *ServiceComponents) Close() {
	if sc == nil {
		return
	}
	if sc.Pricing != nil {
		sc.Pricing.Close()
	}
	if sc.Publisher != nil {
		if err := sc.Publisher.Close(); err != nil {
			log.Warn().Err(err).Msg("Error closing AMQP publisher")
		}
	}
	if sc.stopCacheMetrics != nil {
		sc.stopCacheMetrics()
	}
	if sc.Cache != nil {
		sc.Cache.Stop()
	}
}

// reportCacheMetrics publishes c's size and capacity every interval until
// the returned stop function is called.
func reportCacheMetrics(c cache.CacheWithMetrics, interval time.Duration) func() {
	done := make(chan struct{})
	var once sync.Once

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			m := c.Metrics()
			metrics.UpdateCacheMetrics(m.Size, m.Capacity)
			select {
			case <-ticker.C:
			case <-done:
				return
			}
		}
	}()

	return func() { once.Do(func() { close(done) }) }
}
