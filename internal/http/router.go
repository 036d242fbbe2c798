package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/guttosm/coupon-service/internal/i18n"
	"github.com/guttosm/coupon-service/internal/metrics"
	"github.com/guttosm/coupon-service/internal/middleware"
	"github.com/guttosm/coupon-service/internal/service"
)

// RouterConfig holds router configuration options.
type RouterConfig struct {
	RequestTimeout time.Duration
	APIKeys        map[string]bool
	EnableAuth     bool
	CORSOrigins    []string
	SwaggerUser    string
	SwaggerPass    string
	// IdempotencyStore enables Idempotency-Key handling when set.
	IdempotencyStore middleware.IdempotencyStore
	// TokenValidator guards coupon registration when set.
	TokenValidator service.TokenValidator
	// AsyncLogger persists request logs when set.
	AsyncLogger *middleware.AsyncLogger

	// IPLimiter limits every request per client IP when set.
	IPLimiter *middleware.RateLimiter
	// SubjectLimiter limits coupon registration per token subject when set.
	SubjectLimiter *middleware.RateLimiter
}

// DefaultRouterConfig returns the default router configuration. Rate
// limiting is off until EnableRateLimit is called.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		RequestTimeout: middleware.DefaultRequestTimeout,
	}
}

// EnableRateLimit creates the per-IP and per-subject limiters, each allowing
// rate requests per window. Non-positive rates leave rate limiting off.
// The limiters run until Close.
func (cfg *RouterConfig) EnableRateLimit(rate int, window time.Duration) {
	if rate <= 0 {
		return
	}
	cfg.Close()
	cfg.IPLimiter = middleware.NewRateLimiter(rate, window)
	cfg.SubjectLimiter = middleware.NewRateLimiter(rate, window)
}

// Close stops the rate limiters' eviction loops.
func (cfg *RouterConfig) Close() {
	if cfg.IPLimiter != nil {
		cfg.IPLimiter.Stop()
	}
	if cfg.SubjectLimiter != nil {
		cfg.SubjectLimiter.Stop()
	}
}

// idempotency returns the Idempotency-Key middleware as an optional route
// prefix. Routes place it after their authentication handlers.
func (cfg *RouterConfig) idempotency() []gin.HandlerFunc {
	if cfg == nil || cfg.IdempotencyStore == nil {
		return nil
	}
	return []gin.HandlerFunc{middleware.Idempotency(middleware.IdempotencyConfig{
		Store:   cfg.IdempotencyStore,
		Enabled: true,
	})}
}

// NewRouter creates and configures the Gin router for the coupon service.
func NewRouter(handler *Handler, healthHandler *HealthHandler, cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.NoRoute(func(c *gin.Context) {
		NewResponseBuilder(c).Error(http.StatusNotFound, i18n.ErrKeyNotFound, nil)
	})

	configureGlobalMiddleware(router, &cfg)
	registerInfrastructureRoutes(router, healthHandler, &cfg)

	api := router.Group("/api")
	configureAPIMiddleware(api, &cfg)

	if handler != nil {
		groups := []RouteGroup{
			NewCheckoutRoutes(handler),
			NewCouponRoutes(handler),
		}
		for _, g := range groups {
			g.RegisterRoutes(api, &cfg)
		}
	}

	return router
}

// configureGlobalMiddleware sets up middleware applied to all routes.
func configureGlobalMiddleware(router *gin.Engine, cfg *RouterConfig) {
	allowedOrigins := cfg.CORSOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "Accept-Language", "Authorization", "X-API-Key", "Idempotency-Key", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", middleware.IdempotencyReplayedHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		metrics.PrometheusMiddleware(),
		middleware.Compression(),
		middleware.RequestLogger(cfg.AsyncLogger),
		middleware.ErrorHandler(),
	)

	if cfg.IPLimiter != nil {
		router.Use(cfg.IPLimiter.RateLimit())
	}
}

// registerInfrastructureRoutes registers health, metrics, and documentation routes.
func registerInfrastructureRoutes(router *gin.Engine, healthHandler *HealthHandler, cfg *RouterConfig) {
	if healthHandler != nil {
		healthHandler.Register(router)
	}
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.SwaggerUser != "" && cfg.SwaggerPass != "" {
		authorized := router.Group("/swagger", gin.BasicAuth(gin.Accounts{
			cfg.SwaggerUser: cfg.SwaggerPass,
		}))
		authorized.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	} else {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}

// configureAPIMiddleware sets up middleware for the API group.
func configureAPIMiddleware(api *gin.RouterGroup, cfg *RouterConfig) {
	api.Use(middleware.Timeout(cfg.RequestTimeout))

	if cfg.EnableAuth && len(cfg.APIKeys) > 0 {
		api.Use(middleware.APIKeyAuth(cfg.APIKeys))
	}
}
