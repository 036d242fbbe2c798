package http

import (
	"github.com/gin-gonic/gin"

	"github.com/guttosm/coupon-service/internal/middleware"
)

// RouteGroup defines a group of routes that can be registered.
type RouteGroup interface {
	// RegisterRoutes registers routes to the given router group.
	RegisterRoutes(rg *gin.RouterGroup, cfg *RouterConfig)
}

// CheckoutRoutes registers the read-only pricing endpoints.
type CheckoutRoutes struct {
	handler *Handler
}

// NewCheckoutRoutes creates checkout routes backed by handler.
func NewCheckoutRoutes(handler *Handler) *CheckoutRoutes {
	return &CheckoutRoutes{handler: handler}
}

// RegisterRoutes registers POST /checkout/quote and /checkout/applicable.
func (r *CheckoutRoutes) RegisterRoutes(rg *gin.RouterGroup, cfg *RouterConfig) {
	checkout := rg.Group("/checkout")
	idem := cfg.idempotency()
	checkout.POST("/quote", append(idem, r.handler.Quote)...)
	checkout.POST("/applicable", append(idem, r.handler.Applicable)...)
}

// CouponRoutes registers the coupon chain endpoints.
type CouponRoutes struct {
	handler *Handler
}

// NewCouponRoutes creates coupon routes backed by handler.
func NewCouponRoutes(handler *Handler) *CouponRoutes {
	return &CouponRoutes{handler: handler}
}

// RegisterRoutes registers GET and POST /coupons. Registration requires a
// bearer token with a writer role when cfg carries a TokenValidator, and is
// then also rate limited per token subject. Idempotent replays are served
// only after those checks pass.
func (r *CouponRoutes) RegisterRoutes(rg *gin.RouterGroup, cfg *RouterConfig) {
	rg.GET("/coupons", r.handler.ListCoupons)

	var chain []gin.HandlerFunc
	if cfg != nil && cfg.TokenValidator != nil {
		chain = append(chain,
			middleware.JWTAuth(cfg.TokenValidator),
			middleware.RequireRoles(middleware.RoleAdmin, middleware.RoleCouponWriter),
		)
		if cfg.SubjectLimiter != nil {
			// Per-subject budget on top of the global per-IP limiter.
			chain = append(chain, cfg.SubjectLimiter.UserRateLimit())
		}
	}
	chain = append(chain, cfg.idempotency()...)
	rg.POST("/coupons", append(chain, r.handler.RegisterCoupon)...)
}
