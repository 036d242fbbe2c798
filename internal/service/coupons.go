package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/guttosm/coupon-service/internal/discount"
	"github.com/guttosm/coupon-service/internal/domain/model"
	"github.com/guttosm/coupon-service/internal/metrics"
	"github.com/guttosm/coupon-service/internal/service/cache"
)

// CouponService manages the registered coupon chain.
type CouponService interface {
	// List returns the registered coupons in evaluation order.
	List() []model.CouponInfo

	// Register appends the coupon described by def to the chain.
	Register(ctx context.Context, def model.CouponDefinition) (model.CouponInfo, error)
}

// CouponServiceImpl implements CouponService.
type CouponServiceImpl struct {
	engine  *discount.Engine
	factory *discount.StrategyFactory
	cache   cache.Cache
	logger  zerolog.Logger

	// mu keeps Register's append and position lookup together.
	mu sync.Mutex
}

// CouponOption configures a CouponServiceImpl.
type CouponOption func(*CouponServiceImpl)

// WithCouponCache sets the quote cache cleared on every registration.
func WithCouponCache(c cache.Cache) CouponOption {
	return func(s *CouponServiceImpl) {
		s.cache = c
	}
}

// WithCouponLogger sets the logger.
func WithCouponLogger(l zerolog.Logger) CouponOption {
	return func(s *CouponServiceImpl) {
		s.logger = l
	}
}

// NewCouponService creates a coupon service over engine.
func NewCouponService(engine *discount.Engine, factory *discount.StrategyFactory, opts ...CouponOption) *CouponServiceImpl {
	s := &CouponServiceImpl{
		engine:  engine,
		factory: factory,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	metrics.SetCouponsRegistered(engine.Len())
	return s
}

// List returns the registered coupons in evaluation order.
func (s *CouponServiceImpl) List() []model.CouponInfo {
	return s.engine.Coupons()
}

// Register builds a coupon from def and appends it to the chain.
func (s *CouponServiceImpl) Register(ctx context.Context, def model.CouponDefinition) (model.CouponInfo, error) {
	coupon, err := discount.FromDefinition(s.factory, def)
	if err != nil {
		return model.CouponInfo{}, err
	}

	s.mu.Lock()
	s.engine.Register(coupon)
	position := s.engine.Len()
	s.mu.Unlock()

	if s.cache != nil {
		s.cache.Clear(ctx)
	}
	metrics.SetCouponsRegistered(position)

	info := coupon.Info(position)
	s.logger.Info().
		Str("coupon", info.Name).
		Str("type", info.Type).
		Int("position", info.Position).
		Bool("combinable", info.Combinable).
		Msg("Coupon registered")
	return info, nil
}
