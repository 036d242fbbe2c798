package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/guttosm/coupon-service/internal/discount"
	"github.com/guttosm/coupon-service/internal/domain/model"
	"github.com/guttosm/coupon-service/internal/logger"
	"github.com/guttosm/coupon-service/internal/metrics"
	"github.com/guttosm/coupon-service/internal/service/cache"
)

const defaultPublishTimeout = 5 * time.Second

// Quote outcome labels recorded in metrics.
const (
	QuoteStatusComputed = "computed"
	QuoteStatusCached   = "cached"
	QuoteStatusError    = "error"
)

// QuotePublisher delivers quote events to downstream consumers.
type QuotePublisher interface {
	PublishQuote(ctx context.Context, event model.QuoteEvent) error
}

// PricingService prices carts against the registered coupon chain.
type PricingService interface {
	// Quote evaluates the chain against cart and returns the priced result.
	// The cart's current cost reflects the applied discounts afterwards,
	// unless the quote was served from cache.
	Quote(ctx context.Context, cart *model.Cart) (model.Quote, error)

	// Applicable returns the names of the coupons matching cart without
	// applying any discount.
	Applicable(ctx context.Context, cart *model.Cart) ([]string, error)
}

// PricingOption configures a PricingServiceImpl.
type PricingOption func(*PricingServiceImpl)

// PricingServiceImpl implements PricingService on a discount engine.
type PricingServiceImpl struct {
	engine         *discount.Engine
	cache          cache.Cache
	publisher      QuotePublisher
	publishTimeout time.Duration
	logger         zerolog.Logger
	now            func() time.Time

	wg sync.WaitGroup
}

// WithQuoteCache caches quotes by cart fingerprint.
func WithQuoteCache(c cache.Cache) PricingOption {
	return func(s *PricingServiceImpl) {
		s.cache = c
	}
}

// WithPublisher publishes a QuoteEvent for every quote.
func WithPublisher(p QuotePublisher) PricingOption {
	return func(s *PricingServiceImpl) {
		s.publisher = p
	}
}

// WithPublishTimeout bounds each event publish. Non-positive values are ignored.
func WithPublishTimeout(d time.Duration) PricingOption {
	return func(s *PricingServiceImpl) {
		if d > 0 {
			s.publishTimeout = d
		}
	}
}

// WithPricingLogger sets the logger.
func WithPricingLogger(l zerolog.Logger) PricingOption {
	return func(s *PricingServiceImpl) {
		s.logger = l
	}
}

// NewPricingService creates a pricing service over engine.
func NewPricingService(engine *discount.Engine, opts ...PricingOption) *PricingServiceImpl {
	s := &PricingServiceImpl{
		engine:         engine,
		publishTimeout: defaultPublishTimeout,
		logger:         zerolog.Nop(),
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Quote prices cart. A cancelled context is returned as an error before any
// work is done.
func (s *PricingServiceImpl) Quote(ctx context.Context, cart *model.Cart) (model.Quote, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		metrics.RecordQuote(time.Since(start), QuoteStatusError)
		return model.Quote{}, err
	}

	fingerprint := cart.Fingerprint()

	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, quoteCacheKey(s.engine.Version(), fingerprint)); ok {
			q := cloneQuote(cached)
			q.QuoteID = uuid.NewString()
			q.PricedAt = s.now()
			metrics.RecordQuote(time.Since(start), QuoteStatusCached)
			s.publish(ctx, model.NewQuoteEvent(&q, cart, logger.RequestIDFromContext(ctx)))
			return q, nil
		}
	}

	ev := s.engine.Evaluate(cart)

	q := model.Quote{
		QuoteID:           uuid.NewString(),
		OriginalCost:      cart.OriginalCost(),
		FinalCost:         ev.FinalCost,
		TotalDiscount:     cart.OriginalCost() - ev.FinalCost,
		ApplicableCoupons: ev.Applicable,
		AppliedDiscounts:  ev.Applied,
		StoppedBy:         ev.StoppedBy,
		PricedAt:          s.now(),
	}

	for _, a := range ev.Applied {
		metrics.RecordCouponApplied(a.Type, a.Amount)
	}

	if s.cache != nil {
		// Stored under the chain the quote was computed with, which may
		// already be older than the one looked up above.
		s.cache.Set(ctx, quoteCacheKey(ev.Version, fingerprint), cloneQuote(q))
	}

	metrics.RecordQuote(time.Since(start), QuoteStatusComputed)
	s.logger.Debug().
		Str("request_id", logger.RequestIDFromContext(ctx)).
		Str("quote_id", q.QuoteID).
		Float64("original_cost", q.OriginalCost).
		Float64("final_cost", q.FinalCost).
		Int("applied", len(q.AppliedDiscounts)).
		Msg("Quote computed")

	s.publish(ctx, model.NewQuoteEvent(&q, cart, logger.RequestIDFromContext(ctx)))
	return q, nil
}

// Applicable returns the matching coupon names in chain order.
func (s *PricingServiceImpl) Applicable(ctx context.Context, cart *model.Cart) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.engine.ApplicableNames(cart), nil
}

// Close waits for in-flight event publishes.
func (s *PricingServiceImpl) Close() {
	s.wg.Wait()
}

// publish sends event in the background. The request context only
// contributes values; the publish outlives the request.
func (s *PricingServiceImpl) publish(ctx context.Context, event model.QuoteEvent) {
	if s.publisher == nil {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
		defer cancel()

		if err := s.publisher.PublishQuote(pctx, event); err != nil {
			s.logger.Warn().
				Err(err).
				Str("quote_id", event.QuoteID).
				Str("request_id", event.RequestID).
				Msg("Failed to publish quote event")
		}
	}()
}

// quoteCacheKey binds a cart fingerprint to the chain version, so that
// engines with different chains never share entries in a common cache.
func quoteCacheKey(chainVersion, cartFingerprint string) string {
	return chainVersion + ":" + cartFingerprint
}

func cloneQuote(q model.Quote) model.Quote {
	q.ApplicableCoupons = append([]string(nil), q.ApplicableCoupons...)
	q.AppliedDiscounts = append([]model.AppliedDiscount(nil), q.AppliedDiscounts...)
	return q
}
