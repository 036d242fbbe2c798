package discount

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"github.com/rs/zerolog"

	"github.com/guttosm/coupon-service/internal/domain/model"
)

// Result is the outcome of one chain evaluation.
type Result struct {
	FinalCost float64
	// Applied lists every coupon that fired, in evaluation order.
	Applied []model.AppliedDiscount
	// StoppedBy is the display name of the non-combinable coupon that ended
	// evaluation, or empty if the chain ran to the end.
	StoppedBy string
}

// TotalDiscount returns the sum of applied discount amounts.
func (r Result) TotalDiscount() float64 {
	var total float64
	for _, a := range r.Applied {
		total += a.Amount
	}
	return total
}

// Evaluation is the outcome of Evaluate: the applicable names and the
// applied chain, both taken from the same chain version.
type Evaluation struct {
	Result
	// Applicable lists the display names of the coupons whose predicate
	// matched the cart before any discount was applied.
	Applicable []string
	// Version identifies the chain the cart was evaluated against.
	Version string
}

// Engine owns an ordered list of coupons and evaluates them against carts.
// It is safe for concurrent use as long as each call works on its own cart.
type Engine struct {
	mu      sync.Mutex
	coupons []Coupon
	version string
	logger  zerolog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the logger used to record coupon firings.
func WithLogger(logger zerolog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine returns an empty engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Register appends coupons to the end of the chain. Registration order is
// evaluation order.
func (e *Engine) Register(coupons ...Coupon) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, c := range coupons {
		h := sha256.New()
		h.Write([]byte(e.version))
		c.writeKey(h)
		e.version = hex.EncodeToString(h.Sum(nil))
		e.coupons = append(e.coupons, c)
	}
}

// Version returns a digest of the registered chain: the kind, parameters,
// combinable flag and position of every coupon. Engines with equal chains
// report equal versions, and every Register changes it. An empty engine
// reports "".
func (e *Engine) Version() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.version
}

// Len returns the number of registered coupons.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.coupons)
}

// Coupons describes the registered coupons in chain order.
func (e *Engine) Coupons() []model.CouponInfo {
	e.mu.Lock()
	defer e.mu.Unlock()

	infos := make([]model.CouponInfo, 0, len(e.coupons))
	for i, c := range e.coupons {
		infos = append(infos, c.Info(i+1))
	}
	return infos
}

// ApplicableNames returns the display names of the coupons whose predicate
// matches the cart as it is now. The cart is not modified.
func (e *Engine) ApplicableNames(cart *model.Cart) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.applicableNames(cart)
}

func (e *Engine) applicableNames(cart *model.Cart) []string {
	names := make([]string, 0, len(e.coupons))
	for _, c := range e.coupons {
		if c.IsApplicable(cart) {
			names = append(names, c.DisplayName())
		}
	}
	return names
}

// ApplyAll evaluates the chain against cart and returns its final cost.
func (e *Engine) ApplyAll(cart *model.Cart) float64 {
	return e.Apply(cart).FinalCost
}

// Apply evaluates the chain against cart, applying each applicable coupon's
// discount to the cart's current cost in turn. Evaluation stops after the
// first applicable coupon that is not combinable.
func (e *Engine) Apply(cart *model.Cart) Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.apply(cart)
}

// Evaluate runs ApplicableNames and then Apply under one lock, so both see
// the same chain even while coupons are being registered.
func (e *Engine) Evaluate(cart *model.Cart) Evaluation {
	e.mu.Lock()
	defer e.mu.Unlock()

	applicable := e.applicableNames(cart)
	return Evaluation{
		Result:     e.apply(cart),
		Applicable: applicable,
		Version:    e.version,
	}
}

func (e *Engine) apply(cart *model.Cart) Result {
	result := Result{Applied: make([]model.AppliedDiscount, 0, len(e.coupons))}
	for _, c := range e.coupons {
		if !c.IsApplicable(cart) {
			continue
		}

		name := c.DisplayName()
		amount := c.ComputeDiscount(cart)
		after := cart.ApplyDiscount(amount)
		result.Applied = append(result.Applied, model.AppliedDiscount{
			Coupon:    name,
			Type:      c.Kind().Type(),
			Amount:    amount,
			CostAfter: after,
		})

		e.logger.Info().
			Str("coupon", name).
			Float64("amount", amount).
			Float64("current_cost", after).
			Msg("Coupon applied")

		if !c.IsCombinable() {
			result.StoppedBy = name
			e.logger.Info().Str("coupon", name).Msg("Non-combinable coupon applied, stopping chain")
			break
		}
	}

	result.FinalCost = cart.CurrentCost()
	return result
}
