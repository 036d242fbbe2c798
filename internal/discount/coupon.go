package discount

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/guttosm/coupon-service/internal/domain/model"
)

// ErrUnknownCoupon is returned when a coupon definition names an unsupported type.
var ErrUnknownCoupon = errors.New("unknown coupon type")

// CouponKind tags a Coupon variant.
type CouponKind int

const (
	// CouponSeasonal discounts a percentage of one category's subtotal.
	CouponSeasonal CouponKind = iota
	// CouponLoyalty discounts a percentage of the current cost for loyalty members.
	CouponLoyalty
	// CouponBulkPurchase discounts a flat amount when the original cost reaches a threshold.
	CouponBulkPurchase
	// CouponBank discounts a capped percentage when paying with a given bank.
	CouponBank
)

// Type returns the catalogue identifier of the kind.
func (k CouponKind) Type() string {
	switch k {
	case CouponSeasonal:
		return model.CouponTypeSeasonal
	case CouponLoyalty:
		return model.CouponTypeLoyalty
	case CouponBulkPurchase:
		return model.CouponTypeBulk
	case CouponBank:
		return model.CouponTypeBank
	default:
		return "unknown"
	}
}

// Coupon is a discount rule: an applicability predicate plus a strategy
// evaluated against a rule-specific base amount. Coupons never mutate the
// cart; the engine applies the computed amount.
type Coupon struct {
	kind       CouponKind
	strategy   Strategy
	combinable bool

	percent   float64
	category  string
	threshold float64
	amount    float64
	bank      string
	minSpend  float64
	cap       float64
}

// CouponOption configures a Coupon.
type CouponOption func(*Coupon)

// WithCombinable sets whether evaluation continues after the coupon fires.
// Coupons are combinable unless configured otherwise.
func WithCombinable(combinable bool) CouponOption {
	return func(c *Coupon) {
		c.combinable = combinable
	}
}

func newCoupon(kind CouponKind, strategy Strategy, opts []CouponOption) Coupon {
	c := Coupon{kind: kind, strategy: strategy, combinable: true}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// NewSeasonalOffer returns a coupon taking percent of the subtotal of items in category.
func NewSeasonalOffer(f *StrategyFactory, percent float64, category string, opts ...CouponOption) Coupon {
	c := newCoupon(CouponSeasonal, f.MustCreate(StrategyPercent, percent, 0), opts)
	c.percent = percent
	c.category = category
	return c
}

// NewLoyaltyDiscount returns a coupon taking percent of the current cost for loyalty members.
func NewLoyaltyDiscount(f *StrategyFactory, percent float64, opts ...CouponOption) Coupon {
	c := newCoupon(CouponLoyalty, f.MustCreate(StrategyPercent, percent, 0), opts)
	c.percent = percent
	return c
}

// NewBulkPurchaseDiscount returns a coupon taking a flat amount once the
// original cost is at least threshold.
func NewBulkPurchaseDiscount(f *StrategyFactory, threshold, amount float64, opts ...CouponOption) Coupon {
	c := newCoupon(CouponBulkPurchase, f.MustCreate(StrategyFlat, amount, 0), opts)
	c.threshold = threshold
	c.amount = amount
	return c
}

// NewBankCoupon returns a coupon taking percent of the current cost, capped
// at cap, when the cart is paid with bank. minSpend is reported in the
// display name only.
func NewBankCoupon(f *StrategyFactory, bank string, minSpend, percent, cap float64, opts ...CouponOption) Coupon {
	c := newCoupon(CouponBank, f.MustCreate(StrategyPercentCap, percent, cap), opts)
	c.bank = bank
	c.minSpend = minSpend
	c.percent = percent
	c.cap = cap
	return c
}

// FromDefinition builds a coupon from a catalogue or API definition.
func FromDefinition(f *StrategyFactory, def model.CouponDefinition) (Coupon, error) {
	opts := []CouponOption{WithCombinable(def.IsCombinable())}

	switch def.Type {
	case model.CouponTypeSeasonal:
		return NewSeasonalOffer(f, def.Percent, def.Category, opts...), nil
	case model.CouponTypeLoyalty:
		return NewLoyaltyDiscount(f, def.Percent, opts...), nil
	case model.CouponTypeBulk:
		return NewBulkPurchaseDiscount(f, def.Threshold, def.Amount, opts...), nil
	case model.CouponTypeBank:
		return NewBankCoupon(f, def.Bank, def.MinSpend, def.Percent, def.Cap, opts...), nil
	default:
		return Coupon{}, fmt.Errorf("%w: %q", ErrUnknownCoupon, def.Type)
	}
}

// Kind returns the coupon variant.
func (c Coupon) Kind() CouponKind {
	return c.kind
}

// IsCombinable reports whether evaluation continues after this coupon fires.
func (c Coupon) IsCombinable() bool {
	return c.combinable
}

// IsApplicable reports whether the coupon applies to the cart. It reads the
// cart only.
func (c Coupon) IsApplicable(cart *model.Cart) bool {
	switch c.kind {
	case CouponSeasonal:
		return cart.HasCategory(c.category)
	case CouponLoyalty:
		return cart.IsLoyaltyMember()
	case CouponBulkPurchase:
		return cart.OriginalCost() >= c.threshold
	case CouponBank:
		return cart.PaymentBank() == c.bank
	default:
		return false
	}
}

// ComputeDiscount returns the discount amount for the cart's live state
// without applying it.
func (c Coupon) ComputeDiscount(cart *model.Cart) float64 {
	return c.strategy.Calculate(c.base(cart))
}

func (c Coupon) base(cart *model.Cart) float64 {
	switch c.kind {
	case CouponSeasonal:
		return cart.CategoryCost(c.category)
	case CouponLoyalty, CouponBulkPurchase, CouponBank:
		return cart.CurrentCost()
	default:
		return 0
	}
}

// DisplayName returns a human-readable description of the coupon.
func (c Coupon) DisplayName() string {
	switch c.kind {
	case CouponSeasonal:
		return fmt.Sprintf("Seasonal Offer %s%% off %s", formatAmount(c.percent), c.category)
	case CouponLoyalty:
		return fmt.Sprintf("Loyalty Offer %s%% off", formatAmount(c.percent))
	case CouponBulkPurchase:
		return fmt.Sprintf("BulkPurchase Offer %s off on spend of %s",
			formatAmount(c.amount), formatAmount(c.threshold))
	case CouponBank:
		return fmt.Sprintf("Bank Offer %s%% off up to %s on minimum spend of %s with %s",
			formatAmount(c.percent), formatAmount(c.cap), formatAmount(c.minSpend), c.bank)
	default:
		return "Unknown Offer"
	}
}

// Info describes the coupon at the given 1-based chain position.
func (c Coupon) Info(position int) model.CouponInfo {
	return model.CouponInfo{
		Position:   position,
		Type:       c.kind.Type(),
		Name:       c.DisplayName(),
		Combinable: c.combinable,
	}
}

// writeKey writes an unambiguous encoding of every field that affects the
// coupon's behaviour. Strings are length-prefixed.
func (c Coupon) writeKey(w io.Writer) {
	_, _ = fmt.Fprintf(w, "%d|%d|%s|%s|%s|%t|%s|%d:%s|%s|%s|%d:%s|%s|%s;",
		c.kind, c.strategy.kind,
		formatAmount(c.strategy.amount), formatAmount(c.strategy.percent), formatAmount(c.strategy.cap),
		c.combinable,
		formatAmount(c.percent), len(c.category), c.category,
		formatAmount(c.threshold), formatAmount(c.amount),
		len(c.bank), c.bank,
		formatAmount(c.minSpend), formatAmount(c.cap))
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
