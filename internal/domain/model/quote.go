package model

import "time"

// AppliedDiscount records a single coupon firing during chain evaluation.
//
// @Description Discount applied by one coupon, in evaluation order
type AppliedDiscount struct {
	// Coupon is the display name of the coupon that fired
	Coupon string `json:"coupon" example:"Loyalty Offer 5% off"`
	// Type is the coupon type identifier
	Type string `json:"type" example:"loyalty"`
	// Amount is the discount subtracted from the running total
	Amount float64 `json:"amount" example:"1235"`
	// CostAfter is the cart's current cost after this discount
	CostAfter float64 `json:"cost_after" example:"23465"`
}

// Quote is the priced result of a cart checkout.
//
// @Description Cart pricing result with applicable coupons and applied discounts
type Quote struct {
	// QuoteID uniquely identifies this pricing result
	QuoteID string `json:"quote_id" example:"0b9c1f6e-1e8a-4bb0-9a55-7d384c5e1b1a"`
	// OriginalCost is the cart total at full price
	OriginalCost float64 `json:"original_cost" example:"25000"`
	// FinalCost is the cart total after all applied discounts
	FinalCost float64 `json:"final_cost" example:"22865"`
	// TotalDiscount is OriginalCost minus FinalCost
	TotalDiscount float64 `json:"total_discount" example:"2135"`
	// ApplicableCoupons lists the coupons whose predicate matched the undiscounted cart
	ApplicableCoupons []string `json:"applicable_coupons"`
	// AppliedDiscounts lists every coupon firing in evaluation order
	AppliedDiscounts []AppliedDiscount `json:"applied_discounts"`
	// StoppedBy names the non-combinable coupon that ended evaluation, if any
	StoppedBy string `json:"stopped_by,omitempty"`
	// PricedAt is when the quote was computed
	PricedAt time.Time `json:"priced_at"`
} // @name Quote

// QuoteEvent is published after a quote is computed.
type QuoteEvent struct {
	QuoteID       string            `json:"quote_id"`
	RequestID     string            `json:"request_id,omitempty"`
	OriginalCost  float64           `json:"original_cost"`
	FinalCost     float64           `json:"final_cost"`
	TotalDiscount float64           `json:"total_discount"`
	Applied       []AppliedDiscount `json:"applied"`
	LoyaltyMember bool              `json:"loyalty_member"`
	PaymentBank   string            `json:"payment_bank,omitempty"`
	PricedAt      time.Time         `json:"priced_at"`
}

// NewQuoteEvent builds the event published for a quote.
func NewQuoteEvent(q *Quote, cart *Cart, requestID string) QuoteEvent {
	return QuoteEvent{
		QuoteID:       q.QuoteID,
		RequestID:     requestID,
		OriginalCost:  q.OriginalCost,
		FinalCost:     q.FinalCost,
		TotalDiscount: q.TotalDiscount,
		Applied:       q.AppliedDiscounts,
		LoyaltyMember: cart.IsLoyaltyMember(),
		PaymentBank:   cart.PaymentBank(),
		PricedAt:      q.PricedAt,
	}
}
