package model

// Coupon type identifiers used in catalogues and API payloads.
const (
	CouponTypeSeasonal = "seasonal"
	CouponTypeLoyalty  = "loyalty"
	CouponTypeBulk     = "bulk_purchase"
	CouponTypeBank     = "bank"
)

// CouponDefinition describes a coupon to register. Only the fields relevant
// to Type are read.
//
// @Description Coupon definition. seasonal: percent, category. loyalty: percent. bulk_purchase: threshold, amount. bank: bank, min_spend, percent, cap.
// @Example {"type": "bank", "bank": "ABC", "min_spend": 2000, "percent": 15, "cap": 500}
type CouponDefinition struct {
	Type      string  `json:"type" yaml:"type" example:"seasonal"`
	Percent   float64 `json:"percent,omitempty" yaml:"percent" example:"10"`
	Category  string  `json:"category,omitempty" yaml:"category" example:"Clothing"`
	Threshold float64 `json:"threshold,omitempty" yaml:"threshold" example:"1000"`
	Amount    float64 `json:"amount,omitempty" yaml:"amount" example:"100"`
	Bank      string  `json:"bank,omitempty" yaml:"bank" example:"ABC"`
	MinSpend  float64 `json:"min_spend,omitempty" yaml:"min_spend" example:"2000"`
	Cap       float64 `json:"cap,omitempty" yaml:"cap" example:"500"`
	// Combinable defaults to true when omitted.
	Combinable *bool `json:"combinable,omitempty" yaml:"combinable"`
} // @name CouponDefinition

// IsCombinable returns the combinable flag, defaulting to true.
func (d CouponDefinition) IsCombinable() bool {
	if d.Combinable == nil {
		return true
	}
	return *d.Combinable
}

// CouponInfo describes a registered coupon.
//
// @Description Registered coupon in evaluation order
type CouponInfo struct {
	Position   int    `json:"position" example:"1"`
	Type       string `json:"type" example:"seasonal"`
	Name       string `json:"name" example:"Seasonal Offer 10% off Clothing"`
	Combinable bool   `json:"combinable" example:"true"`
} // @name CouponInfo
