// Package discount implements the coupon rule chain: calculation strategies,
// coupon variants, and the engine that applies them to a cart in
// registration order.
package discount

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnknownStrategy is returned when a strategy kind is not recognised.
var ErrUnknownStrategy = errors.New("unknown discount strategy")

// StrategyKind tags a Strategy variant.
type StrategyKind int

const (
	// StrategyFlat discounts a fixed amount, capped at the base amount.
	StrategyFlat StrategyKind = iota
	// StrategyPercent discounts a percentage of the base amount.
	StrategyPercent
	// StrategyPercentCap discounts a percentage of the base amount, capped at a fixed amount.
	StrategyPercentCap
)

// String returns the string representation of the kind.
func (k StrategyKind) String() string {
	switch k {
	case StrategyFlat:
		return "flat"
	case StrategyPercent:
		return "percent"
	case StrategyPercentCap:
		return "percent_cap"
	default:
		return "unknown"
	}
}

// Strategy maps a base amount to a discount amount under fixed parameters.
// The zero value is a flat strategy of amount 0 and always returns 0.
type Strategy struct {
	kind    StrategyKind
	amount  float64
	percent float64
	cap     float64
}

// Kind returns the strategy variant.
func (s Strategy) Kind() StrategyKind {
	return s.kind
}

// Calculate returns the discount for base. Parameters are used as given;
// out-of-range percentages or caps are not corrected.
func (s Strategy) Calculate(base float64) float64 {
	switch s.kind {
	case StrategyFlat:
		return math.Min(s.amount, base)
	case StrategyPercent:
		return s.percent / 100 * base
	case StrategyPercentCap:
		return math.Min(s.percent/100*base, s.cap)
	default:
		return 0
	}
}

// StrategyFactory builds strategies from a kind and its parameters.
type StrategyFactory struct{}

// NewStrategyFactory returns a StrategyFactory.
func NewStrategyFactory() *StrategyFactory {
	return &StrategyFactory{}
}

// Create builds a strategy. param1 is the amount for StrategyFlat and the
// percent for the percentage kinds; param2 is the cap for StrategyPercentCap
// and ignored otherwise.
func (f *StrategyFactory) Create(kind StrategyKind, param1, param2 float64) (Strategy, error) {
	switch kind {
	case StrategyFlat:
		return Strategy{kind: kind, amount: param1}, nil
	case StrategyPercent:
		return Strategy{kind: kind, percent: param1}, nil
	case StrategyPercentCap:
		return Strategy{kind: kind, percent: param1, cap: param2}, nil
	default:
		return Strategy{}, fmt.Errorf("%w: %d", ErrUnknownStrategy, int(kind))
	}
}

// MustCreate is like Create but panics if the kind is unknown.
func (f *StrategyFactory) MustCreate(kind StrategyKind, param1, param2 float64) Strategy {
	s, err := f.Create(kind, param1, param2)
	if err != nil {
		panic(err)
	}
	return s
}
