// Package dto defines Data Transfer Objects for HTTP request and response handling.
//
// DTOs are used to decouple the HTTP layer from the domain model,
// providing validation and serialization for API communication.
package dto

import (
	"fmt"
	"strings"

	"github.com/guttosm/coupon-service/internal/domain/model"
)

// MaxCartItems bounds the number of lines in a quote request.
const MaxCartItems = 500

// CartItemRequest is one cart line.
//
// @Description Cart line: product and quantity
type CartItemRequest struct {
	Name     string  `json:"name" binding:"required" example:"Winter Jacket"`
	Category string  `json:"category" example:"Clothing"`
	Price    float64 `json:"price" example:"1000" minimum:"0"`
	Quantity int     `json:"quantity" example:"1" minimum:"1"`
} // @name CartItemRequest

// QuoteRequest represents the JSON request body for the checkout endpoints.
//
// @Description Cart to price: line items plus checkout context
// @Example {"items": [{"name": "Winter Jacket", "category": "Clothing", "price": 1000, "quantity": 1}], "loyalty_member": true, "payment_bank": "ABC"}
type QuoteRequest struct {
	Items         []CartItemRequest `json:"items" binding:"required"`
	LoyaltyMember bool              `json:"loyalty_member" example:"true"`
	PaymentBank   string            `json:"payment_bank,omitempty" example:"ABC"`
} // @name QuoteRequest

// ValidationError represents a field validation error.
type ValidationError struct {
	Field   string
	Message string
}

var (
	// ErrNoItems is returned when a quote request has no items.
	ErrNoItems = &ValidationError{Field: "items", Message: "must contain at least one item"}
	// ErrTooManyItems is returned when a quote request exceeds MaxCartItems.
	ErrTooManyItems = &ValidationError{Field: "items", Message: fmt.Sprintf("must contain at most %d items", MaxCartItems)}
)

// Error returns the error message for ValidationError.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Validate checks the request. It returns the first *ValidationError found.
func (r *QuoteRequest) Validate() error {
	if len(r.Items) == 0 {
		return ErrNoItems
	}
	if len(r.Items) > MaxCartItems {
		return ErrTooManyItems
	}
	for i, item := range r.Items {
		field := fmt.Sprintf("items[%d]", i)
		switch {
		case strings.TrimSpace(item.Name) == "":
			return &ValidationError{Field: field + ".name", Message: "is required"}
		case item.Price < 0:
			return &ValidationError{Field: field + ".price", Message: "must not be negative"}
		case item.Quantity < 1:
			return &ValidationError{Field: field + ".quantity", Message: "must be at least 1"}
		}
	}
	return nil
}

// ToCart builds a fresh cart from a validated request.
func (r *QuoteRequest) ToCart() (*model.Cart, error) {
	cart := model.NewCart()
	for _, item := range r.Items {
		product := model.NewProduct(item.Name, item.Category, item.Price)
		if err := cart.AddProduct(product, item.Quantity); err != nil {
			return nil, err
		}
	}
	cart.SetLoyaltyMember(r.LoyaltyMember)
	cart.SetPaymentBank(strings.TrimSpace(r.PaymentBank))
	return cart, nil
}

// RegisterCouponRequest is the JSON body for registering a coupon.
//
// @Description Coupon to append to the evaluation chain
// @Example {"type": "loyalty", "percent": 5}
type RegisterCouponRequest struct {
	model.CouponDefinition
} // @name RegisterCouponRequest

// Validate checks the parameters the coupon type reads.
func (r *RegisterCouponRequest) Validate() error {
	d := r.CouponDefinition
	switch d.Type {
	case model.CouponTypeSeasonal:
		if strings.TrimSpace(d.Category) == "" {
			return &ValidationError{Field: "category", Message: "is required"}
		}
		return validatePercent(d.Percent)
	case model.CouponTypeLoyalty:
		return validatePercent(d.Percent)
	case model.CouponTypeBulk:
		if d.Threshold < 0 {
			return &ValidationError{Field: "threshold", Message: "must not be negative"}
		}
		if d.Amount < 0 {
			return &ValidationError{Field: "amount", Message: "must not be negative"}
		}
		return nil
	case model.CouponTypeBank:
		if strings.TrimSpace(d.Bank) == "" {
			return &ValidationError{Field: "bank", Message: "is required"}
		}
		if d.MinSpend < 0 {
			return &ValidationError{Field: "min_spend", Message: "must not be negative"}
		}
		if d.Cap < 0 {
			return &ValidationError{Field: "cap", Message: "must not be negative"}
		}
		return validatePercent(d.Percent)
	default:
		return &ValidationError{Field: "type", Message: "must be one of seasonal, loyalty, bulk_purchase, bank"}
	}
}

func validatePercent(p float64) error {
	if p < 0 || p > 100 {
		return &ValidationError{Field: "percent", Message: "must be between 0 and 100"}
	}
	return nil
}
