// Package model defines the core domain entities for the coupon service.
package model

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
)

var (
	// ErrInvalidQuantity is returned when a product is added with a quantity below one.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	// ErrCartDiscounted is returned when a product is added after a discount was applied.
	ErrCartDiscounted = errors.New("cart already has discounts applied")
)

// Product is an immutable catalogue entry supplied by the caller.
type Product struct {
	Name     string  `json:"name" example:"Winter Jacket"`
	Category string  `json:"category" example:"Clothing"`
	Price    float64 `json:"price" example:"1000"`
}

// NewProduct creates a Product value.
func NewProduct(name, category string, price float64) Product {
	return Product{Name: name, Category: category, Price: price}
}

// CartItem is a product line with a quantity.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Cost returns the full-price cost of the line (price * quantity).
func (i CartItem) Cost() float64 {
	return i.Product.Price * float64(i.Quantity)
}

// Cart holds line items, the original and running totals, and the
// checkout context used by coupon predicates.
//
// A Cart is not safe for concurrent use. Build one per checkout.
type Cart struct {
	items         []CartItem
	originalCost  float64
	currentCost   float64
	loyaltyMember bool
	paymentBank   string
	discounted    bool
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{}
}

// AddProduct appends a line item and adds its cost to both totals.
// Products can only be added before any discount is applied.
func (c *Cart) AddProduct(product Product, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	if c.discounted {
		return ErrCartDiscounted
	}

	item := CartItem{Product: product, Quantity: quantity}
	c.items = append(c.items, item)
	c.originalCost += item.Cost()
	c.currentCost += item.Cost()
	return nil
}

// ApplyDiscount subtracts amount from the current cost and returns the new
// current cost. The result is floored at zero. Amounts are not validated:
// a negative amount raises the current cost.
func (c *Cart) ApplyDiscount(amount float64) float64 {
	c.discounted = true
	c.currentCost -= amount
	if c.currentCost < 0 {
		c.currentCost = 0
	}
	return c.currentCost
}

// Items returns a copy of the line items in insertion order.
func (c *Cart) Items() []CartItem {
	items := make([]CartItem, len(c.items))
	copy(items, c.items)
	return items
}

// CategoryCost returns the full-price cost of all items in the given category.
func (c *Cart) CategoryCost(category string) float64 {
	var total float64
	for _, item := range c.items {
		if item.Product.Category == category {
			total += item.Cost()
		}
	}
	return total
}

// HasCategory reports whether any item belongs to the given category.
func (c *Cart) HasCategory(category string) bool {
	for _, item := range c.items {
		if item.Product.Category == category {
			return true
		}
	}
	return false
}

// OriginalCost returns the sum of item costs at full price.
func (c *Cart) OriginalCost() float64 {
	return c.originalCost
}

// CurrentCost returns the running total after discounts.
func (c *Cart) CurrentCost() float64 {
	return c.currentCost
}

// SetLoyaltyMember marks the cart owner as a loyalty member.
func (c *Cart) SetLoyaltyMember(member bool) {
	c.loyaltyMember = member
}

// IsLoyaltyMember reports the loyalty flag.
func (c *Cart) IsLoyaltyMember() bool {
	return c.loyaltyMember
}

// SetPaymentBank sets the bank code of the payment method. Empty means none.
func (c *Cart) SetPaymentBank(bank string) {
	c.paymentBank = bank
}

// PaymentBank returns the bank code of the payment method.
func (c *Cart) PaymentBank() string {
	return c.paymentBank
}

// Fingerprint returns a stable hash of the cart contents and context.
// Two carts with the same items (in the same order), flags and current cost
// produce the same fingerprint. Every field is length-prefixed, so names and
// categories may contain any byte.
func (c *Cart) Fingerprint() string {
	h := sha256.New()
	field := func(s string) {
		h.Write([]byte(strconv.Itoa(len(s))))
		h.Write([]byte{':'})
		h.Write([]byte(s))
	}

	field(strconv.Itoa(len(c.items)))
	for _, item := range c.items {
		field(item.Product.Name)
		field(item.Product.Category)
		field(strconv.FormatFloat(item.Product.Price, 'g', -1, 64))
		field(strconv.Itoa(item.Quantity))
	}
	field(strconv.FormatBool(c.loyaltyMember))
	field(c.paymentBank)
	field(strconv.FormatFloat(c.currentCost, 'g', -1, 64))
	return hex.EncodeToString(h.Sum(nil))
}
