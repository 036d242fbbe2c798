package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/guttosm/coupon-service/internal/domain/model"
)

// CouponCatalogue is the YAML document listing coupons in evaluation order.
//
//	coupons:
//	  - type: seasonal
//	    percent: 10
//	    category: Clothing
type CouponCatalogue struct {
	Coupons []model.CouponDefinition `yaml:"coupons"`
}

// DefaultCoupons returns the built-in catalogue used when no file is configured.
func DefaultCoupons() []model.CouponDefinition {
	return []model.CouponDefinition{
		{Type: model.CouponTypeSeasonal, Percent: 10, Category: "Clothing"},
		{Type: model.CouponTypeLoyalty, Percent: 5},
		{Type: model.CouponTypeBulk, Threshold: 1000, Amount: 100},
		{Type: model.CouponTypeBank, Bank: "ABC", MinSpend: 2000, Percent: 15, Cap: 500},
	}
}

// LoadCoupons reads the catalogue at path. An empty path returns DefaultCoupons.
func LoadCoupons(path string) ([]model.CouponDefinition, error) {
	if path == "" {
		return DefaultCoupons(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read coupon catalogue: %w", err)
	}
	return ParseCoupons(data)
}

// ParseCoupons decodes a YAML catalogue. Unknown fields are rejected.
func ParseCoupons(data []byte) ([]model.CouponDefinition, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var catalogue CouponCatalogue
	if err := dec.Decode(&catalogue); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse coupon catalogue: %w", err)
	}

	for i, def := range catalogue.Coupons {
		if def.Type == "" {
			return nil, fmt.Errorf("coupon %d: type is required", i+1)
		}
	}
	return catalogue.Coupons, nil
}
