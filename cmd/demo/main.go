// Package main prices a sample cart against the coupon catalogue and prints
// every step of the chain.
package main

import (
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/guttosm/coupon-service/config"
	"github.com/guttosm/coupon-service/internal/discount"
	"github.com/guttosm/coupon-service/internal/domain/model"
)

func main() {
	file := flag.String("coupons", "", "coupon catalogue YAML; the built-in catalogue when empty")
	loyal := flag.Bool("loyalty", true, "price the cart for a loyalty member")
	bank := flag.String("bank", "ABC", "bank used for payment")
	flag.Parse()

	out := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()

	defs, err := config.LoadCoupons(*file)
	if err != nil {
		out.Fatal().Err(err).Msg("Failed to load coupons")
	}

	factory := discount.NewStrategyFactory()
	engine := discount.NewEngine()
	for _, def := range defs {
		c, err := discount.FromDefinition(factory, def)
		if err != nil {
			out.Fatal().Err(err).Str("type", def.Type).Msg("Invalid coupon")
		}
		engine.Register(c)
	}

	cart := model.NewCart()
	for _, line := range []struct {
		product  model.Product
		quantity int
	}{
		{model.NewProduct("Winter Jacket", "Clothing", 1000), 1},
		{model.NewProduct("Smartphone", "Electronics", 20000), 1},
		{model.NewProduct("Jeans", "Clothing", 1000), 2},
		{model.NewProduct("Headphones", "Electronics", 2000), 1},
	} {
		if err := cart.AddProduct(line.product, line.quantity); err != nil {
			out.Fatal().Err(err).Str("product", line.product.Name).Msg("Failed to add product")
		}
	}
	cart.SetLoyaltyMember(*loyal)
	cart.SetPaymentBank(*bank)

	out.Info().Float64("total", cart.OriginalCost()).Int("items", len(cart.Items())).Msg("Original cart")

	for _, name := range engine.ApplicableNames(cart) {
		out.Info().Str("coupon", name).Msg("Applicable")
	}

	result := engine.Apply(cart)
	for _, a := range result.Applied {
		out.Info().
			Str("coupon", a.Coupon).
			Float64("discount", a.Amount).
			Float64("cost_after", a.CostAfter).
			Msg("Applied")
	}
	if result.StoppedBy != "" {
		out.Warn().Str("coupon", result.StoppedBy).Msg("Chain stopped by non-combinable coupon")
	}

	out.Info().
		Float64("final", result.FinalCost).
		Float64("saved", cart.OriginalCost()-result.FinalCost).
		Msg("Final cart")
}
