// Package main is the entry point for the coupon-service application.
//
// @title           Coupon Service API
// @version         1.0.0
// @description     Checkout pricing through an ordered chain of discount coupons.
//
//	Coupons are evaluated in registration order against the running cart cost. A non-combinable coupon that fires ends the chain.
//
// @termsOfService  http://swagger.io/terms/
//
// @contact.name   API Support
// @contact.email  support@example.com
// @contact.url    https://github.com/guttosm/coupon-service
//
// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT
//
// @host      localhost:8080
// @BasePath  /
//
// @securityDefinitions.apikey  ApiKeyAuth
// @in                          header
// @name                        X-API-Key
// @description                 API key for authentication. Required if authentication is enabled.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Bearer token carrying the admin or coupons:write role. Required for coupon registration when JWT is enabled.
//
// @tag.name        Checkout
// @tag.description Cart pricing operations
//
// @tag.name        Coupons
// @tag.description Coupon chain management
//
// @tag.name        Health
// @tag.description Health check endpoints
package main

import (
	"context"

	"github.com/rs/zerolog/log"

	_ "github.com/guttosm/coupon-service/docs" // swagger docs

	"github.com/guttosm/coupon-service/config"
	"github.com/guttosm/coupon-service/internal/app"
)

func main() {
	cfg := config.Load()

	application, err := app.InitializeApp(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}

	server := app.NewServer(application.Router, cfg.Server.Port)
	server.OnShutdown(application.Close)

	if err := server.Run(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Server error")
	}
}
