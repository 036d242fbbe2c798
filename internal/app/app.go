// Package app provides application initialization and dependency injection.
package app

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/coupon-service/config"
	"github.com/guttosm/coupon-service/internal/http"
)

// App holds the wired application and everything that must be released on
// shutdown.
type App struct {
	Router *gin.Engine

	services *ServiceComponents
	database *DatabaseComponents
	routing  *RouterComponents
}

// InitializeApp creates and wires all application dependencies.
func InitializeApp(cfg config.Config) (*App, error) {
	InitializeLogger(cfg.Log)

	services, err := InitializeServices(cfg)
	if err != nil {
		return nil, err
	}

	database := InitializeDatabase(cfg.Database, cfg.CircuitBreaker)
	routing := InitializeRouter(services, database, cfg)

	return &App{
		Router:   http.NewRouter(routing.Handler, routing.HealthHandler, routing.Config),
		services: services,
		database: database,
		routing:  routing,
	}, nil
}

// Close releases resources in dependency order: pending publishes and log
// batches first, then the backends they write to.
func (a *App) Close(ctx context.Context) {
	a.services.Close()
	a.routing.Close()
	a.database.Close(ctx)
}
