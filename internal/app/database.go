// Package app provides database initialization and setup.
package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/guttosm/coupon-service/config"
	"github.com/guttosm/coupon-service/internal/circuitbreaker"
	"github.com/guttosm/coupon-service/internal/repository"
	"github.com/guttosm/coupon-service/internal/service"
)

// DatabaseComponents holds database-related components.
type DatabaseComponents struct {
	DB                 *repository.MongoDB
	LoggingService     service.LoggingService
	LogsCircuitBreaker *circuitbreaker.CircuitBreaker
}

// InitializeDatabase connects to MongoDB and builds the request and audit log
// store. Returns nil if the database is disabled or the connection fails.
func InitializeDatabase(cfg config.DatabaseConfig, cbCfg config.CircuitBreakerConfig) *DatabaseComponents {
	if !cfg.Enabled {
		return nil
	}

	db, err := repository.NewMongoDB(cfg.URI, cfg.DatabaseName)
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to MongoDB - continuing without persisted logs")
		return nil
	}

	log.Info().Str("database", cfg.DatabaseName).Msg("Connected to MongoDB")

	if ttlDays := int(cfg.LogsTTL.Hours() / 24); ttlDays > 0 {
		if err := db.SetLogsTTL(context.Background(), ttlDays); err != nil {
			log.Warn().Err(err).Msg("Failed to set logs TTL index (may already exist)")
		}
	}

	logsCB := newCircuitBreaker(BreakerMongoDB, cbCfg)
	logsRepo := repository.NewLogsRepositoryWithCircuitBreaker(repository.NewLogsRepository(db), logsCB)

	return &DatabaseComponents{
		DB:                 db,
		LoggingService:     service.NewLoggingService(logsRepo),
		LogsCircuitBreaker: logsCB,
	}
}

// Close disconnects from MongoDB. Safe on a nil receiver.
func (d *DatabaseComponents) Close(ctx context.Context) {
	if d == nil || d.DB == nil {
		return
	}
	if err := d.DB.Close(ctx); err != nil {
		log.Warn().Err(err).Msg("Error closing MongoDB connection")
	}
}
