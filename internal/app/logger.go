// Package app provides logger initialization.
package app

import (
	"github.com/guttosm/coupon-service/config"
	"github.com/guttosm/coupon-service/internal/logger"
)

// InitializeLogger configures the global logger from cfg.
func InitializeLogger(cfg config.LogConfig) {
	level := cfg.Level
	if level == "" {
		level = "info"
	}
	logger.Init(level, cfg.Pretty)
}
