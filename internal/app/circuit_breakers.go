package app

import (
	"github.com/rs/zerolog/log"

	"github.com/guttosm/coupon-service/config"
	"github.com/guttosm/coupon-service/internal/circuitbreaker"
	"github.com/guttosm/coupon-service/internal/metrics"
)

// Circuit breaker names, also used as metric labels and readiness keys.
const (
	BreakerRedis   = "redis"
	BreakerAMQP    = "amqp"
	BreakerMongoDB = "mongodb_logs"
)

// newCircuitBreaker builds a breaker that reports its state to Prometheus
// and logs every transition.
func newCircuitBreaker(name string, cfg config.CircuitBreakerConfig) *circuitbreaker.CircuitBreaker {
	cbConfig := circuitbreaker.DefaultConfig()
	cbConfig.Name = name
	if cfg.FailureThreshold > 0 {
		cbConfig.FailureThreshold = cfg.FailureThreshold
	}
	if cfg.SuccessThreshold > 0 {
		cbConfig.SuccessThreshold = cfg.SuccessThreshold
	}
	if cfg.Timeout > 0 {
		cbConfig.Timeout = cfg.Timeout
	}
	cbConfig.OnStateChange = func(name string, from, to circuitbreaker.State) {
		metrics.SetCircuitBreakerState(name, int(to))
		log.Warn().
			Str("breaker", name).
			Str("from", from.String()).
			Str("to", to.String()).
			Msg("Circuit breaker state changed")
	}

	metrics.SetCircuitBreakerState(name, int(circuitbreaker.StateClosed))
	return circuitbreaker.New(cbConfig)
}
