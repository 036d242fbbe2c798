package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/coupon-service/internal/circuitbreaker"
)

const defaultCheckTimeout = 2 * time.Second

// HealthChecker reports whether a dependency is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthCheckerFunc adapts a function to HealthChecker.
type HealthCheckerFunc func(ctx context.Context) error

// HealthCheck calls f.
func (f HealthCheckerFunc) HealthCheck(ctx context.Context) error {
	return f(ctx)
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	mu              sync.RWMutex
	checkers        map[string]HealthChecker
	circuitBreakers map[string]*circuitbreaker.CircuitBreaker
	checkTimeout    time.Duration
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{
		checkers:        make(map[string]HealthChecker),
		circuitBreakers: make(map[string]*circuitbreaker.CircuitBreaker),
		checkTimeout:    defaultCheckTimeout,
	}
}

// RegisterChecker adds a dependency probe to the readiness check.
func (h *HealthHandler) RegisterChecker(name string, checker HealthChecker) {
	if checker == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checkers[name] = checker
}

// RegisterCircuitBreaker registers a circuit breaker for health monitoring.
func (h *HealthHandler) RegisterCircuitBreaker(name string, cb *circuitbreaker.CircuitBreaker) {
	if cb == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.circuitBreakers[name] = cb
}

// Register registers health endpoints on the router.
func (h *HealthHandler) Register(router *gin.Engine) {
	router.GET("/healthz", h.Liveness)
	router.GET("/readyz", h.Readiness)
}

// Liveness handles the liveness probe endpoint.
// @Summary     Liveness probe
// @Description Returns OK if the service is running.
// @Tags        Health
// @Produce     json
// @Success     200 {object} map[string]string "Service is alive"
// @Router      /healthz [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles the readiness probe endpoint.
// @Summary     Readiness probe
// @Description Probes registered dependencies and reports circuit breaker states. Any failing probe or circuit that is not closed yields 503.
// @Tags        Health
// @Produce     json
// @Success     200 {object} map[string]interface{} "Service is ready"
// @Failure     503 {object} map[string]interface{} "Service is degraded"
// @Router      /readyz [get]
func (h *HealthHandler) Readiness(c *gin.Context) {
	h.mu.RLock()
	probes := h.probe(c.Request.Context())
	checks := make(map[string]interface{}, len(probes)+len(h.circuitBreakers))
	ready := true
	for name, p := range probes {
		checks[name] = p
		ready = ready && p.Status == probeUp
	}
	for name, cb := range h.circuitBreakers {
		stats := cb.GetStats()
		checks[name+"_circuit"] = stats
		ready = ready && stats.IsHealthy
	}
	h.mu.RUnlock()

	if len(checks) == 0 {
		checks["service"] = probeResult{Status: probeUp}
	}

	status, text := http.StatusOK, "ok"
	if !ready {
		status, text = http.StatusServiceUnavailable, "degraded"
	}
	c.JSON(status, gin.H{
		"status": text,
		"checks": checks,
	})
}

const (
	probeUp   = "up"
	probeDown = "down"
)

// probeResult is one dependency's readiness entry.
type probeResult struct {
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	LatencyMS int64  `json:"latency_ms"`
}

// probe runs every checker concurrently, each under its own timeout.
// Callers hold h.mu.
func (h *HealthHandler) probe(ctx context.Context) map[string]probeResult {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results = make(map[string]probeResult, len(h.checkers))
	)
	for name, checker := range h.checkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cctx, cancel := context.WithTimeout(ctx, h.checkTimeout)
			defer cancel()

			start := time.Now()
			res := probeResult{Status: probeUp}
			if err := checker.HealthCheck(cctx); err != nil {
				res = probeResult{Status: probeDown, Error: err.Error()}
			}
			res.LatencyMS = time.Since(start).Milliseconds()

			mu.Lock()
			results[name] = res
			mu.Unlock()
		}()
	}
	wg.Wait()
	return results
}
