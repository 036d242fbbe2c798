// Package config provides configuration management for the coupon service.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Cache backends.
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// Config holds the complete application configuration.
type Config struct {
	Server         ServerConfig
	Log            LogConfig
	Cache          CacheConfig
	Redis          RedisConfig
	Auth           AuthConfig
	Database       DatabaseConfig
	Messaging      MessagingConfig
	CircuitBreaker CircuitBreakerConfig
	Coupons        CouponsConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           string
	RateLimit      int
	RateWindow     time.Duration
	RequestTimeout time.Duration
	CORSOrigins    []string
	SwaggerUser    string
	SwaggerPass    string
}

// LogConfig holds logger configuration.
type LogConfig struct {
	Level  string
	Pretty bool
}

// CacheConfig holds quote cache configuration. A zero Size disables caching.
type CacheConfig struct {
	Backend string
	Size    int
	TTL     time.Duration
	Shards  int
}

// RedisConfig holds the Redis connection used by the redis cache backend.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	Enabled      bool
	APIKeys      map[string]bool
	JWTEnabled   bool
	JWTSecretKey string
	JWTIssuer    string
}

// DatabaseConfig holds MongoDB configuration.
type DatabaseConfig struct {
	URI          string
	DatabaseName string
	LogsTTL      time.Duration
	Enabled      bool
}

// MessagingConfig holds the AMQP broker used for quote events. An empty URL
// disables publishing.
type MessagingConfig struct {
	URL            string
	Exchange       string
	RoutingKey     string
	PublishTimeout time.Duration
}

// CircuitBreakerConfig is shared by every guarded dependency.
type CircuitBreakerConfig struct {
	FailureThreshold int
	SuccessThreshold int
	Timeout          time.Duration
}

// CouponsConfig locates the coupon catalogue. An empty File loads the
// built-in catalogue.
type CouponsConfig struct {
	File string
}

// Load creates a Config from environment variables.
func Load() Config {
	return Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			RateLimit:      getEnvInt("RATE_LIMIT", 100),
			RateWindow:     getEnvDuration("RATE_WINDOW", time.Minute),
			RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 10*time.Second),
			CORSOrigins:    parseCORSOrigins(os.Getenv("CORS_ORIGINS")),
			SwaggerUser:    getEnv("SWAGGER_USER", ""),
			SwaggerPass:    getEnv("SWAGGER_PASS", ""),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getEnvBool("LOG_PRETTY", false),
		},
		Cache: CacheConfig{
			Backend: parseCacheBackend(os.Getenv("CACHE_BACKEND")),
			Size:    getEnvInt("CACHE_SIZE", 1000),
			TTL:     getEnvDuration("CACHE_TTL", 5*time.Minute),
			Shards:  getEnvInt("CACHE_SHARDS", 16),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			Prefix:   getEnv("REDIS_PREFIX", "coupon:quote:"),
		},
		Auth: AuthConfig{
			Enabled:      getEnvBool("AUTH_ENABLED", false),
			APIKeys:      parseAPIKeys(os.Getenv("API_KEYS")),
			JWTEnabled:   getEnvBool("JWT_ENABLED", false),
			JWTSecretKey: getEnv("JWT_SECRET_KEY", "your-secret-key-change-in-production"),
			JWTIssuer:    getEnv("JWT_ISSUER", "coupon-service"),
		},
		Database: DatabaseConfig{
			URI:          getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			DatabaseName: getEnv("MONGODB_DATABASE", "coupon_service"),
			LogsTTL:      getEnvDuration("MONGODB_LOGS_TTL", 30*24*time.Hour),
			Enabled:      getEnvBool("MONGODB_ENABLED", false),
		},
		Messaging: MessagingConfig{
			URL:            getEnv("AMQP_URL", ""),
			Exchange:       getEnv("AMQP_EXCHANGE", "coupon.quotes"),
			RoutingKey:     getEnv("AMQP_ROUTING_KEY", "quote.computed"),
			PublishTimeout: getEnvDuration("AMQP_PUBLISH_TIMEOUT", 5*time.Second),
		},
		CircuitBreaker: CircuitBreakerConfig{
			FailureThreshold: getEnvInt("CIRCUIT_BREAKER_FAILURE_THRESHOLD", 5),
			SuccessThreshold: getEnvInt("CIRCUIT_BREAKER_SUCCESS_THRESHOLD", 2),
			Timeout:          getEnvDuration("CIRCUIT_BREAKER_TIMEOUT", 30*time.Second),
		},
		Coupons: CouponsConfig{
			File: getEnv("COUPONS_FILE", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

func parseCacheBackend(s string) string {
	if strings.EqualFold(strings.TrimSpace(s), CacheBackendRedis) {
		return CacheBackendRedis
	}
	return CacheBackendMemory
}

func parseAPIKeys(s string) map[string]bool {
	if s == "" {
		return nil
	}
	keys := strings.Split(s, ",")
	result := make(map[string]bool, len(keys))
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			result[k] = true
		}
	}
	return result
}

func parseCORSOrigins(s string) []string {
	// Default origins for local development
	defaults := []string{
		"http://localhost:3000",
		"http://127.0.0.1:3000",
	}
	if s == "" {
		return defaults
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts)+len(defaults))
	result = append(result, defaults...)
	for _, p := range parts {
		if origin := strings.TrimSpace(p); origin != "" {
			result = append(result, origin)
		}
	}
	return result
}
