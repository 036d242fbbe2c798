package i18n

// Message keys for error envelopes.
const (
	ErrKeyInvalidRequest     = "error.invalid_request"
	ErrKeyInvalidRequestBody = "error.invalid_request_body"
	ErrKeyInternalError      = "error.internal_error"
	ErrKeyNotFound           = "error.not_found"
	ErrKeyRateLimitExceeded  = "error.rate_limit_exceeded"
	ErrKeyTimeout            = "error.timeout"

	// ErrKeyUnknownCoupon is used when a definition names no known coupon type
	// or discount strategy.
	ErrKeyUnknownCoupon = "error.unknown_coupon"
)

// Message keys for authentication and authorization failures.
const (
	ErrKeyUnauthorized   = "error.unauthorized"
	ErrKeyForbidden      = "error.forbidden"
	ErrKeyAPIKeyRequired = "error.api_key_required"
	ErrKeyInvalidAPIKey  = "error.invalid_api_key"
	ErrKeyTokenRequired  = "error.token_required"
	ErrKeyInvalidToken   = "error.invalid_token"
)
