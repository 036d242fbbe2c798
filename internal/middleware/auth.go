package middleware

import (
	"crypto/sha256"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/coupon-service/internal/domain/dto"
	"github.com/guttosm/coupon-service/internal/i18n"
)

const (
	// APIKeyHeader is the HTTP header name for API key authentication.
	APIKeyHeader = "X-API-Key"
	// APIKeyQuery is the query parameter name for API key authentication.
	APIKeyQuery = "api_key"
)

// APIKeyAuth returns a middleware that validates API keys from the
// X-API-Key header or, failing that, the api_key query parameter. Keys are
// compared by SHA-256 digest so lookup time does not depend on how much of a
// key matched. Authentication is disabled when validKeys is empty.
func APIKeyAuth(validKeys map[string]bool) gin.HandlerFunc {
	digests := make(map[[sha256.Size]byte]struct{}, len(validKeys))
	for k, enabled := range validKeys {
		if enabled && k != "" {
			digests[sha256.Sum256([]byte(k))] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		if len(digests) == 0 {
			c.Next()
			return
		}

		key := c.GetHeader(APIKeyHeader)
		if key == "" {
			key = c.Query(APIKeyQuery)
		}
		if key == "" {
			abortUnauthorized(c, i18n.ErrKeyAPIKeyRequired)
			return
		}
		if _, ok := digests[sha256.Sum256([]byte(key))]; !ok {
			abortUnauthorized(c, i18n.ErrKeyInvalidAPIKey)
			return
		}

		c.Next()
	}
}

// abortUnauthorized writes a translated 401 error envelope.
func abortUnauthorized(c *gin.Context, messageKey string) {
	message := i18n.GetTranslator().Translate(messageKey, i18n.GetLocale(c))
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewError(dto.ErrCodeUnauthorized, message).WithRequestID(GetRequestID(c)))
}
