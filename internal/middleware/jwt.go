package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/coupon-service/internal/i18n"
	"github.com/guttosm/coupon-service/internal/service"
)

// Context keys set by JWTAuth.
const (
	SubjectKey = "subject"
	ClaimsKey  = "token_claims"
)

// JWTAuth returns a middleware that validates bearer tokens and stores the
// token subject in the gin context under SubjectKey.
func JWTAuth(validator service.TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		abort := func(key string) { abortUnauthorized(c, key) }

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(i18n.ErrKeyTokenRequired)
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			abort(i18n.ErrKeyInvalidToken)
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if tokenString == "" {
			abort(i18n.ErrKeyTokenRequired)
			return
		}

		claims, err := validator.ValidateToken(c.Request.Context(), tokenString)
		if err != nil {
			abort(i18n.ErrKeyInvalidToken)
			return
		}

		c.Set(SubjectKey, claims.Subject)
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// GetSubject returns the authenticated subject, or empty if the request
// was not authenticated with a token.
func GetSubject(c *gin.Context) string {
	return c.GetString(SubjectKey)
}
