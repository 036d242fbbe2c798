package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/coupon-service/internal/domain/dto"
	"github.com/guttosm/coupon-service/internal/i18n"
	"github.com/guttosm/coupon-service/internal/service"
)

// Roles carried in token claims.
const (
	RoleAdmin        = "admin"
	RoleCouponWriter = "coupons:write"
)

// RequireRoles returns a middleware that lets the request through when the
// token claims carry at least one of roles. It must run after JWTAuth;
// requests without claims are rejected as unauthorized.
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		claims, ok := GetClaims(c)
		if !ok {
			abortUnauthorized(c, i18n.ErrKeyUnauthorized)
			return
		}

		for _, r := range claims.Roles {
			if _, ok := allowed[r]; ok {
				c.Next()
				return
			}
		}

		message := i18n.GetTranslator().Translate(i18n.ErrKeyForbidden, i18n.GetLocale(c))
		c.AbortWithStatusJSON(http.StatusForbidden,
			dto.NewError(dto.ErrCodeForbidden, message).WithRequestID(GetRequestID(c)))
	}
}

// GetClaims returns the token claims stored by JWTAuth.
func GetClaims(c *gin.Context) (*service.TokenClaims, bool) {
	v, exists := c.Get(ClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*service.TokenClaims)
	return claims, ok && claims != nil
}
