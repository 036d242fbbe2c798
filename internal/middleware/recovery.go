package middleware

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/coupon-service/internal/domain/dto"
	"github.com/guttosm/coupon-service/internal/i18n"
	"github.com/guttosm/coupon-service/internal/logger"
)

// Recovery turns a handler panic into a 500 error envelope. A panic with
// http.ErrAbortHandler is re-raised so that net/http drops the connection.
// When the handler already wrote a response only the log entry is emitted.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}

			l := logger.FromContext(c.Request.Context())
			l.Error().
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Msg("Recovered from handler panic")

			if c.Writer.Written() {
				c.Abort()
				return
			}
			msg := i18n.GetTranslator().Translate(i18n.ErrKeyInternalError, i18n.GetLocale(c))
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				dto.NewError(dto.ErrCodeInternal, msg).WithRequestID(GetRequestID(c)))
		}()
		c.Next()
	}
}
