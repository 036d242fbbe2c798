package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/coupon-service/internal/discount"
	"github.com/guttosm/coupon-service/internal/domain/dto"
	"github.com/guttosm/coupon-service/internal/domain/model"
	"github.com/guttosm/coupon-service/internal/i18n"
	"github.com/guttosm/coupon-service/internal/logger"
)

// ErrorHandler returns a middleware that turns errors attached with c.Error
// into a JSON error response, unless the handler already wrote one.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		requestID := GetRequestID(c)
		status, code, key := classifyError(err)

		log := logger.Logger()
		event := log.Warn()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		}
		event.
			Str("request_id", requestID).
			Err(err).
			Int("status_code", status).
			Str("path", c.Request.URL.Path).
			Str("method", c.Request.Method).
			Msg("Request error")

		if c.Writer.Written() {
			return
		}

		resp := dto.NewError(code, i18n.GetTranslator().Translate(key, i18n.GetLocale(c))).
			WithRequestID(requestID)
		var verr *dto.ValidationError
		if errors.As(err, &verr) {
			resp.Message = verr.Error()
			resp = resp.WithDetails(verr.Field, verr.Message)
		}
		c.JSON(status, resp)
	}
}

// classifyError maps domain errors to an HTTP status, error code and
// message key.
func classifyError(err error) (int, string, string) {
	var verr *dto.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, dto.ErrCodeInvalidRequest, i18n.ErrKeyInvalidRequest
	case errors.Is(err, discount.ErrUnknownCoupon), errors.Is(err, discount.ErrUnknownStrategy):
		return http.StatusBadRequest, dto.ErrCodeInvalidRequest, i18n.ErrKeyUnknownCoupon
	case errors.Is(err, model.ErrInvalidQuantity):
		return http.StatusBadRequest, dto.ErrCodeInvalidRequest, i18n.ErrKeyInvalidRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, dto.ErrCodeTimeout, i18n.ErrKeyTimeout
	case errors.Is(err, context.Canceled):
		// Client went away; the status is only for logs.
		return 499, dto.ErrCodeTimeout, i18n.ErrKeyTimeout
	default:
		return http.StatusInternalServerError, dto.ErrCodeInternal, i18n.ErrKeyInternalError
	}
}
