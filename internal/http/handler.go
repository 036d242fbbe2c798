package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/coupon-service/internal/discount"
	"github.com/guttosm/coupon-service/internal/domain/dto"
	"github.com/guttosm/coupon-service/internal/domain/model"
	"github.com/guttosm/coupon-service/internal/i18n"
	"github.com/guttosm/coupon-service/internal/middleware"
	"github.com/guttosm/coupon-service/internal/service"
)

// Handler provides HTTP handlers for checkout and coupon routes.
type Handler struct {
	pricing  service.PricingService
	coupons  service.CouponService
	auditLog *middleware.AsyncLogger
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithAuditLogger records quote and registration audit entries.
func WithAuditLogger(al *middleware.AsyncLogger) HandlerOption {
	return func(h *Handler) {
		h.auditLog = al
	}
}

// NewHandler creates a new Handler instance.
func NewHandler(pricing service.PricingService, coupons service.CouponService, opts ...HandlerOption) *Handler {
	h := &Handler{
		pricing: pricing,
		coupons: coupons,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Quote handles POST /api/checkout/quote requests.
//
// @Summary      Price a cart
// @Description  Builds a fresh cart from the request and runs it through the registered coupon chain. Coupons fire in registration order, each discounting the running cost; a non-combinable coupon that fires ends the chain. Supports idempotency via Idempotency-Key header.
// @Tags         Checkout
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Idempotency key for request deduplication"
// @Param        request body dto.QuoteRequest true "Cart to price"
// @Success      200 {object} dto.SuccessResponse{data=model.Quote} "Priced cart"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid input"
// @Failure      429 {object} dto.ErrorResponse "Too many requests - rate limit exceeded"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Failure      504 {object} dto.ErrorResponse "Request timed out"
// @Router       /api/checkout/quote [post]
func (h *Handler) Quote(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := BindAndValidate[dto.QuoteRequest](c)
	if err != nil {
		builder.BadRequest(err)
		return
	}

	cart, err := req.ToCart()
	if err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequest, err)
		return
	}

	quote, err := h.pricing.Quote(c.Request.Context(), cart)
	if err != nil {
		h.serviceError(c, builder, model.ActionTypeQuote, err)
		return
	}

	middleware.AuditLog(h.auditLog, c, model.ActionTypeQuote, "Quote computed", map[string]interface{}{
		"quote_id":       quote.QuoteID,
		"items":          len(req.Items),
		"original_cost":  quote.OriginalCost,
		"final_cost":     quote.FinalCost,
		"applied":        len(quote.AppliedDiscounts),
		"stopped_by":     quote.StoppedBy,
		"loyalty_member": req.LoyaltyMember,
	})

	builder.SuccessOK(quote)
}

// Applicable handles POST /api/checkout/applicable requests.
//
// @Summary      List applicable coupons
// @Description  Returns the names of the coupons whose condition holds for the cart, in chain order, without applying any discount.
// @Tags         Checkout
// @Accept       json
// @Produce      json
// @Param        request body dto.QuoteRequest true "Cart to inspect"
// @Success      200 {object} dto.SuccessResponse{data=dto.ApplicableResponse} "Applicable coupons"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid input"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Router       /api/checkout/applicable [post]
func (h *Handler) Applicable(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := BindAndValidate[dto.QuoteRequest](c)
	if err != nil {
		builder.BadRequest(err)
		return
	}

	cart, err := req.ToCart()
	if err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequest, err)
		return
	}

	names, err := h.pricing.Applicable(c.Request.Context(), cart)
	if err != nil {
		h.serviceError(c, builder, model.ActionTypeApplicable, err)
		return
	}
	if names == nil {
		names = []string{}
	}

	builder.SuccessOK(dto.ApplicableResponse{Coupons: names, Count: len(names)})
}

// ListCoupons handles GET /api/coupons requests.
//
// @Summary      List registered coupons
// @Description  Returns the coupon chain in evaluation order.
// @Tags         Coupons
// @Produce      json
// @Success      200 {object} dto.SuccessResponse{data=dto.CouponListResponse} "Registered coupons"
// @Router       /api/coupons [get]
func (h *Handler) ListCoupons(c *gin.Context) {
	coupons := h.coupons.List()
	if coupons == nil {
		coupons = []model.CouponInfo{}
	}
	NewResponseBuilder(c).SuccessOK(dto.CouponListResponse{Coupons: coupons, Count: len(coupons)})
}

// RegisterCoupon handles POST /api/coupons requests.
//
// @Summary      Register a coupon
// @Description  Appends a coupon to the tail of the evaluation chain. Cached quotes are invalidated. Requires a bearer token with the admin or coupons:write role when JWT auth is enabled.
// @Tags         Coupons
// @Accept       json
// @Produce      json
// @Param        Authorization header string false "Bearer token (required if JWT auth enabled)"
// @Param        Idempotency-Key header string false "Idempotency key for request deduplication"
// @Param        request body dto.RegisterCouponRequest true "Coupon definition"
// @Success      201 {object} dto.SuccessResponse{data=model.CouponInfo} "Registered coupon"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid or unknown coupon"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Failure      403 {object} dto.ErrorResponse "Forbidden - insufficient role"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /api/coupons [post]
func (h *Handler) RegisterCoupon(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := BindAndValidate[dto.RegisterCouponRequest](c)
	if err != nil {
		middleware.AuditLogError(h.auditLog, c, model.ActionTypeRegisterCoupon, "Coupon registration rejected", err, nil)
		builder.BadRequest(err)
		return
	}

	info, err := h.coupons.Register(c.Request.Context(), req.CouponDefinition)
	if err != nil {
		h.serviceError(c, builder, model.ActionTypeRegisterCoupon, err)
		return
	}

	middleware.AuditLog(h.auditLog, c, model.ActionTypeRegisterCoupon, "Coupon registered", map[string]interface{}{
		"coupon":     info.Name,
		"type":       info.Type,
		"position":   info.Position,
		"combinable": info.Combinable,
	})

	builder.SuccessCreated(info)
}

// serviceError maps a service failure to a response and audits it.
func (h *Handler) serviceError(c *gin.Context, builder *ResponseBuilder, action string, err error) {
	middleware.AuditLogError(h.auditLog, c, action, "Request failed", err, nil)

	switch {
	case errors.Is(err, discount.ErrUnknownCoupon), errors.Is(err, discount.ErrUnknownStrategy):
		builder.Error(http.StatusBadRequest, i18n.ErrKeyUnknownCoupon, err)
	case errors.Is(err, context.DeadlineExceeded):
		builder.Error(http.StatusGatewayTimeout, i18n.ErrKeyTimeout, err)
	case errors.Is(err, context.Canceled):
		// The client is gone; record the error and skip the body.
		_ = c.Error(err)
		c.Abort()
	default:
		builder.Error(http.StatusInternalServerError, i18n.ErrKeyInternalError, err)
	}
}
