package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/coupon-service/config"
	"github.com/guttosm/coupon-service/internal/discount"
	"github.com/guttosm/coupon-service/internal/domain/dto"
	"github.com/guttosm/coupon-service/internal/domain/model"
	"github.com/guttosm/coupon-service/internal/middleware"
	"github.com/guttosm/coupon-service/internal/mocks"
	"github.com/guttosm/coupon-service/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const workedExampleBody = `{
	"items": [
		{"name": "Winter Jacket", "category": "Clothing", "price": 1000, "quantity": 1},
		{"name": "Smartphone", "category": "Electronics", "price": 20000, "quantity": 1},
		{"name": "Jeans", "category": "Clothing", "price": 1000, "quantity": 2},
		{"name": "Headphones", "category": "Electronics", "price": 2000, "quantity": 1}
	],
	"loyalty_member": true,
	"payment_bank": "ABC"
}`

// newWorkedExampleHandler wires real services over the built-in catalogue.
func newWorkedExampleHandler(t *testing.T) *Handler {
	t.Helper()
	f := discount.NewStrategyFactory()
	engine := discount.NewEngine()
	for _, def := range config.DefaultCoupons() {
		c, err := discount.FromDefinition(f, def)
		require.NoError(t, err)
		engine.Register(c)
	}
	return NewHandler(service.NewPricingService(engine), service.NewCouponService(engine, f))
}

func newHandlerRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.ErrorHandler())
	api := router.Group("/api")
	NewCheckoutRoutes(h).RegisterRoutes(api, nil)
	NewCouponRoutes(h).RegisterRoutes(api, nil)
	return router
}

func doJSON(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// decodeData unwraps a SuccessResponse envelope into v.
func decodeData(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	var envelope struct {
		Data      json.RawMessage `json:"data"`
		RequestID string          `json:"request_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.NotEmpty(t, envelope.RequestID)
	require.NoError(t, json.Unmarshal(envelope.Data, v))
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHandler_Quote(t *testing.T) {
	router := newHandlerRouter(newWorkedExampleHandler(t))

	w := doJSON(router, http.MethodPost, "/api/checkout/quote", workedExampleBody)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var q model.Quote
	decodeData(t, w, &q)

	assert.NotEmpty(t, q.QuoteID)
	assert.Equal(t, 25000.0, q.OriginalCost)
	assert.InDelta(t, 22865, q.FinalCost, 1e-6)
	assert.InDelta(t, 2135, q.TotalDiscount, 1e-6)
	assert.Equal(t, []string{
		"Seasonal Offer 10% off Clothing",
		"Loyalty Offer 5% off",
		"BulkPurchase Offer 100 off on spend of 1000",
		"Bank Offer 15% off up to 500 on minimum spend of 2000 with ABC",
	}, q.ApplicableCoupons)

	want := []struct {
		amount, after float64
	}{
		{300, 24700},
		{1235, 23465},
		{100, 23365},
		{500, 22865},
	}
	require.Len(t, q.AppliedDiscounts, len(want))
	for i, w := range want {
		assert.InDelta(t, w.amount, q.AppliedDiscounts[i].Amount, 1e-6, "firing %d", i)
		assert.InDelta(t, w.after, q.AppliedDiscounts[i].CostAfter, 1e-6, "firing %d", i)
	}
}

func TestHandler_QuoteIsIndependentPerRequest(t *testing.T) {
	router := newHandlerRouter(newWorkedExampleHandler(t))

	for i := 0; i < 3; i++ {
		w := doJSON(router, http.MethodPost, "/api/checkout/quote", workedExampleBody)
		require.Equal(t, http.StatusOK, w.Code)
		var q model.Quote
		decodeData(t, w, &q)
		assert.InDelta(t, 22865, q.FinalCost, 1e-6, "request %d", i)
	}
}

func TestHandler_QuoteValidation(t *testing.T) {
	router := newHandlerRouter(newWorkedExampleHandler(t))

	tests := []struct {
		name        string
		body        string
		wantMessage string
		wantDetail  string
	}{
		{
			name:        "malformed json",
			body:        `{"items": [`,
			wantMessage: "Invalid request body",
		},
		{
			name:        "no items",
			body:        `{"items": []}`,
			wantMessage: "items: must contain at least one item",
			wantDetail:  "items",
		},
		{
			name:        "negative price",
			body:        `{"items": [{"name": "Jeans", "category": "Clothing", "price": -1, "quantity": 1}]}`,
			wantMessage: "items[0].price: must not be negative",
			wantDetail:  "items[0].price",
		},
		{
			name:        "zero quantity",
			body:        `{"items": [{"name": "Jeans", "category": "Clothing", "price": 10, "quantity": 0}]}`,
			wantMessage: "items[0].quantity: must be at least 1",
			wantDetail:  "items[0].quantity",
		},
	}

	for _, tt := range tests {
		for _, path := range []string{"/api/checkout/quote", "/api/checkout/applicable"} {
			t.Run(tt.name+" "+path, func(t *testing.T) {
				w := doJSON(router, http.MethodPost, path, tt.body)

				assert.Equal(t, http.StatusBadRequest, w.Code)
				resp := decodeError(t, w)
				assert.Equal(t, dto.ErrCodeInvalidRequest, resp.Error)
				assert.Equal(t, tt.wantMessage, resp.Message)
				assert.NotEmpty(t, resp.RequestID)
				if tt.wantDetail != "" {
					assert.Contains(t, resp.Details, tt.wantDetail)
				}
			})
		}
	}
}

func TestHandler_Applicable(t *testing.T) {
	router := newHandlerRouter(newWorkedExampleHandler(t))

	body := `{"items": [{"name": "Smartphone", "category": "Electronics", "price": 500, "quantity": 1}], "payment_bank": "XYZ"}`
	w := doJSON(router, http.MethodPost, "/api/checkout/applicable", body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.ApplicableResponse
	decodeData(t, w, &resp)
	assert.Equal(t, 0, resp.Count)
	assert.NotNil(t, resp.Coupons)
	assert.Empty(t, resp.Coupons)

	w = doJSON(router, http.MethodPost, "/api/checkout/applicable", workedExampleBody)
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, w, &resp)
	assert.Equal(t, 4, resp.Count)
}

func TestHandler_ServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "internal", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantCode: dto.ErrCodeInternal},
		{name: "deadline", err: context.DeadlineExceeded, wantStatus: http.StatusGatewayTimeout, wantCode: dto.ErrCodeTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pricing := new(mocks.MockPricingService)
			pricing.On("Quote", mock.Anything, mock.AnythingOfType("*model.Cart")).Return(model.Quote{}, tt.err)
			pricing.On("Applicable", mock.Anything, mock.AnythingOfType("*model.Cart")).Return(nil, tt.err)

			router := newHandlerRouter(NewHandler(pricing, new(mocks.MockCouponService)))

			for _, path := range []string{"/api/checkout/quote", "/api/checkout/applicable"} {
				w := doJSON(router, http.MethodPost, path, workedExampleBody)
				assert.Equal(t, tt.wantStatus, w.Code, path)
				assert.Equal(t, tt.wantCode, decodeError(t, w).Error, path)
			}
			pricing.AssertExpectations(t)
		})
	}
}

func TestHandler_ListCoupons(t *testing.T) {
	router := newHandlerRouter(newWorkedExampleHandler(t))

	w := doJSON(router, http.MethodGet, "/api/coupons", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.CouponListResponse
	decodeData(t, w, &resp)
	require.Equal(t, 4, resp.Count)
	for i, c := range resp.Coupons {
		assert.Equal(t, i+1, c.Position)
		assert.True(t, c.Combinable)
	}
	assert.Equal(t, model.CouponTypeSeasonal, resp.Coupons[0].Type)
	assert.Equal(t, model.CouponTypeBank, resp.Coupons[3].Type)
}

func TestHandler_RegisterCoupon(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantInfo   model.CouponInfo
		wantMsg    string
	}{
		{
			name:       "loyalty coupon",
			body:       `{"type": "loyalty", "percent": 10}`,
			wantStatus: http.StatusCreated,
			wantInfo:   model.CouponInfo{Position: 5, Type: model.CouponTypeLoyalty, Name: "Loyalty Offer 10% off", Combinable: true},
		},
		{
			name:       "non combinable bulk",
			body:       `{"type": "bulk_purchase", "threshold": 500, "amount": 50, "combinable": false}`,
			wantStatus: http.StatusCreated,
			wantInfo:   model.CouponInfo{Position: 5, Type: model.CouponTypeBulk, Name: "BulkPurchase Offer 50 off on spend of 500", Combinable: false},
		},
		{
			name:       "unknown type",
			body:       `{"type": "mystery"}`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "type: must be one of seasonal, loyalty, bulk_purchase, bank",
		},
		{
			name:       "bank without bank",
			body:       `{"type": "bank", "percent": 10}`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "bank: is required",
		},
		{
			name:       "percent out of range",
			body:       `{"type": "loyalty", "percent": 150}`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "percent: must be between 0 and 100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newHandlerRouter(newWorkedExampleHandler(t))

			w := doJSON(router, http.MethodPost, "/api/coupons", tt.body)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())

			if tt.wantStatus == http.StatusCreated {
				var info model.CouponInfo
				decodeData(t, w, &info)
				assert.Equal(t, tt.wantInfo, info)

				list := doJSON(router, http.MethodGet, "/api/coupons", "")
				var resp dto.CouponListResponse
				decodeData(t, list, &resp)
				assert.Equal(t, 5, resp.Count)
				return
			}
			assert.Equal(t, tt.wantMsg, decodeError(t, w).Message)
		})
	}
}

func TestHandler_RegisterCouponAffectsLaterQuotes(t *testing.T) {
	router := newHandlerRouter(newWorkedExampleHandler(t))

	w := doJSON(router, http.MethodPost, "/api/coupons", `{"type": "loyalty", "percent": 10, "combinable": false}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, http.MethodPost, "/api/checkout/quote", workedExampleBody)
	require.Equal(t, http.StatusOK, w.Code)

	var q model.Quote
	decodeData(t, w, &q)
	require.Len(t, q.AppliedDiscounts, 5)
	assert.InDelta(t, 22865-2286.5, q.FinalCost, 1e-6)
	assert.Equal(t, "Loyalty Offer 10% off", q.StoppedBy)
}

func TestHandler_RegisterCouponServiceError(t *testing.T) {
	coupons := new(mocks.MockCouponService)
	coupons.On("Register", mock.Anything, mock.AnythingOfType("model.CouponDefinition")).
		Return(model.CouponInfo{}, fmt.Errorf("%w: %q", discount.ErrUnknownCoupon, "loyalty"))

	router := newHandlerRouter(NewHandler(new(mocks.MockPricingService), coupons))
	w := doJSON(router, http.MethodPost, "/api/coupons", `{"type": "loyalty", "percent": 5}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Unknown coupon type", decodeError(t, w).Message)
	coupons.AssertExpectations(t)
}

func TestHandler_AuditLog(t *testing.T) {
	logs := new(mocks.MockLoggingService)
	var entries []*model.LogEntry
	logs.On("CreateLogs", mock.Anything, mock.AnythingOfType("[]*model.LogEntry")).
		Run(func(args mock.Arguments) {
			entries = append(entries, args.Get(1).([]*model.LogEntry)...)
		}).
		Return(nil)

	al := middleware.NewAsyncLogger(logs, middleware.AsyncLoggerConfig{NumWorkers: 1})
	h := newWorkedExampleHandler(t)
	WithAuditLogger(al)(h)
	router := newHandlerRouter(h)

	require.Equal(t, http.StatusOK, doJSON(router, http.MethodPost, "/api/checkout/quote", workedExampleBody).Code)
	require.Equal(t, http.StatusCreated, doJSON(router, http.MethodPost, "/api/coupons", `{"type": "loyalty", "percent": 1}`).Code)
	al.Stop()

	require.Len(t, entries, 2)
	assert.Equal(t, model.ActionTypeQuote, entries[0].ActionType)
	assert.InDelta(t, 22865, entries[0].Fields["final_cost"], 1e-6)
	assert.Equal(t, model.ActionTypeRegisterCoupon, entries[1].ActionType)
	assert.Equal(t, 5, entries[1].Fields["position"])
}
