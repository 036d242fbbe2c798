package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/guttosm/coupon-service/internal/logger"
)

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		headerValue string
		wantReuse   bool
	}{
		{name: "generates ID when missing", headerValue: ""},
		{name: "reuses client ID", headerValue: "checkout-7f3a", wantReuse: true},
		{name: "replaces ID with spaces", headerValue: "two words"},
		{name: "replaces ID with control characters", headerValue: "id\x00"},
		{name: "replaces oversized ID", headerValue: strings.Repeat("a", maxRequestIDLength+1)},
		{name: "accepts ID at the length limit", headerValue: strings.Repeat("a", maxRequestIDLength), wantReuse: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fromGin, fromCtx string
			router := gin.New()
			router.Use(RequestID())
			router.GET("/test", func(c *gin.Context) {
				fromGin = GetRequestID(c)
				fromCtx = logger.RequestIDFromContext(c.Request.Context())
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.headerValue != "" {
				req.Header.Set(RequestIDHeader, tt.headerValue)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, fromGin, fromCtx, "gin and request context carry the same ID")
			assert.Equal(t, fromGin, w.Header().Get(RequestIDHeader))
			if tt.wantReuse {
				assert.Equal(t, tt.headerValue, fromGin)
				return
			}
			_, err := uuid.Parse(fromGin)
			assert.NoError(t, err)
		})
	}
}

func TestGetRequestID_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Empty(t, GetRequestID(c))
}
