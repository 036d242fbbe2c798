package dto

import (
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewError(t *testing.T) {
	before := time.Now()
	e := NewError(ErrCodeInvalidRequest, "items: must not be empty").WithRequestID("req-7")

	assert.Equal(t, ErrCodeInvalidRequest, e.Error)
	assert.Equal(t, "items: must not be empty", e.Message)
	assert.Equal(t, "req-7", e.RequestID)
	assert.False(t, e.Timestamp.Before(before))
	assert.Nil(t, e.Details)
}

func TestErrorResponse_WithDetails(t *testing.T) {
	base := NewError(ErrCodeInvalidRequest, "invalid").WithDetails("items[0].quantity", "must be at least 1")
	extended := base.WithDetails("payment_bank", "must not be blank")

	assert.Equal(t, map[string]string{"items[0].quantity": "must be at least 1"}, base.Details)
	assert.Len(t, extended.Details, 2)
	assert.Equal(t, "must not be blank", extended.Details["payment_bank"])
}

func TestErrCodeFromStatus(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{http.StatusBadRequest, ErrCodeInvalidRequest},
		{http.StatusUnprocessableEntity, ErrCodeInvalidRequest},
		{http.StatusUnauthorized, ErrCodeUnauthorized},
		{http.StatusForbidden, ErrCodeForbidden},
		{http.StatusNotFound, ErrCodeNotFound},
		{http.StatusConflict, ErrCodeConflict},
		{http.StatusTooManyRequests, ErrCodeRateLimit},
		{http.StatusRequestTimeout, ErrCodeTimeout},
		{http.StatusGatewayTimeout, ErrCodeTimeout},
		{http.StatusServiceUnavailable, ErrCodeUnavailable},
		{http.StatusInternalServerError, ErrCodeInternal},
		{http.StatusBadGateway, ErrCodeInternal},
		{http.StatusTeapot, ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, ErrCodeFromStatus(tt.status))
		})
	}
}
