package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompression(t *testing.T) {
	payload := `{"data":{"coupons":["` + strings.Repeat("Seasonal Offer 10% off Clothing", 20) + `"]}}`

	router := gin.New()
	router.Use(Compression())
	for _, p := range []string{"/api/coupons", "/metrics", "/swagger/index.html"} {
		router.GET(p, func(c *gin.Context) {
			c.Data(http.StatusOK, "application/json", []byte(payload))
		})
	}

	tests := []struct {
		path           string
		acceptEncoding string
		wantGzip       bool
	}{
		{path: "/api/coupons", acceptEncoding: "gzip", wantGzip: true},
		{path: "/api/coupons", acceptEncoding: "br, gzip;q=0.8", wantGzip: true},
		{path: "/api/coupons"},
		{path: "/metrics", acceptEncoding: "gzip"},
		{path: "/swagger/index.html", acceptEncoding: "gzip"},
	}

	for _, tt := range tests {
		t.Run(tt.path+" "+tt.acceptEncoding, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.acceptEncoding != "" {
				req.Header.Set("Accept-Encoding", tt.acceptEncoding)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			if !tt.wantGzip {
				assert.Empty(t, w.Header().Get("Content-Encoding"))
				assert.Equal(t, payload, w.Body.String())
				return
			}

			assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
			zr, err := gzip.NewReader(w.Body)
			require.NoError(t, err)
			body, err := io.ReadAll(zr)
			require.NoError(t, err)
			assert.Equal(t, payload, string(body))
		})
	}
}
