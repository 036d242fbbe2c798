package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	// IdempotencyKeyHeader is the HTTP header name for idempotency key (RFC standard).
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayedHeader marks a response served from the store.
	IdempotencyReplayedHeader = "X-Idempotency-Replayed"
	// IdempotencyKeyTTL is the TTL for cached idempotency responses.
	IdempotencyKeyTTL = 5 * time.Minute
)

// StoredResponse is a replayable HTTP response.
type StoredResponse struct {
	StatusCode  int       `json:"status_code"`
	ContentType string    `json:"content_type"`
	Body        []byte    `json:"body"`
	StoredAt    time.Time `json:"stored_at"`
}

// IdempotencyStore keeps responses keyed by request fingerprint.
// Implementations expire entries after their own TTL.
type IdempotencyStore interface {
	Get(c *gin.Context, key string) (*StoredResponse, bool)
	Set(c *gin.Context, key string, resp *StoredResponse)
}

// IdempotencyConfig holds configuration for idempotency middleware.
type IdempotencyConfig struct {
	Store   IdempotencyStore
	Enabled bool
}

// Idempotency returns a middleware that replays the stored response for a
// repeated Idempotency-Key. The key is bound to the caller, method, path and
// body, so reusing a key with a different payload or different credentials
// is processed as a new request. Only 2xx responses are stored. Register it
// after authentication so that a replay is never served to an
// unauthenticated caller.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	if !cfg.Enabled || cfg.Store == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost &&
			c.Request.Method != http.MethodPut &&
			c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		fingerprint := requestFingerprint(key, callerIdentity(c), c.Request)

		if stored, ok := cfg.Store.Get(c, fingerprint); ok {
			c.Header(IdempotencyReplayedHeader, "true")
			c.Data(stored.StatusCode, stored.ContentType, stored.Body)
			c.Abort()
			return
		}

		writer := &captureWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = writer

		c.Next()

		status := writer.Status()
		if status >= 200 && status < 300 {
			cfg.Store.Set(c, fingerprint, &StoredResponse{
				StatusCode:  status,
				ContentType: writer.Header().Get("Content-Type"),
				Body:        writer.body.Bytes(),
				StoredAt:    time.Now(),
			})
		}
	}
}

// requestFingerprint hashes the idempotency key with the caller identity,
// request method, path and body. Fields are length-prefixed. The body is
// restored for downstream handlers.
func requestFingerprint(idempotencyKey, caller string, req *http.Request) string {
	hasher := sha256.New()
	field := func(b []byte) {
		hasher.Write([]byte(strconv.Itoa(len(b))))
		hasher.Write([]byte{':'})
		hasher.Write(b)
	}

	field([]byte(idempotencyKey))
	field([]byte(caller))
	field([]byte(req.Method))
	field([]byte(req.URL.Path))

	var bodyBytes []byte
	if req.Body != nil {
		bodyBytes, _ = io.ReadAll(req.Body)
		req.Body = io.NopCloser(bytes.NewReader(bodyBytes))
	}
	field(bodyBytes)

	return hex.EncodeToString(hasher.Sum(nil))
}

// callerIdentity names who sent the request: the token subject when JWTAuth
// ran, otherwise the presented API key, otherwise nobody.
func callerIdentity(c *gin.Context) string {
	if subject := GetSubject(c); subject != "" {
		return "subject:" + subject
	}
	key := c.GetHeader(APIKeyHeader)
	if key == "" {
		key = c.Query(APIKeyQuery)
	}
	if key != "" {
		return "key:" + key
	}
	return ""
}

// captureWriter tees the response body for storing.
type captureWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
