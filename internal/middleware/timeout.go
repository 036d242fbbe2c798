package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

// DefaultRequestTimeout bounds request processing when no timeout is configured.
const DefaultRequestTimeout = 10 * time.Second

// Timeout returns a middleware that puts a deadline on the request context.
// Handlers stay on the request goroutine; services observe the deadline
// through ctx and report context.DeadlineExceeded, which ErrorHandler turns
// into 504. A handler that finishes after the deadline without checking ctx
// is answered with 504 as well, provided nothing was written yet.
func Timeout(timeout time.Duration) gin.HandlerFunc {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		if ctx.Err() == context.DeadlineExceeded && !c.Writer.Written() && len(c.Errors) == 0 {
			_ = c.Error(context.DeadlineExceeded)
		}
	}
}
