package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/coupon-service/internal/domain/model"
)

// AuditLog records a business action (quote, coupon registration) for audit
// purposes. Entries go through the async logger; a nil logger is a no-op.
func AuditLog(al *AsyncLogger, c *gin.Context, actionType, message string, fields map[string]interface{}) {
	if al == nil {
		return
	}
	al.Log(newAuditEntry(c, "info", actionType, message, fields))
}

// AuditLogError records a failed business action.
func AuditLogError(al *AsyncLogger, c *gin.Context, actionType, message string, err error, fields map[string]interface{}) {
	if al == nil {
		return
	}
	entry := newAuditEntry(c, "error", actionType, message, fields)
	if err != nil {
		entry.Error = err.Error()
	}
	al.Log(entry)
}

func newAuditEntry(c *gin.Context, level, actionType, message string, fields map[string]interface{}) *model.LogEntry {
	entry := &model.LogEntry{
		Timestamp:  time.Now(),
		Level:      level,
		Message:    message,
		RequestID:  GetRequestID(c),
		Method:     c.Request.Method,
		Path:       c.Request.URL.Path,
		IP:         c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
		Subject:    GetSubject(c),
		ActionType: actionType,
	}
	if len(fields) > 0 {
		entry.WithFields(fields)
	}
	return entry
}
