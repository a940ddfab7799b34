package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ContextRequestID = "request_id"
	HeaderRequestID  = "X-Request-ID"

	// longer external ids are replaced to keep log lines bounded
	requestIDMaxLen = 64
)

// RequestID reuses the caller's X-Request-ID or generates a UUID, and echoes
// it on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(HeaderRequestID)
		if rid == "" || len(rid) > requestIDMaxLen {
			rid = uuid.New().String()
		}

		c.Set(ContextRequestID, rid)
		c.Header(HeaderRequestID, rid)
		c.Next()
	}
}
