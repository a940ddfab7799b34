package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"dentalclinic/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLogger writes one structured line per request.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.String("ip", c.ClientIP()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetString(ContextRequestID)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.ByType(gin.ErrorTypePrivate).String()))
		}

		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("request failed", fields...)
		case status >= http.StatusBadRequest:
			logger.Warn("client error", fields...)
		default:
			logger.Info("request completed", fields...)
		}
	}
}

// ErrorLogger recovers panics, logs them with the stack and answers with the
// JSON error envelope.
func ErrorLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if recovered := recover(); recovered != nil {
				logger.Error("panic recovered",
					zap.String("error", fmt.Sprintf("%v", recovered)),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.String("request_id", c.GetString(ContextRequestID)),
					zap.ByteString("stack", debug.Stack()),
				)
				response.Abort(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal Server Error")
			}
		}()

		c.Next()
	}
}
