package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/marketbay/shopfront/pkg"
	"github.com/marketbay/shopfront/pkg/utils"
	"go.uber.org/zap"
)

// TraceID returns Gin middleware to handle trace IDs for observability.
func TraceID(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.Request.Header.Get(pkg.HeaderTraceId)
		if utils.IsEmpty(traceID) {
			traceID = uuid.New().String()
		}
		// Set in context for handlers/services (e.g., logging, Kafka publish)
		c.Set(pkg.TraceId, traceID)
		// Propagate in the response header for clients/downstream tracing
		c.Writer.Header().Set(pkg.HeaderTraceId, traceID)
		c.Next()

		if c.Writer.Status() >= 500 {
			logger.Error("request failed",
				zap.String(pkg.TraceId, traceID),
				zap.String("path", c.FullPath()),
				zap.Int("status", c.Writer.Status()),
			)
		}
	}
}
