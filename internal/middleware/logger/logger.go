package logger

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rawen554/geofeed/internal/middleware/requestid"
	"go.uber.org/zap"
)

// Logger returns a middleware that logs every request after it has been
// handled.
func Logger(logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		uri := c.Request.RequestURI
		method := c.Request.Method

		t := time.Now()
		c.Next()
		duration := time.Since(t)

		logger.Infoln(
			"URI", uri,
			"Method", method,
			"Duration", duration,
			"Status", c.Writer.Status(),
			"Size", c.Writer.Size(),
			"RequestID", c.GetString(requestid.ContextKey),
		)
	}
}
