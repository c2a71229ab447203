// Package httpapi exposes the decision engine over HTTP, grounded on
// order_service/main.go's gin.New()/Recovery/corsMiddleware/loggingMiddleware
// wiring.
package httpapi

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rtnapps/Loyalty-Program/internal/logging"
)

var middlewarelog = logging.GetLogger("http-middleware")

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start)
		middlewarelog.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", duration.String(),
			"client_ip", c.ClientIP(),
		)
		c.Header("X-Response-Time", duration.String())
		c.Header("X-Service", "loyalty-decision-engine")
	}
}
