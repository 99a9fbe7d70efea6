package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// RequestIDHeader is the header the request id is echoed back on.
const RequestIDHeader = "X-Request-ID"

// RequestID assigns every request a uuid (or reuses the one the client
// sent) and logs the request with it, so store-level audit lines can be
// correlated with the HTTP request they belong to.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("requestID", id)
		c.Writer.Header().Set(RequestIDHeader, id)

		c.Next()

		log.WithFields(log.Fields{
			"request_id": id,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
		}).Debug("Request completed")
	}
}
