package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"santamartha/storefront/internal/apiclient"
)

const requestIDHeader = "X-Request-Id"

// RequestID tags the view request and carries the id into the request
// context so that backend calls made on its behalf send the same id.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Set(requestIDHeader, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Request = c.Request.WithContext(apiclient.WithRequestID(c.Request.Context(), requestID))

		c.Next()
	}
}
