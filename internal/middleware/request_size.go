package middleware

import (
	"net/http"
	"project-pilot/pkg/utils"

	"github.com/gin-gonic/gin"
)

// DefaultMaxRequestSize bounds JSON bodies; the API accepts no uploads.
const DefaultMaxRequestSize = 1 << 20

func RequestSizeLimitMiddleware(maxSize int64) gin.HandlerFunc {
	if maxSize <= 0 {
		maxSize = DefaultMaxRequestSize
	}

	return func(c *gin.Context) {
		if c.Request.ContentLength > maxSize {
			utils.ErrorResponse(c, http.StatusRequestEntityTooLarge, "Request body too large")
			c.Abort()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		c.Next()
	}
}
