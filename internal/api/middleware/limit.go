package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// MaxBodySize bounds request bodies. Submissions are capped well below this
// by the engine, so anything larger is not a legitimate request.
const MaxBodySize = 1 * 1024 * 1024

// BodyLimit rejects requests whose body exceeds maxBytes. Declared lengths
// are checked up front; chunked bodies fail when the handler reads past the
// limit.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": "request body too large",
			})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
