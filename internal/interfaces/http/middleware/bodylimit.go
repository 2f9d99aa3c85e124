package middleware

import (
	"fmt"
	"net/http"

	"github.com/erp/purchase-discount/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// BodyLimit caps request bodies at maxBytes. A declared Content-Length over
// the cap is rejected before the handler runs; chunked bodies are cut off by
// http.MaxBytesReader and surface as *http.MaxBytesError when bound, which
// handlers report through RequestTooLarge.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			RequestTooLarge(c, maxBytes)
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// RequestTooLarge aborts with 413 and the error envelope naming the limit.
func RequestTooLarge(c *gin.Context, limit int64) {
	c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponse(
		dto.ErrCodeTooLarge,
		fmt.Sprintf("Request body exceeds %d bytes", limit),
		GetRequestID(c),
	))
}
