package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sangkips/pos-print-server/internal/presentation/http/dto/response"
	"github.com/sangkips/pos-print-server/pkg/apperror"
)

// BodyLimit rejects bodies larger than maxBytes. Bodies without a declared
// length are capped while being read.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			response.AbortWithError(c, apperror.ErrBodyTooLarge)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
