package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sangkips/pos-print-server/internal/presentation/http/dto/response"
	"github.com/sangkips/pos-print-server/pkg/apperror"
)

// Recovery turns a handler panic into a 500 failure envelope.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic recovered",
					zap.String("request_id", GetRequestID(c)),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.Any("error", err),
					zap.Stack("stacktrace"),
				)
				response.AbortWithError(c, apperror.ErrInternalServer)
			}
		}()
		c.Next()
	}
}
