package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"wallet_live/internal/http/dto"
	"wallet_live/internal/http/resp"
)

// ZapRecovery turns a handler panic into a JSON 500. Streams that already
// wrote their headers are only aborted.
func ZapRecovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		fields := []zap.Field{
			zap.Any("panic", recovered),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
		}
		if id := UserID(c); id != 0 {
			fields = append(fields, zap.Int64("user_id", id))
		}
		logger.Error("handler panicked", fields...)

		if c.Writer.Written() {
			c.Abort()
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "internal server error"})
	})
}
