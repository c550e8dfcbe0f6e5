package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"wallet_live/internal/auth"
	"wallet_live/internal/http/dto"
	"wallet_live/internal/http/resp"
)

const userIDKey = "user_id"

// BearerAuth requires a valid access token in the Authorization header or
// the accessToken cookie.
func BearerAuth(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ""
		if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
			token = strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		} else if cookie, err := c.Cookie("accessToken"); err == nil {
			token = cookie
		}

		claims, err := tokens.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Code: resp.CodeUnauthorized, Message: "invalid or missing token"})
			return
		}
		c.Set(userIDKey, claims.UserID)
		c.Next()
	}
}

// UserID returns the authenticated user, or 0 outside BearerAuth.
func UserID(c *gin.Context) int64 {
	return c.GetInt64(userIDKey)
}
