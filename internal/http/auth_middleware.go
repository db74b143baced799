package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/luckydrawhq/luckydraw/internal/models"
	"github.com/luckydrawhq/luckydraw/internal/security"
)

// AuthMiddleware validates the session JWT and stores the caller's identity
// on the gin context. It performs no authorization beyond authentication;
// the admin gate is a separate middleware.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		claims, errParse := security.ParseToken(secret, token)
		if errParse != nil {
			status := http.StatusUnauthorized
			msg := "invalid token"
			if errParse == security.ErrExpiredToken {
				msg = "token expired"
			}
			c.AbortWithStatusJSON(status, gin.H{"error": msg})
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// AdminMiddleware rejects callers whose session role is not admin. It must
// run after AuthMiddleware. The draw core itself never checks roles; it
// trusts that mutating calls arrive already authorized, and this gate is
// where that authorization happens.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get("role")
		if roleStr, ok := role.(string); !ok || roleStr != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin only"})
			return
		}
		c.Next()
	}
}

// bearerToken extracts the token from an Authorization header value.
func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
