package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const UserEmailKey = "userEmail"

// AuthMiddleware resolves the caller's identity from the X-User-Email
// header. Identity here is a bare email string; there is no token
// verification in this service.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.GetHeader("X-User-Email")
		if email == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Unauthorized. Please log in."})
			return
		}
		c.Set(UserEmailKey, email)
		c.Next()
	}
}

// GetUserEmail returns the identity set by AuthMiddleware, or "" when the
// request was not authenticated.
func GetUserEmail(c *gin.Context) string {
	if val, exists := c.Get(UserEmailKey); exists {
		if email, ok := val.(string); ok {
			return email
		}
	}
	return ""
}
