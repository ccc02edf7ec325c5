package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const callerKey = "auth.caller"

// Middleware extracts the caller identity from a bearer token and aborts
// unauthenticated requests.
func Middleware(tokens *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		identity, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(callerKey, identity)
		c.Next()
	}
}

// CallerID returns the identity set by Middleware, or "" when absent.
func CallerID(c *gin.Context) string {
	return c.GetString(callerKey)
}
