package middleware

import (
	"net/http"
	"strings"

	"github.com/gcaccess/door-gateway/internal/token"
	"github.com/gin-gonic/gin"
)

const errUnauthorized = "Unauthorized"

// tokenParser is the subset of token.Issuer the middleware needs.
type tokenParser interface {
	Parse(raw string) (*token.Claims, error)
}

// Auth validates a Bearer session token and sets "userID" and "email"
// in the gin context. It is a hard pass/fail gate: on any failure the
// request is aborted before handlers, user resolution, or window
// evaluation run.
func Auth(tokens tokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		raw := strings.TrimPrefix(header, "Bearer ")

		claims, err := tokens.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("email", claims.Email)
		c.Next()
	}
}
