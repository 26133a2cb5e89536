package middleware

import (
	"net/http"
	"strings"

	"zurich_todo/internal/service"

	"github.com/gin-gonic/gin"
)

// JWT extracts and verifies a bearer token, storing the user id in the
// context under "user_id".
func JWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"message": "Missing or malformed authorization header"},
			})
			return
		}

		userID, err := service.ParseJWT(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"message": "Invalid or expired token"},
			})
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}
