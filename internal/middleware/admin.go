package middleware

import (
	"net/http"                       // HTTP status codes
	"strings"                        // String manipulation
	"wenxing_backend/internal/utils" // JWT utility functions

	"github.com/gin-gonic/gin" // Gin web framework
)

// AdminOnlyMiddleware requires a valid token carrying the admin claim.
// A missing or invalid token is 401; a valid user token without the admin
// claim is 403, so the two failures stay distinguishable to clients.
func AdminOnlyMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		// Check if the Authorization header is present and properly formatted
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "UNAUTHORIZED", "message": "Please log in to the admin panel"})
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ") // Extract the token string and parse it
		claims, err := utils.ParseJWT(tokenStr, secret)       // Parse the JWT token
		if err != nil {
			// Expired or tampered token
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "UNAUTHORIZED", "message": "Admin session expired, please log in again"})
			return
		}
		// A valid token without the admin claim is an ordinary user token
		if !claims.Admin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "FORBIDDEN", "message": "Admin access required"})
			return
		}
		c.Set("isAdmin", true) // Mark the request as an operator request
		c.Next()               // Proceed to the next handler
	}
}
