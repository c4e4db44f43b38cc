package api

import (
	"net/http"                       // HTTP status codes
	"wenxing_backend/internal/store" // User store

	"github.com/gin-gonic/gin" // Gin web framework
)

// MeHandler returns the authenticated user's identity and quota view
func MeHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "UNAUTHORIZED", "message": "Please log in first"})
			return
		}
		// Reload the user; the row may be gone even though the token still verifies
		user, err := s.GetByID(userID.(uint))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "UNAUTHORIZED", "message": "Please log in again"})
			return
		}
		c.JSON(http.StatusOK, userPayload(user)) // Identity plus quota view
	}
}
