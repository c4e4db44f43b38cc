package api

import (
	"crypto/subtle"                   // Constant-time secret comparison
	"errors"                          // Sentinel error matching
	"net/http"                        // HTTP status codes
	"os"                              // Working directory lookup
	"time"                            // Token lifetimes
	"wenxing_backend/internal/config" // Application configuration
	"wenxing_backend/internal/store"  // User store
	"wenxing_backend/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// Request struct for admin login
type AdminLoginRequest struct {
	Password string `json:"password" binding:"required"` // Shared admin secret
}

// Request struct for the set-pro mutation
type SetProRequest struct {
	UserID int   `json:"userId"` // Target user, must be a positive integer
	IsPro  *bool `json:"isPro"`  // Desired pro flag; pointer so false is distinguishable from absent
}

// safeEqual compares two secrets in constant time
func safeEqual(a, b string) bool {
	// ConstantTimeCompare requires equal lengths; the length check leaks only length
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// AdminLoginHandler exchanges the shared admin secret for a short-lived admin token
func AdminLoginHandler(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		// The panel is unusable until an admin password is configured
		if cfg.AdminPassword == "" {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "SERVER_MISCONFIG", "message": "ADMIN_PASSWORD is not configured"})
			return
		}
		var req AdminLoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "BAD_REQUEST", "message": "password must not be empty"})
			return
		}
		// Constant-time compare against the configured secret
		if !safeEqual(req.Password, cfg.AdminPassword) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "UNAUTHORIZED", "message": "Wrong admin password"})
			return
		}
		// Issue the short-lived admin token
		token, err := utils.GenerateAdminJWT(cfg.JWTSecret, time.Duration(cfg.AdminJWTTTLHours)*time.Hour)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "SERVER_ERROR", "message": "Failed to generate token"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token}) // Return the admin token
	}
}

// ListUsersHandler returns all users, newest first, with the aggregate pro count
func ListUsersHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := s.ListUsers() // Fetch all users ordered newest first
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "SERVER_ERROR", "message": "Failed to fetch users"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"total":    len(users),            // Total number of users
			"proCount": store.CountPro(users), // Aggregate pro count
			"users":    users,                 // Password hashes are excluded by the model's json tags
		})
	}
}

// DBInfoHandler exposes storage configuration for operator inspection
func DBInfoHandler(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		cwd, _ := os.Getwd() // Working directory of the running process
		env := "development"
		if cfg.IsProd {
			env = "production" // Environment label
		}
		c.JSON(http.StatusOK, gin.H{
			"sqlitePath": cfg.SQLitePath, // Configured database file
			"cwd":        cwd,            // Process working directory
			"env":        env,            // Environment label
		})
	}
}

// SetProHandler flips a user's pro flag, the same mutation as the CLI tool
func SetProHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SetProRequest // Bind JSON request to struct
		// userId must be a positive integer and isPro must be present
		if err := c.ShouldBindJSON(&req); err != nil || req.UserID <= 0 || req.IsPro == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "BAD_REQUEST", "message": "userId must be a positive integer"})
			return
		}
		// Apply the mutation
		user, err := s.SetProStatus(uint(req.UserID), *req.IsPro)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				// Nothing was mutated
				c.JSON(http.StatusNotFound, gin.H{"error": "NOT_FOUND", "message": "User does not exist"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "SERVER_ERROR", "message": "Failed to update user"})
			return
		}
		// Log the privileged mutation
		logrus.WithFields(logrus.Fields{
			"user_id": user.ID,    // Target user
			"is_pro":  user.IsPro, // New flag value
		}).Info("Pro status updated")
		c.JSON(http.StatusOK, gin.H{
			"ok": true, // Mutation applied
			"user": gin.H{
				"id":       user.ID,       // User ID
				"username": user.Username, // Username
				"isPro":    user.IsPro,    // Updated flag
			},
		})
	}
}
