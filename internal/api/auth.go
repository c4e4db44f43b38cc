package api

import (
	"errors"                          // Sentinel error matching
	"net/http"                        // HTTP status codes
	"strings"                         // String manipulation
	"time"                            // Token lifetimes
	"wenxing_backend/internal/config" // Application configuration
	"wenxing_backend/internal/domain" // Importing domain models
	"wenxing_backend/internal/store"  // User store
	"wenxing_backend/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing
)

// Request struct for registration
type RegisterRequest struct {
	Username string `json:"username" binding:"required"` // Username must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// Request struct for login
type LoginRequest struct {
	Username string `json:"username" binding:"required"` // Username must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// validateCreds checks credential shape; returns a human message or "" when valid
func validateCreds(username, password string) string {
	u := strings.TrimSpace(username) // Usernames are compared trimmed
	if len(u) < 3 || len(u) > 32 {
		return "Username must be 3-32 characters"
	}
	// bcrypt input is capped at 72 bytes
	if len(password) < 6 || len(password) > 72 {
		return "Password must be 6-72 characters"
	}
	return ""
}

// userPayload flattens the user identity and quota view into one response object
func userPayload(u *domain.User) gin.H {
	quota := u.Quota() // Derived quota snapshot
	return gin.H{
		"id":        u.ID,            // User ID
		"username":  u.Username,      // Username
		"total":     quota.Total,     // Lifetime allowance
		"used":      quota.Used,      // Calls consumed
		"remaining": quota.Remaining, // Derived remainder
		"isPro":     quota.IsPro,     // Pro flag
	}
}

// RegisterHandler creates a new user and returns a signed session token
func RegisterHandler(s *store.Store, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "BAD_REQUEST", "message": "Invalid request"})
			return
		}
		// Validate username and password bounds
		if msg := validateCreds(req.Username, req.Password); msg != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "BAD_REQUEST", "message": msg})
			return
		}
		// Hash the password before it ever reaches the store
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			// If hashing fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "SERVER_ERROR", "message": "Registration failed"})
			return
		}
		// Attempt to create the user in the database
		user, err := s.CreateUser(strings.TrimSpace(req.Username), string(hash))
		if err != nil {
			// Duplicate usernames are a client error, everything else is ours
			if errors.Is(err, store.ErrDuplicateUsername) {
				c.JSON(http.StatusConflict, gin.H{"error": "USERNAME_TAKEN", "message": "Username is already registered"})
				return
			}
			logrus.WithFields(logrus.Fields{
				"username": req.Username, // Attempted username
				"error":    err.Error(),  // Error message
			}).Error("Registration failed") // Log registration failure
			c.JSON(http.StatusInternalServerError, gin.H{"error": "SERVER_ERROR", "message": "Registration failed"})
			return
		}
		// Issue the session token
		token, err := utils.GenerateJWT(user.ID, cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour)
		if err != nil {
			// If token generation fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "SERVER_ERROR", "message": "Failed to generate token"})
			return
		}
		resp := gin.H{
			"token": token,             // JWT session token
			"user":  userPayload(user), // Identity plus quota view
		}
		// Warn when the development signing secret is still in use
		if cfg.JWTSecretIsDev {
			resp["warning"] = "JWT_SECRET is not configured; running with the development secret"
		}
		c.JSON(http.StatusOK, resp) // Return the new session
	}
}

// LoginHandler authenticates a user and returns a signed session token
func LoginHandler(s *store.Store, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "BAD_REQUEST", "message": "Invalid request"})
			return
		}
		// Validate username and password bounds
		if msg := validateCreds(req.Username, req.Password); msg != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "BAD_REQUEST", "message": msg})
			return
		}
		// Fetch user from database
		user, err := s.GetByUsername(strings.TrimSpace(req.Username))
		if err != nil {
			// Unknown user and wrong password are indistinguishable to the client
			c.JSON(http.StatusUnauthorized, gin.H{"error": "INVALID_LOGIN", "message": "Invalid username or password"})
			return
		}
		// Compare provided password with stored hash
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "INVALID_LOGIN", "message": "Invalid username or password"})
			return
		}
		// Issue the session token
		token, err := utils.GenerateJWT(user.ID, cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour)
		if err != nil {
			// If token generation fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "SERVER_ERROR", "message": "Failed to generate token"})
			return
		}
		// Return the token and the user with quota view
		c.JSON(http.StatusOK, gin.H{"token": token, "user": userPayload(user)})
	}
}
