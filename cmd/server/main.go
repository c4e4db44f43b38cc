package main

import (
	"log"                               // log package is needed for startup logging
	"os"                                // Static file existence checks
	"path/filepath"                     // Static file path resolution
	"wenxing_backend/internal/api"      // Custom package for API handlers
	"wenxing_backend/internal/config"   // Custom package for configuration
	"wenxing_backend/internal/db"       // Custom package for database access
	"wenxing_backend/internal/middleware" // Custom package for middleware
	"wenxing_backend/internal/store"    // Custom package for the user store
	"wenxing_backend/internal/upstream" // Custom package for the AI webhook client

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// Version reported by GET /api/version
const Version = "1.0.0"

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Open the SQLite database and run the schema migration before any
	// request can arrive, so first requests never race schema creation
	conn, err := db.Open(cfg.SQLitePath)
	if err != nil {
		logrus.Fatalf("failed to open DB: %v", err) // Fatal error if DB setup fails
	}
	users := store.New(conn)                               // User store over the opened handle
	webhook := upstream.New(cfg.WebhookURL, cfg.WebhookAPIKey) // AI webhook client

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin; TRUST_PROXY=true trusts the fronting proxy chain
	trusted := []string{"127.0.0.1"}
	if cfg.TrustProxy {
		trusted = nil // Trust all proxies when explicitly enabled
	}
	if err := r.SetTrustedProxies(trusted); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	r.Use(middleware.SecurityHeaders()) // Baseline security and cache headers

	// Version endpoint
	r.GET("/api/version", func(c *gin.Context) {
		c.JSON(200, gin.H{"version": Version}) // Report the build version
	})

	// Auth routes
	r.POST("/api/auth/register", api.RegisterHandler(users, cfg)) // Registration endpoint
	r.POST("/api/auth/login", api.LoginHandler(users, cfg))       // Login endpoint

	// User routes (protected by JWT)
	userGroup := r.Group("/api")
	userGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret)) // Protect user routes with JWT middleware
	userGroup.GET("/me", api.MeHandler(users))                 // Current user endpoint
	userGroup.POST("/ai", api.AIHandler(users, webhook))       // Quota-gated AI endpoint

	// Admin routes
	r.POST("/api/admin/login", api.AdminLoginHandler(cfg)) // Admin login endpoint, shared secret
	adminGroup := r.Group("/api/admin")
	// Protect admin routes with the admin-claim middleware
	adminGroup.Use(middleware.AdminOnlyMiddleware(cfg.JWTSecret))
	adminGroup.GET("/users", api.ListUsersHandler(users)) // List users endpoint
	adminGroup.GET("/db-info", api.DBInfoHandler(cfg))    // Storage configuration endpoint
	adminGroup.POST("/set-pro", api.SetProHandler(users)) // Pro-status mutation endpoint

	// Static site with index.html fallback for unknown paths
	r.NoRoute(func(c *gin.Context) {
		p := filepath.Join(cfg.StaticDir, filepath.Clean(c.Request.URL.Path))
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			c.File(p) // Serve the static asset
			return
		}
		c.File(filepath.Join(cfg.StaticDir, "index.html")) // SPA-ish fallback
	})

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
