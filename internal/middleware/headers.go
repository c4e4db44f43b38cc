package middleware

import (
	"regexp"  // Static asset matching
	"strings" // Path suffix checks

	"github.com/gin-gonic/gin" // Gin web framework
)

// staticAssetRe matches cacheable static asset paths
var staticAssetRe = regexp.MustCompile(`\.(js|css|png|jpg|jpeg|gif|svg|ico|woff2?)$`)

// SecurityHeaders sets baseline security headers and cache policy on every response
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")                  // Block MIME sniffing
		c.Header("X-Frame-Options", "SAMEORIGIN")                      // Block cross-origin framing
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin") // Limit referrer leakage
		path := c.Request.URL.Path
		// HTML pages are never cached so meta updates take effect immediately
		if path == "/" || strings.HasSuffix(path, ".html") {
			c.Header("Cache-Control", "no-cache, must-revalidate")
		}
		// Static assets cache for 7 days
		if staticAssetRe.MatchString(strings.ToLower(path)) {
			c.Header("Cache-Control", "public, max-age=604800")
		}
		c.Next() // Proceed to the next handler
	}
}
