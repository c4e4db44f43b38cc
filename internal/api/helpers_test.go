package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"wenxing_backend/internal/config"
	"wenxing_backend/internal/db"
	"wenxing_backend/internal/middleware"
	"wenxing_backend/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// newTestStore opens a fresh migrated SQLite database in a temp dir
func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "test.sqlite"))
	require.NoError(t, err)
	return store.New(conn)
}

// testConfig returns a config with fixed secrets for handler tests
func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		JWTTTLHours:      720,
		AdminJWTTTLHours: 12,
		AdminPassword:    "admin-pass",
		SQLitePath:       "test.sqlite",
	}
}

// newRouter wires the full route table the way cmd/server does
func newRouter(s *store.Store, cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/auth/register", RegisterHandler(s, cfg))
	r.POST("/api/auth/login", LoginHandler(s, cfg))

	userGroup := r.Group("/api")
	userGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	userGroup.GET("/me", MeHandler(s))

	r.POST("/api/admin/login", AdminLoginHandler(cfg))
	adminGroup := r.Group("/api/admin")
	adminGroup.Use(middleware.AdminOnlyMiddleware(cfg.JWTSecret))
	adminGroup.GET("/users", ListUsersHandler(s))
	adminGroup.GET("/db-info", DBInfoHandler(cfg))
	adminGroup.POST("/set-pro", SetProHandler(s))
	return r
}

// doJSON performs a JSON request against the router, with an optional bearer token
func doJSON(t *testing.T, r *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf *bytes.Buffer
	if body != "" {
		buf = bytes.NewBufferString(body)
	} else {
		buf = &bytes.Buffer{}
	}
	req, err := http.NewRequest(method, path, buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// decode unmarshals a recorded JSON response body
func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
