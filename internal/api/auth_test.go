package api

import (
	"net/http"
	"testing"
	"wenxing_backend/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterLoginMeScenario(t *testing.T) {
	s := newTestStore(t)
	cfg := testConfig()
	r := newRouter(s, cfg)

	// Register alice
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", `{"username":"alice","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	require.NotEmpty(t, body["token"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "alice", user["username"])
	assert.Equal(t, float64(3), user["total"])
	assert.Equal(t, float64(0), user["used"])
	assert.Equal(t, float64(3), user["remaining"])
	assert.Equal(t, false, user["isPro"])

	// Login returns a token verifying to the same user id
	w = doJSON(t, r, http.MethodPost, "/api/auth/login", `{"username":"alice","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	token := body["token"].(string)
	claims, err := utils.ParseJWT(token, cfg.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(user["id"].(float64)), claims.UserID)

	// /api/me returns the fresh quota view
	w = doJSON(t, r, http.MethodGet, "/api/me", "", token)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode(t, w)
	assert.Equal(t, "alice", me["username"])
	assert.Equal(t, float64(3), me["total"])
	assert.Equal(t, float64(0), me["used"])
	assert.Equal(t, float64(3), me["remaining"])
}

func TestRegisterDuplicateUsername(t *testing.T) {
	s := newTestStore(t)
	r := newRouter(s, testConfig())

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", `{"username":"alice","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/register", `{"username":"alice","password":"secret2"}`, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "USERNAME_TAKEN", decode(t, w)["error"])

	// The failed registration created no row
	users, err := s.ListUsers()
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestRegisterValidation(t *testing.T) {
	r := newRouter(newTestStore(t), testConfig())

	cases := []struct {
		name string
		body string
	}{
		{"missing fields", `{"username":"alice"}`},
		{"short username", `{"username":"al","password":"secret1"}`},
		{"long username", `{"username":"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa","password":"secret1"}`},
		{"short password", `{"username":"alice","password":"12345"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPost, "/api/auth/register", tc.body, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "BAD_REQUEST", decode(t, w)["error"])
		})
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	s := newTestStore(t)
	r := newRouter(s, testConfig())

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", `{"username":"alice","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, w.Code)

	// Wrong password
	w = doJSON(t, r, http.MethodPost, "/api/auth/login", `{"username":"alice","password":"wrongpass"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_LOGIN", decode(t, w)["error"])

	// Unknown user looks identical
	w = doJSON(t, r, http.MethodPost, "/api/auth/login", `{"username":"nobody","password":"secret1"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_LOGIN", decode(t, w)["error"])
}

func TestMeRequiresToken(t *testing.T) {
	r := newRouter(newTestStore(t), testConfig())

	w := doJSON(t, r, http.MethodGet, "/api/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", decode(t, w)["error"])

	w = doJSON(t, r, http.MethodGet, "/api/me", "", "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
