package controllers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupAndLogin(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "newcomer")

	body, _ := json.Marshal(map[string]string{
		"username": "newcomer",
		"password": "password123",
	})
	w := env.do(t, http.MethodPost, "/auth/login/", body, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"token"`)
}

func TestLoginBadPassword(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "newcomer")

	body, _ := json.Marshal(map[string]string{
		"username": "newcomer",
		"password": "wrong-password",
	})
	w := env.do(t, http.MethodPost, "/auth/login/", body, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginRedirectsToNext(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "newcomer")

	body, _ := json.Marshal(map[string]string{
		"username": "newcomer",
		"password": "password123",
		"next":     "/follow/",
	})
	w := env.do(t, http.MethodPost, "/auth/login/", body, "")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/follow/", w.Header().Get("Location"))
}

func TestDuplicateUsernameRejected(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "taken")

	body, _ := json.Marshal(map[string]string{
		"username": "taken",
		"email":    "other@example.com",
		"password": "password123",
	})
	w := env.do(t, http.MethodPost, "/auth/signup/", body, "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	env := newTestEnv(t)
	token := env.signup(t, "leaver")

	w := env.do(t, http.MethodGet, "/auth/me/", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/auth/logout/", []byte(`{}`), token)
	require.Equal(t, http.StatusOK, w.Code)

	// The revoked token no longer authenticates; /auth/me/ now redirects.
	w = env.do(t, http.MethodGet, "/auth/me/", nil, token)
	assert.Equal(t, http.StatusFound, w.Code)
}
