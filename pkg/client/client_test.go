package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authStub(t *testing.T, token string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "secret1" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"message": "Invalid credentials"})
			return
		}
		json.NewEncoder(w).Encode(AuthResponse{
			Token: token,
			User:  User{ID: "user-1", Username: "alice", Email: req.Email},
		})
	})
	mux.HandleFunc("GET /api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+token {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "Authorization token required"})
			return
		}
		json.NewEncoder(w).Encode(User{ID: "user-1", Username: "alice"})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestLoginStoresToken(t *testing.T) {
	server := authStub(t, "tok-123")
	c := New(server.URL)

	resp, err := c.Login(context.Background(), "alice@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", resp.Token)
	assert.Equal(t, "tok-123", c.Token())

	me, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "alice", me.Username)
}

func TestLoginFailure(t *testing.T) {
	server := authStub(t, "tok-123")
	c := New(server.URL)

	_, err := c.Login(context.Background(), "alice@example.com", "wrong")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Invalid credentials", apiErr.Message)
	assert.Empty(t, c.Token(), "failed logins leave no session behind")
}

func TestUnauthorizedTearsDownSession(t *testing.T) {
	server := authStub(t, "tok-123")

	hookFired := 0
	c := New(server.URL, WithUnauthorizedHook(func() { hookFired++ }))

	_, err := c.Login(context.Background(), "alice@example.com", "secret1")
	require.NoError(t, err)
	require.Equal(t, "tok-123", c.Token())

	// Simulate server-side expiry: the stored token is no longer accepted.
	c.tokens.SetToken("tok-expired")
	_, err = c.Me(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Empty(t, c.Token(), "401 clears the stored token")
	assert.Equal(t, 1, hookFired, "hook fires once per rejected request")

	// The next request goes out without a stale credential.
	_, err = c.Me(context.Background())
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 2, hookFired)
}

func TestLogout(t *testing.T) {
	hookFired := 0
	c := New("http://localhost:0", WithUnauthorizedHook(func() { hookFired++ }))
	c.tokens.SetToken("tok-123")

	c.Logout()
	assert.Empty(t, c.Token())
	assert.Equal(t, 1, hookFired)
}

func TestErrorMessageFallback(t *testing.T) {
	// A server error without a JSON body falls back to the per-call message.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	c := New(server.URL)
	_, err := c.ListForms(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "Failed to fetch forms", apiErr.Message)
}

func TestTransportErrorWrapsFallback(t *testing.T) {
	c := New("http://127.0.0.1:1") // nothing listens here

	_, err := c.Me(context.Background())
	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr), "transport failures are not APIErrors")
	assert.Contains(t, err.Error(), "Failed to get user data")
}

func TestSubmitResponseWithoutSession(t *testing.T) {
	var sawAuth bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawAuth = r.Header.Get("Authorization") != ""
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(SubmitResult{Message: "Thank you for your feedback!"})
	}))
	t.Cleanup(server.Close)

	c := New(server.URL)
	result, err := c.SubmitResponse(context.Background(), "meetup-feedback", Answers{1: 5})
	require.NoError(t, err)
	assert.Equal(t, "Thank you for your feedback!", result.Message)
	assert.False(t, sawAuth, "anonymous submissions carry no credential")
}

func TestMemoryTokenStore(t *testing.T) {
	store := &MemoryTokenStore{}
	assert.Empty(t, store.Token())
	store.SetToken("tok")
	assert.Equal(t, "tok", store.Token())
	store.Clear()
	assert.Empty(t, store.Token())
}
