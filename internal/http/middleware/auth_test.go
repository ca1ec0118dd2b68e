package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pravacash/internal/auth"
	"pravacash/internal/models"
)

func authedRequest(t *testing.T, tokens *auth.TokenService, ident models.Identity) *http.Request {
	t.Helper()
	token, err := tokens.Issue(ident, time.Minute)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/api/transactions", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestAuthInjectsIdentity(t *testing.T) {
	tokens := auth.NewTokenService("test-secret")

	var got models.Identity
	handler := Auth(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident, ok := IdentityFromContext(r.Context())
		require.True(t, ok)
		got = ident
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(t, tokens, models.Identity{OwnerID: "alice", Role: models.RoleUser}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", got.OwnerID)
	assert.Equal(t, models.RoleUser, got.Role)
}

func TestAuthRejectsMissingOrBadTokens(t *testing.T) {
	tokens := auth.NewTokenService("test-secret")
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a valid token")
	})
	handler := Auth(tokens)(next)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not-a-jwt"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/transactions", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestAuthRejectsForeignSecret(t *testing.T) {
	tokens := auth.NewTokenService("test-secret")
	foreign := auth.NewTokenService("other-secret")

	handler := Auth(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with a foreign-signed token")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(t, foreign, models.Identity{OwnerID: "alice", Role: models.RoleUser}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	tokens := auth.NewTokenService("test-secret")
	handler := Auth(tokens)(RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(t, tokens, models.Identity{OwnerID: "root", Role: models.RoleAdmin}))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(t, tokens, models.Identity{OwnerID: "alice", Role: models.RoleUser}))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
