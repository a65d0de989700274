package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestTokenRoundtrip(t *testing.T) {
	token, err := IssueToken(testSecret, 7, "100", "alice")
	require.NoError(t, err)

	claims, err := VerifyToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.AccountID)
	assert.Equal(t, "100", claims.ExternalID)
	assert.Equal(t, "alice", claims.Username)

	t.Run("wrong secret rejected", func(t *testing.T) {
		_, err := VerifyToken("other-secret", token)
		assert.Error(t, err)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		_, err := VerifyToken(testSecret, "not.a.token")
		assert.Error(t, err)
	})
}

func TestAuthenticate(t *testing.T) {
	var captured *Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := Authenticate(testSecret)(next)

	t.Run("valid bearer token passes identity through", func(t *testing.T) {
		token, err := IssueToken(testSecret, 7, "100", "alice")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/balance", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, captured)
		assert.Equal(t, int64(7), captured.AccountID)
		assert.Equal(t, "100", captured.ExternalID)
	})

	t.Run("missing header rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/balance", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid token rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/balance", nil)
		req.Header.Set("Authorization", "Bearer bogus")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	isAdmin := func(externalID string) bool { return externalID == "999" }
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := Authenticate(testSecret)(RequireAdmin(isAdmin)(next))

	t.Run("admin allowed", func(t *testing.T) {
		token, err := IssueToken(testSecret, 1, "999", "admin")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/admin/draw", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("non-admin forbidden", func(t *testing.T) {
		token, err := IssueToken(testSecret, 2, "100", "alice")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/admin/draw", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
