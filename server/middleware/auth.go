package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	log "github.com/sirupsen/logrus"
)

type contextKey string

const identityKey contextKey = "identity"

// TokenTTL is how long a session token issued at login stays valid
const TokenTTL = 24 * time.Hour

// Identity is the authenticated caller attached to the request context
type Identity struct {
	AccountID  int64
	ExternalID string
	Username   string
}

// Claims is the JWT payload issued at login
type Claims struct {
	jwt.RegisteredClaims
	AccountID  int64  `json:"account_id"`
	ExternalID string `json:"external_id"`
	Username   string `json:"username,omitempty"`
}

// IssueToken signs a session token for an authenticated account
func IssueToken(secret string, accountID int64, externalID, username string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   externalID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
		AccountID:  accountID,
		ExternalID: externalID,
		Username:   username,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifyToken parses and validates a session token
func VerifyToken(secret, tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	return claims, nil
}

// Authenticate requires a valid Bearer session token and attaches the caller
// identity to the request context
func Authenticate(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				http.Error(w, `{"error":"missing bearer token"}`, http.StatusUnauthorized)
				return
			}

			claims, err := VerifyToken(secret, strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				log.WithError(err).Debug("rejected session token")
				http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
				return
			}

			identity := &Identity{
				AccountID:  claims.AccountID,
				ExternalID: claims.ExternalID,
				Username:   claims.Username,
			}
			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin allows only callers whose external id passes the check.
// Must run after Authenticate.
func RequireAdmin(isAdmin func(externalID string) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok || !isAdmin(identity.ExternalID) {
				http.Error(w, `{"error":"admin access required"}`, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IdentityFromContext returns the authenticated caller, if any
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*Identity)
	return identity, ok
}
