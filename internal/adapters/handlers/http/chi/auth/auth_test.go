package auth_test

import (
	"io"
	"log/slog"
	"media-pipeline/internal/adapters/handlers/http/chi/auth"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticator(t *testing.T) {
	secret := []byte("test-secret")
	discardLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := auth.Authenticator(secret, discardLogger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strconv.FormatInt(auth.ActorIDFromContext(r.Context()), 10)))
	}))

	sign := func(claims jwt.Claims, method jwt.SigningMethod, key any) string {
		token, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return token
	}
	valid, err := auth.IssueToken(secret, 42, time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name     string
		header   string
		wantCode int
		wantBody string
	}{
		{"valid token", "Bearer " + valid, http.StatusOK, "42"},
		{"missing header", "", http.StatusUnauthorized, ""},
		{"not bearer", "Basic abc", http.StatusUnauthorized, ""},
		{"wrong secret", "Bearer " + sign(jwt.RegisteredClaims{Subject: "42", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute))}, jwt.SigningMethodHS256, []byte("other")), http.StatusUnauthorized, ""},
		{"expired", "Bearer " + sign(jwt.RegisteredClaims{Subject: "42", ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))}, jwt.SigningMethodHS256, secret), http.StatusUnauthorized, ""},
		{"no expiry", "Bearer " + sign(jwt.RegisteredClaims{Subject: "42"}, jwt.SigningMethodHS256, secret), http.StatusUnauthorized, ""},
		{"zero subject", "Bearer " + sign(jwt.RegisteredClaims{Subject: "0", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute))}, jwt.SigningMethodHS256, secret), http.StatusUnauthorized, ""},
		{"non numeric subject", "Bearer " + sign(jwt.RegisteredClaims{Subject: "bob", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute))}, jwt.SigningMethodHS256, secret), http.StatusUnauthorized, ""},
		{"other algorithm", "Bearer " + sign(jwt.RegisteredClaims{Subject: "42", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute))}, jwt.SigningMethodHS512, secret), http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			// Act
			handler.ServeHTTP(w, req)

			// Assert
			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}
}
