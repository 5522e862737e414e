// Package auth verifies bearer tokens and carries the actor id on the request context
package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey struct{}

// Authenticator rejects requests without a valid HS256 bearer token. The token subject is the actor id.
func Authenticator(secret []byte, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actorID, err := parseBearer(r.Header.Get("Authorization"), secret)
			if err != nil {
				logger.Debug("unauthenticated request", "error", err, "path", r.URL.Path)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithActorID(r.Context(), actorID)))
		})
	}
}

// WithActorID stores actorID on ctx
func WithActorID(ctx context.Context, actorID int64) context.Context {
	return context.WithValue(ctx, contextKey{}, actorID)
}

// ActorIDFromContext returns the authenticated actor id, or 0
func ActorIDFromContext(ctx context.Context) int64 {
	id, _ := ctx.Value(contextKey{}).(int64)
	return id
}

// IssueToken signs a token for actorID. Used by tooling and tests.
func IssueToken(secret []byte, actorID int64, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(actorID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func parseBearer(header string, secret []byte) (int64, error) {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" {
		return 0, errors.New("missing bearer token")
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(strings.TrimSpace(raw), claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return 0, err
	}

	actorID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || actorID <= 0 {
		return 0, errors.New("invalid subject")
	}
	return actorID, nil
}
