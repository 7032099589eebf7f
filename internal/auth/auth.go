// ============================================================================
// internal/auth/auth.go
// JWT verification middleware producing the authenticated actor context.
// Token issuance (login, password hashing) lives in the external auth
// service; this package only consumes its tokens.
// ============================================================================

package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"internhub/internal/gateway/util"
)

// Context is the authenticated actor attached to every request
type Context struct {
	ActorID string
	Role    string // training-office, committee, faculty, student
	Name    string
}

// Claims mirrors the JWT payload issued by the auth service
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

type contextKey struct{}

// Middleware validates the bearer token and injects the actor Context into
// the request context.
func Middleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 1. Extract Token
			tokenStr, err := ExtractToken(r)
			if err != nil {
				util.WriteJSONError(w, http.StatusUnauthorized, "Authorization token required")
				return
			}

			// 2. Parse and Verify Signature
			claims, err := ParseToken(tokenStr, jwtSecret)
			if err != nil {
				util.WriteJSONError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			// 3. Inject Actor into Context
			actor := Context{ActorID: claims.UserID, Role: claims.Role, Name: claims.Name}
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

// ExtractToken extracts the token from the Authorization header (Bearer <token>)
func ExtractToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errors.New("authorization header missing")
	}

	// Expect header: "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", errors.New("invalid authorization header format")
	}

	return parts[1], nil
}

// ParseToken validates the JWT signature and extracts claims
func ParseToken(tokenString, jwtSecret string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// WithActor attaches the actor to a context
func WithActor(ctx context.Context, actor Context) context.Context {
	return context.WithValue(ctx, contextKey{}, actor)
}

// ActorFromContext retrieves the authenticated actor, if any
func ActorFromContext(ctx context.Context) (Context, bool) {
	actor, ok := ctx.Value(contextKey{}).(Context)
	return actor, ok
}
