package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func testClaims(expiry time.Duration) Claims {
	return Claims{
		UserID: "faculty-001",
		Role:   "faculty",
		Name:   "Dr. Pham",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
}

func TestParseToken(t *testing.T) {
	t.Run("ValidToken", func(t *testing.T) {
		signed := signToken(t, testSecret, testClaims(time.Hour))

		claims, err := ParseToken(signed, testSecret)
		require.NoError(t, err)
		assert.Equal(t, "faculty-001", claims.UserID)
		assert.Equal(t, "faculty", claims.Role)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		signed := signToken(t, "other-secret", testClaims(time.Hour))

		_, err := ParseToken(signed, testSecret)
		require.Error(t, err)
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		signed := signToken(t, testSecret, testClaims(-time.Hour))

		_, err := ParseToken(signed, testSecret)
		require.Error(t, err)
	})
}

func TestExtractToken(t *testing.T) {
	t.Run("BearerHeader", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer abc123")

		token, err := ExtractToken(r)
		require.NoError(t, err)
		assert.Equal(t, "abc123", token)
	})

	t.Run("MissingHeader", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		_, err := ExtractToken(r)
		require.Error(t, err)
	})

	t.Run("MalformedHeader", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "abc123")
		_, err := ExtractToken(r)
		require.Error(t, err)
	})
}

func TestMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, "faculty-001", actor.ActorID)
		assert.Equal(t, "faculty", actor.Role)
		w.WriteHeader(http.StatusOK)
	})
	handler := Middleware(testSecret)(next)

	t.Run("ValidTokenPassesThrough", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, testClaims(time.Hour)))
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("MissingTokenRejected", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("InvalidTokenRejected", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer not-a-token")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
