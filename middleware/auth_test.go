package middleware

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/require"

	"github.com/widgetly/chat-api/common/config"
)

func signTestToken(t *testing.T, secret string, claims dashboardClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestParseDashboardToken(t *testing.T) {
	originalSecret := config.JWTSecret
	config.JWTSecret = "test-secret"
	t.Cleanup(func() { config.JWTSecret = originalSecret })

	claims := dashboardClaims{
		UserId:   42,
		Username: "alice",
		Role:     100,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		},
	}

	got, err := parseDashboardToken(signTestToken(t, "test-secret", claims))
	require.NoError(t, err)
	require.Equal(t, 42, got.UserId)
	require.Equal(t, "alice", got.Username)
	require.Equal(t, 100, got.Role)
}

func TestParseDashboardTokenRejectsBadSignature(t *testing.T) {
	originalSecret := config.JWTSecret
	config.JWTSecret = "test-secret"
	t.Cleanup(func() { config.JWTSecret = originalSecret })

	token := signTestToken(t, "wrong-secret", dashboardClaims{
		UserId: 1,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		},
	})
	_, err := parseDashboardToken(token)
	require.Error(t, err)
}

func TestParseDashboardTokenRejectsExpired(t *testing.T) {
	originalSecret := config.JWTSecret
	config.JWTSecret = "test-secret"
	t.Cleanup(func() { config.JWTSecret = originalSecret })

	token := signTestToken(t, "test-secret", dashboardClaims{
		UserId: 1,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(-time.Hour).Unix(),
		},
	})
	_, err := parseDashboardToken(token)
	require.Error(t, err)
}
