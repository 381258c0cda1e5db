package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)
	now := time.Now()

	token, claims, err := svc.GenerateToken(42, "alice", now)
	require.NoError(t, err)
	assert.NotEmpty(t, claims.ID)

	got, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 42, got.UserID)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, claims.ID, got.ID)
	assert.WithinDuration(t, now.Add(time.Hour), got.ExpiresAt, time.Second)

	other, _, err := svc.GenerateToken(42, "alice", now)
	require.NoError(t, err)
	assert.NotEqual(t, token, other, "each token has its own jti")
}

func TestValidateTokenRejects(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)

	expired, _, err := svc.GenerateToken(1, "a", time.Now().Add(-2*time.Hour))
	require.NoError(t, err)
	_, err = svc.ValidateToken(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	foreign, _, err := NewJWTService("other", time.Hour).GenerateToken(1, "a", time.Now())
	require.NoError(t, err)
	_, err = svc.ValidateToken(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"user_id": 1, "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.ValidateToken(none)
	assert.ErrorIs(t, err, ErrInvalidToken)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": 1}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(noExp)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateToken("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDefaultTTL(t *testing.T) {
	assert.Equal(t, 72*time.Hour, NewJWTService("s", 0).TTL())
}
