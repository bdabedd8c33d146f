package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goodtime-diagnostic/internal/model"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	auth := NewAuthService("secret", time.Hour)

	token, err := auth.GenerateSessionToken("session-1")
	require.NoError(t, err)

	claims, err := auth.ValidateSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, "session-1", claims.SessionID)
}

func TestSessionTokenRejected(t *testing.T) {
	auth := NewAuthService("secret", time.Hour)
	token, err := auth.GenerateSessionToken("session-1")
	require.NoError(t, err)

	t.Run("other secret", func(t *testing.T) {
		_, err := NewAuthService("other", time.Hour).ValidateSessionToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		late := NewAuthService("secret", time.Hour)
		late.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := late.ValidateSessionToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := auth.ValidateSessionToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("no session id", func(t *testing.T) {
		raw := jwt.NewWithClaims(jwt.SigningMethodHS256, &model.SessionClaims{
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		})
		signed, err := raw.SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = auth.ValidateSessionToken(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
