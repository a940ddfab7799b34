package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_RoundTrip(t *testing.T) {
	s := New("secret", time.Hour)

	token, err := s.GenerateToken(7, "admin")
	require.NoError(t, err)

	claims, err := s.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestService_WrongSecret(t *testing.T) {
	token, err := New("one", time.Hour).GenerateToken(1, "admin")
	require.NoError(t, err)

	_, err = New("two", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_Expired(t *testing.T) {
	s := New("secret", -time.Minute)
	token, err := s.GenerateToken(1, "admin")
	require.NoError(t, err)

	_, err = s.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
