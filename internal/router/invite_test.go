package router

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignThenVerifyRoundTrip(t *testing.T) {
	s := NewInviteSigner("secret", time.Hour)
	token, err := s.Sign("TEAM1", "JS1")
	require.NoError(t, err)

	teamID, playerID, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "TEAM1", teamID)
	assert.Equal(t, "JS1", playerID)
}

func TestVerifyRejectsTokenSignedWithDifferentSecret(t *testing.T) {
	s1 := NewInviteSigner("secret-one", time.Hour)
	s2 := NewInviteSigner("secret-two", time.Hour)

	token, err := s1.Sign("TEAM1", "JS1")
	require.NoError(t, err)

	_, _, err = s2.Verify(token)
	assert.Error(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	s := NewInviteSigner("secret", -time.Hour)
	token, err := s.Sign("TEAM1", "JS1")
	require.NoError(t, err)

	_, _, err = s.Verify(token)
	assert.Error(t, err)
}

func TestSignRejectsEmptyIdentifiers(t *testing.T) {
	s := NewInviteSigner("secret", time.Hour)
	_, err := s.Sign("", "JS1")
	assert.Error(t, err)
	_, err = s.Sign("TEAM1", "")
	assert.Error(t, err)
}
