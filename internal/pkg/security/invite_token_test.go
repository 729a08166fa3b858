package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInviteTokenRoundTrip(t *testing.T) {
	token, err := GenerateInviteToken(42, "new.hire@example.com", "manager", time.Hour, "s3cret")
	require.NoError(t, err)

	claims, err := VerifyInviteToken(token, "s3cret")
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.CompanyID)
	assert.Equal(t, "new.hire@example.com", claims.Email)
	assert.Equal(t, "manager", claims.Role)
}

func TestInviteTokenWrongSecret(t *testing.T) {
	token, err := GenerateInviteToken(42, "new.hire@example.com", "viewer", time.Hour, "s3cret")
	require.NoError(t, err)

	_, err = VerifyInviteToken(token, "other")
	assert.Error(t, err)
}

func TestInviteTokenExpired(t *testing.T) {
	token, err := GenerateInviteToken(42, "new.hire@example.com", "viewer", -time.Minute, "s3cret")
	require.NoError(t, err)

	_, err = VerifyInviteToken(token, "s3cret")
	assert.EqualError(t, err, "token expired")
}

func TestInviteTokenMalformed(t *testing.T) {
	_, err := VerifyInviteToken("not-a-token", "s3cret")
	assert.Error(t, err)
}
