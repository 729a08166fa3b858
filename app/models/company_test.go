package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompanyIssueAPIKey(t *testing.T) {
	co := &Company{Name: "Outdoor Media GmbH"}

	key, err := co.IssueAPIKey()
	require.NoError(t, err)
	require.NotEmpty(t, key)

	assert.True(t, strings.HasPrefix(key, "adb_"))
	assert.NotEmpty(t, co.APIKeyHash)
	assert.NotEmpty(t, co.APIKeyPrefix)
	assert.NotNil(t, co.APIKeyCreatedAt)
	assert.Nil(t, co.APIKeyLastUsedAt)
	assert.True(t, co.HasActiveAPIKey())
	assert.Equal(t, HashAPIKey(key), co.APIKeyHash)
}

func TestCompanyRevokeAPIKey(t *testing.T) {
	co := &Company{Name: "Outdoor Media GmbH"}
	_, err := co.IssueAPIKey()
	require.NoError(t, err)

	co.RevokeAPIKey()

	assert.False(t, co.HasActiveAPIKey())
	assert.Equal(t, "", co.APIKeyHash)
	assert.Equal(t, "", co.APIKeyPrefix)
	assert.NotNil(t, co.APIKeyRevokedAt)
}

func TestHashAPIKeyTrimsWhitespace(t *testing.T) {
	assert.Equal(t, HashAPIKey("adb_abc"), HashAPIKey("  adb_abc\n"))
}
