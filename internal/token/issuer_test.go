package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClaims() Claims {
	return Claims{
		UserID:      "64f1a2b3c4d5e6f7a8b9c0d1",
		Email:       "cook@example.com",
		Username:    "cook_42",
		IsActivated: true,
		Roles:       []string{"USER"},
		Sex:         "secret",
	}
}

func TestGenerateTokens_RoundTrip(t *testing.T) {
	issuer := NewIssuer("access-secret", "refresh-secret", 15*time.Minute, 30*24*time.Hour)

	access, refresh, err := issuer.GenerateTokens(testClaims())
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	assert.NotEqual(t, access, refresh)

	accessClaims := issuer.ValidateAccessToken(access)
	require.NotNil(t, accessClaims)
	assert.Equal(t, "64f1a2b3c4d5e6f7a8b9c0d1", accessClaims.UserID)
	assert.Equal(t, "cook@example.com", accessClaims.Email)
	assert.Equal(t, "cook_42", accessClaims.Username)
	assert.True(t, accessClaims.IsActivated)
	assert.Equal(t, []string{"USER"}, accessClaims.Roles)

	refreshClaims := issuer.ValidateRefreshToken(refresh)
	require.NotNil(t, refreshClaims)
	assert.Equal(t, "64f1a2b3c4d5e6f7a8b9c0d1", refreshClaims.UserID)
}

func TestValidate_CrossSecretRejected(t *testing.T) {
	issuer := NewIssuer("access-secret", "refresh-secret", 15*time.Minute, 30*24*time.Hour)

	access, refresh, err := issuer.GenerateTokens(testClaims())
	require.NoError(t, err)

	// a refresh token must never pass as an access token and vice versa
	assert.Nil(t, issuer.ValidateAccessToken(refresh))
	assert.Nil(t, issuer.ValidateRefreshToken(access))
}

func TestValidate_WrongSecret(t *testing.T) {
	issuer := NewIssuer("access-secret", "refresh-secret", 15*time.Minute, 30*24*time.Hour)
	other := NewIssuer("other-access", "other-refresh", 15*time.Minute, 30*24*time.Hour)

	access, refresh, err := issuer.GenerateTokens(testClaims())
	require.NoError(t, err)

	assert.Nil(t, other.ValidateAccessToken(access))
	assert.Nil(t, other.ValidateRefreshToken(refresh))
}

func TestValidate_Expired(t *testing.T) {
	issuer := NewIssuer("access-secret", "refresh-secret", -time.Minute, -time.Minute)

	access, refresh, err := issuer.GenerateTokens(testClaims())
	require.NoError(t, err)

	assert.Nil(t, issuer.ValidateAccessToken(access))
	assert.Nil(t, issuer.ValidateRefreshToken(refresh))
}

func TestValidate_Garbage(t *testing.T) {
	issuer := NewIssuer("access-secret", "refresh-secret", 15*time.Minute, 30*24*time.Hour)

	for _, tokenStr := range []string{"", "not-a-jwt", "a.b.c"} {
		assert.Nil(t, issuer.ValidateAccessToken(tokenStr))
		assert.Nil(t, issuer.ValidateRefreshToken(tokenStr))
	}
}
