package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	InitializeJWT("test-secret-at-least-16-chars")

	token, err := GenerateToken("u1", "a@b.com", "OWNER")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "a@b.com", claims.Email)
	assert.Equal(t, "OWNER", claims.Role)
}

func TestValidateToken_Garbage(t *testing.T) {
	InitializeJWT("test-secret-at-least-16-chars")

	_, err := ValidateToken("not-a-jwt")
	assert.Error(t, err)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	InitializeJWT("test-secret-at-least-16-chars")
	token, err := GenerateToken("u1", "a@b.com", "GUEST")
	require.NoError(t, err)

	InitializeJWT("a-completely-different-secret")
	_, err = ValidateToken(token)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.NoError(t, VerifyPassword("correct horse battery staple", hash))
	assert.Error(t, VerifyPassword("wrong password", hash))
}
