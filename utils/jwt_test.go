package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipcraft/viral-production-backend/models"
)

func TestGenerateAndVerifyToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateToken("2b0d7b3d-2c2a-4a7e-9c55-000000000001", "editor@example.com", models.RoleEditor)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := VerifyToken(token)
	require.NoError(t, err)

	// sub là Profile.ID nội bộ
	assert.Equal(t, "2b0d7b3d-2c2a-4a7e-9c55-000000000001", claims.ProfileID())
	assert.Equal(t, "editor@example.com", claims.Email)
	assert.Equal(t, "authenticated", claims.Role)
	assert.Equal(t, models.RoleEditor, claims.AppRole)
	require.NotNil(t, claims.ExpiresAt)
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-a")
	token, err := GenerateToken("id", "a@b.c", models.RoleScriptWriter)
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "secret-b")
	_, err = VerifyToken(token)
	require.Error(t, err)
}

func TestVerifyTokenRejectsNonHMAC(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	// token ký alg=none không được chấp nhận
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "x"})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = VerifyToken(raw)
	require.Error(t, err)
}

func TestVerifyTokenGarbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	_, err := VerifyToken("not-a-token")
	require.Error(t, err)
}
