package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerify(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)

	token, err := manager.GenerateToken(42, 3, "zhangsan", "sales", false)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.VerifyToken(token)
	require.NoError(t, err)

	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, uint(3), claims.CompanyID)
	assert.Equal(t, "zhangsan", claims.Username)
	assert.Equal(t, "sales", claims.Role)
	assert.False(t, claims.IsSuperAdmin)
	assert.NotEmpty(t, claims.ID, "jti用于登出吊销，必须存在")
	assert.Equal(t, "MFERP", claims.Issuer)
}

func TestVerifyTamperedToken(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)

	token, err := manager.GenerateToken(1, 1, "zhangsan", "sales", false)
	require.NoError(t, err)

	_, err = manager.VerifyToken(token + "x")
	assert.Error(t, err)
}

func TestVerifyWrongSecret(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)
	other := NewJWTManager("other-secret", time.Hour)

	token, err := manager.GenerateToken(1, 1, "zhangsan", "sales", false)
	require.NoError(t, err)

	_, err = other.VerifyToken(token)
	assert.Error(t, err)
}

func TestVerifyExpiredToken(t *testing.T) {
	manager := NewJWTManager("test-secret", -time.Minute)

	token, err := manager.GenerateToken(1, 1, "zhangsan", "sales", false)
	require.NoError(t, err)

	_, err = manager.VerifyToken(token)
	assert.Error(t, err)
}

func TestRefreshIssuesNewJTI(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)

	token, err := manager.GenerateToken(42, 3, "zhangsan", "sales", false)
	require.NoError(t, err)

	refreshed, err := manager.RefreshToken(token)
	require.NoError(t, err)

	oldClaims, err := manager.VerifyToken(token)
	require.NoError(t, err)
	newClaims, err := manager.VerifyToken(refreshed)
	require.NoError(t, err)

	assert.Equal(t, oldClaims.UserID, newClaims.UserID)
	assert.Equal(t, oldClaims.Role, newClaims.Role)
	assert.NotEqual(t, oldClaims.ID, newClaims.ID, "刷新必须签发新jti，否则旧令牌吊销会波及新令牌")
}
