package models

import (
	"testing"

	"mferp/internal/permissions"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserPassword(t *testing.T) {
	user := &User{}
	require.NoError(t, user.SetPassword("Secret@123"))

	assert.NotEqual(t, "Secret@123", user.PasswordHash)
	assert.True(t, user.CheckPassword("Secret@123"))
	assert.False(t, user.CheckPassword("wrong"))
}

func TestUserIsSuperAdmin(t *testing.T) {
	assert.True(t, (&User{Role: permissions.RoleSuperAdmin}).IsSuperAdmin())
	assert.False(t, (&User{Role: permissions.RoleUnitHead}).IsSuperAdmin())
	assert.False(t, (&User{Role: "admin"}).IsSuperAdmin())
}

func TestUserMatrixRoundTrip(t *testing.T) {
	user := &User{Role: permissions.RoleSales}
	user.SetMatrix(permissions.DefaultMatrix(permissions.RoleSales))

	m := user.Matrix()
	assert.True(t, permissions.Can(m, permissions.ModuleSales, "myCustomers", permissions.ActionView))
	assert.False(t, permissions.Can(m, permissions.ModuleAccounts, "ledger", permissions.ActionView))
}

func TestUserMatrixEmptyWhenUnset(t *testing.T) {
	// 未写入矩阵的账号读出键完整、全false的矩阵
	user := &User{Role: permissions.RoleSales}

	m := user.Matrix()
	require.NotNil(t, m)
	for _, mod := range permissions.Catalog() {
		require.Contains(t, m, mod.Code)
	}
	assert.False(t, permissions.Can(m, permissions.ModuleSales, "myCustomers", permissions.ActionView))
}

func TestUserMatrixBackfillsStaleStorage(t *testing.T) {
	// 目录演进后读取旧账号：缺键补false，多余键丢弃
	user := &User{Role: permissions.RoleSales}
	user.SetMatrix(permissions.Matrix{
		permissions.ModuleSales: {
			"myOrders":       permissions.AllTrue(),
			"removedFeature": permissions.AllTrue(),
		},
	})

	m := user.Matrix()
	assert.True(t, permissions.Can(m, permissions.ModuleSales, "myOrders", permissions.ActionEdit))
	assert.NotContains(t, m[permissions.ModuleSales], "removedFeature")
	assert.Contains(t, m, permissions.ModuleDashboard)
}
