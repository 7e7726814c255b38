package permissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanMissingKeysDenied(t *testing.T) {
	tests := []struct {
		name    string
		matrix  Matrix
		module  string
		feature string
		action  string
	}{
		{"空矩阵", Matrix{}, ModuleSales, "myCustomers", ActionView},
		{"nil矩阵", nil, ModuleSales, "myCustomers", ActionView},
		{"模块缺失", Matrix{ModuleOrders: {}}, ModuleSales, "myCustomers", ActionView},
		{"功能缺失", Matrix{ModuleSales: {"myOrders": AllTrue()}}, ModuleSales, "myCustomers", ActionView},
		{"未知操作", Matrix{ModuleSales: {"myCustomers": AllTrue()}}, ModuleSales, "myCustomers", "execute"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, Can(tt.matrix, tt.module, tt.feature, tt.action))
		})
	}
}

func TestCanReadsFlagsLiterally(t *testing.T) {
	// edit为true不意味着view为true，按字面取值
	m := Matrix{
		ModuleSales: {
			"myOrders": {Edit: true},
		},
	}

	assert.True(t, Can(m, ModuleSales, "myOrders", ActionEdit))
	assert.False(t, Can(m, ModuleSales, "myOrders", ActionView))
	assert.False(t, Can(m, ModuleSales, "myOrders", ActionAdd))
	assert.False(t, Can(m, ModuleSales, "myOrders", ActionDelete))
}

func TestCanModule(t *testing.T) {
	m := Matrix{
		ModuleCustomers: {
			ModuleAccessFeature: {View: true, Add: true},
		},
	}

	assert.True(t, CanModule(m, ModuleCustomers, ActionView))
	assert.True(t, CanModule(m, ModuleCustomers, ActionAdd))
	assert.False(t, CanModule(m, ModuleCustomers, ActionDelete))
	assert.False(t, CanModule(m, ModuleInventory, ActionView))
}

func TestCanAccessModuleDerivedFromFeatures(t *testing.T) {
	m := EmptyMatrix()

	// 全false模块不可见
	assert.False(t, CanAccessModule(m, ModuleDispatch))

	// 任意一个功能任意一个操作为true即可见
	m[ModuleDispatch]["pendingDispatch"] = ActionSet{Delete: true}
	assert.True(t, CanAccessModule(m, ModuleDispatch))

	// 未知模块不可见
	assert.False(t, CanAccessModule(m, "reporting"))
}

func TestCanAccessModuleModuleLevel(t *testing.T) {
	m := EmptyMatrix()
	assert.False(t, CanAccessModule(m, ModuleCustomers))

	m[ModuleCustomers][ModuleAccessFeature] = ViewOnly()
	assert.True(t, CanAccessModule(m, ModuleCustomers))
}

func TestIsSuperRole(t *testing.T) {
	assert.True(t, IsSuperRole(RoleSuperAdmin))

	for _, role := range []string{
		RoleUnitHead, RoleUnitManager, RoleSales, RoleProduction,
		RoleDispatch, RolePacking, RoleAccounts, "admin", "SUPER_ADMIN", "",
	} {
		assert.False(t, IsSuperRole(role), "角色 %q 不应是超级管理员", role)
	}
}

func TestKnownRole(t *testing.T) {
	assert.True(t, KnownRole(RoleSales))
	assert.True(t, KnownRole(RoleSuperAdmin))
	assert.False(t, KnownRole("intern"))
	assert.False(t, KnownRole(""))
}
