package permissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMatrixDeterministic(t *testing.T) {
	for role := range RoleNames {
		assert.Equal(t, DefaultMatrix(role), DefaultMatrix(role), "角色 %s 的默认矩阵应确定", role)
	}
}

func TestDefaultMatrixSuperAdminAllFalse(t *testing.T) {
	// 超级管理员走角色旁路，存储矩阵保持全false
	m := DefaultMatrix(RoleSuperAdmin)
	for mod, features := range m {
		for f, actions := range features {
			assert.False(t, actions.Any(), "%s.%s 应为全false", mod, f)
		}
	}
}

func TestDefaultMatrixSales(t *testing.T) {
	m := DefaultMatrix(RoleSales)

	// 本模块全权
	assert.True(t, Can(m, ModuleSales, "myCustomers", ActionView))
	assert.True(t, Can(m, ModuleSales, "myCustomers", ActionDelete))
	assert.True(t, Can(m, ModuleSales, "myOrders", ActionAdd))
	assert.True(t, Can(m, ModuleSales, "myInvoices", ActionEdit))

	// 可维护客户
	assert.True(t, CanModule(m, ModuleCustomers, ActionAdd))

	// 他人的主场模块不可及
	assert.False(t, Can(m, ModuleProduction, "todaysIndents", ActionView))
	assert.False(t, Can(m, ModuleAccounts, "ledger", ActionView))
	assert.False(t, CanAccessModule(m, ModuleDispatch))
}

func TestDefaultMatrixUnitManagerViewOnly(t *testing.T) {
	m := DefaultMatrix(RoleUnitManager)

	// 可看审批队列，但审批动作需管理员显式授予
	assert.True(t, Can(m, ModuleUnitManager, "salesApproval", ActionView))
	assert.False(t, Can(m, ModuleUnitManager, "salesApproval", ActionEdit))
	assert.True(t, Can(m, ModuleUnitManager, "productionApproval", ActionView))
	assert.False(t, Can(m, ModuleUnitManager, "productionApproval", ActionAdd))
}

func TestDefaultMatrixHomeModules(t *testing.T) {
	tests := []struct {
		role    string
		module  string
		feature string
	}{
		{RoleProduction, ModuleProduction, "batchProduction"},
		{RoleDispatch, ModuleDispatch, "createDispatch"},
		{RolePacking, ModulePacking, "packingQueue"},
		{RoleAccounts, ModuleAccounts, "receivables"},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			m := DefaultMatrix(tt.role)
			assert.Equal(t, AllTrue(), m[tt.module][tt.feature])
			assert.True(t, CanAccessModule(m, tt.module))
		})
	}
}

func TestDefaultMatrixUnitHead(t *testing.T) {
	m := DefaultMatrix(RoleUnitHead)

	assert.Equal(t, AllTrue(), m[ModuleOrders][ModuleAccessFeature])
	assert.Equal(t, AllTrue(), m[ModuleCustomers][ModuleAccessFeature])
	assert.Equal(t, ViewOnly(), m[ModuleInventory][ModuleAccessFeature])
	assert.Equal(t, AllTrue(), m[ModuleUnitManager]["salesApproval"])
	assert.Equal(t, ViewOnly(), m[ModuleProduction]["todaysIndents"])
	assert.Equal(t, ViewOnly(), m[ModuleAccounts]["ledger"])
}

func TestDefaultMatrixDashboardVisible(t *testing.T) {
	// 除超级管理员外所有已知角色默认可见工作台
	for role := range RoleNames {
		m := DefaultMatrix(role)
		if role == RoleSuperAdmin {
			assert.False(t, CanAccessModule(m, ModuleDashboard))
			continue
		}
		assert.True(t, CanModule(m, ModuleDashboard, ActionView), "角色 %s 应可见工作台", role)
	}
}

func TestDefaultMatrixUnknownRole(t *testing.T) {
	m := DefaultMatrix("intern")

	// 全false但键完整
	for _, mod := range Catalog() {
		require.Contains(t, m, mod.Code)
		for _, f := range mod.Features {
			assert.False(t, m[mod.Code][f.Code].Any())
		}
	}
}
