package permissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindModule(t *testing.T) {
	mod, ok := FindModule(ModuleSales)
	require.True(t, ok)
	assert.Equal(t, ModuleSales, mod.Code)
	assert.False(t, mod.ModuleLevel)

	mod, ok = FindModule(ModuleDashboard)
	require.True(t, ok)
	assert.True(t, mod.ModuleLevel)

	_, ok = FindModule("reporting")
	assert.False(t, ok)
}

func TestHasFeature(t *testing.T) {
	assert.True(t, HasFeature(ModuleSales, "myCustomers"))
	assert.True(t, HasFeature(ModuleDashboard, ModuleAccessFeature))
	assert.False(t, HasFeature(ModuleSales, "salesApproval"))
	assert.False(t, HasFeature("reporting", "summary"))
}

func TestValidAction(t *testing.T) {
	for _, a := range []string{ActionView, ActionAdd, ActionEdit, ActionDelete} {
		assert.True(t, ValidAction(a))
	}
	assert.False(t, ValidAction("execute"))
	assert.False(t, ValidAction(""))
}

func TestModuleLevelModulesUseAccessFeature(t *testing.T) {
	// 模块粒度模块只有隐式access一个功能
	for _, mod := range Catalog() {
		if !mod.ModuleLevel {
			continue
		}
		require.Len(t, mod.Features, 1, "模块 %s", mod.Code)
		assert.Equal(t, ModuleAccessFeature, mod.Features[0].Code)
	}
}

func TestCatalogFor(t *testing.T) {
	// 超级管理员看到完整目录
	assert.Equal(t, Catalog(), CatalogFor(RoleSuperAdmin))

	// 销售：工作台+销售+客户
	codes := moduleCodes(CatalogFor(RoleSales))
	assert.Equal(t, []string{ModuleDashboard, ModuleSales, ModuleCustomers}, codes)

	// 未知角色只看到工作台
	codes = moduleCodes(CatalogFor("intern"))
	assert.Equal(t, []string{ModuleDashboard}, codes)
}

func moduleCodes(mods []ModuleDescriptor) []string {
	codes := make([]string, 0, len(mods))
	for _, m := range mods {
		codes = append(codes, m.Code)
	}
	return codes
}
