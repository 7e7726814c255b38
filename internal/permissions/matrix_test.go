package permissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionSetGet(t *testing.T) {
	a := ActionSet{View: true, Edit: true}

	assert.True(t, a.Get(ActionView))
	assert.False(t, a.Get(ActionAdd))
	assert.True(t, a.Get(ActionEdit))
	assert.False(t, a.Get(ActionDelete))

	// 未知操作名一律false
	assert.False(t, a.Get("execute"))
	assert.False(t, a.Get(""))
}

func TestActionSetAny(t *testing.T) {
	assert.False(t, ActionSet{}.Any())
	assert.True(t, ActionSet{Delete: true}.Any())
	assert.True(t, AllTrue().Any())
	assert.True(t, ViewOnly().Any())
}

func TestEmptyMatrixCoversCatalog(t *testing.T) {
	m := EmptyMatrix()

	for _, mod := range Catalog() {
		features, ok := m[mod.Code]
		require.True(t, ok, "缺少模块 %s", mod.Code)
		for _, f := range mod.Features {
			actions, ok := features[f.Code]
			require.True(t, ok, "缺少功能 %s.%s", mod.Code, f.Code)
			assert.False(t, actions.Any(), "%s.%s 应为全false", mod.Code, f.Code)
		}
	}
}

func TestMatrixClone(t *testing.T) {
	m := DefaultMatrix(RoleSales)
	clone := m.Clone()

	assert.Equal(t, m, clone)

	// 修改克隆不影响原矩阵
	clone[ModuleSales]["myCustomers"] = ActionSet{}
	assert.True(t, m[ModuleSales]["myCustomers"].View)
}

func TestMatrixBackfill(t *testing.T) {
	// 部分矩阵：只有销售模块的一个功能
	partial := Matrix{
		ModuleSales: {
			"myCustomers": AllTrue(),
		},
	}

	filled := partial.Backfill()

	// 保留已有取值
	assert.Equal(t, AllTrue(), filled[ModuleSales]["myCustomers"])

	// 缺失键补为false
	assert.Equal(t, ActionSet{}, filled[ModuleSales]["myOrders"])
	assert.Equal(t, ActionSet{}, filled[ModuleDashboard][ModuleAccessFeature])

	// 键完整
	for _, mod := range Catalog() {
		require.Contains(t, filled, mod.Code)
		for _, f := range mod.Features {
			require.Contains(t, filled[mod.Code], f.Code)
		}
	}
}

func TestMatrixBackfillDropsUnknownKeys(t *testing.T) {
	stale := Matrix{
		"legacyModule": {
			"legacyFeature": AllTrue(),
		},
		ModuleSales: {
			"removedFeature": AllTrue(),
			"myOrders":       ViewOnly(),
		},
	}

	filled := stale.Backfill()

	assert.NotContains(t, filled, "legacyModule")
	assert.NotContains(t, filled[ModuleSales], "removedFeature")
	assert.Equal(t, ViewOnly(), filled[ModuleSales]["myOrders"])
}
