package permissions

// 按角色生成默认权限矩阵。账号创建和角色变更时整体重新生成，从不与旧矩阵合并。

// roleModules 各角色界面呈现的模块清单（CatalogFor使用）
var roleModules = map[string][]string{
	RoleUnitHead: {
		ModuleDashboard, ModuleOrders, ModuleCustomers, ModuleInventory,
		ModuleUnitManager, ModuleSales, ModuleProduction, ModuleAccounts,
		ModuleDispatch, ModulePacking,
	},
	RoleUnitManager: {ModuleDashboard, ModuleUnitManager},
	RoleSales:       {ModuleDashboard, ModuleSales, ModuleCustomers},
	RoleProduction:  {ModuleDashboard, ModuleProduction},
	RoleDispatch:    {ModuleDashboard, ModuleDispatch},
	RolePacking:     {ModuleDashboard, ModulePacking},
	RoleAccounts:    {ModuleDashboard, ModuleAccounts},
}

// DefaultMatrix 为指定角色生成默认权限矩阵
// 确定性：同一角色每次生成结果一致。未知角色回退为全false，不报错
func DefaultMatrix(role string) Matrix {
	m := EmptyMatrix()

	switch role {
	case RoleSuperAdmin:
		// 超级管理员走角色旁路，存储矩阵保持全false而不是全true

	case RoleUnitHead:
		// 单位负责人：订单/客户全权，其余模块只读
		m.setModule(ModuleOrders, AllTrue())
		m.setModule(ModuleCustomers, AllTrue())
		m.setModule(ModuleInventory, ViewOnly())
		m.setAllFeatures(ModuleUnitManager, AllTrue())
		m.setAllFeatures(ModuleSales, ViewOnly())
		m.setAllFeatures(ModuleProduction, ViewOnly())
		m.setAllFeatures(ModuleAccounts, ViewOnly())
		m.setAllFeatures(ModuleDispatch, ViewOnly())
		m.setAllFeatures(ModulePacking, ViewOnly())

	case RoleUnitManager:
		// 单位经理：本模块只读，审批动作需管理员显式授予
		m.setAllFeatures(ModuleUnitManager, ViewOnly())

	case RoleSales:
		// 销售：本模块全权，可维护客户
		m.setAllFeatures(ModuleSales, AllTrue())
		m.setModule(ModuleCustomers, AllTrue())

	case RoleProduction:
		m.setAllFeatures(ModuleProduction, AllTrue())

	case RoleDispatch:
		m.setAllFeatures(ModuleDispatch, AllTrue())

	case RolePacking:
		m.setAllFeatures(ModulePacking, AllTrue())

	case RoleAccounts:
		m.setAllFeatures(ModuleAccounts, AllTrue())

	default:
		// 未知角色：全false
		return m
	}

	// 除超级管理员外，所有已知角色默认可见工作台
	if role != RoleSuperAdmin {
		m[ModuleDashboard][ModuleAccessFeature] = ViewOnly()
	}

	return m
}

// setModule 设置模块粒度模块的操作集
func (m Matrix) setModule(module string, actions ActionSet) {
	if features, ok := m[module]; ok {
		features[ModuleAccessFeature] = actions
	}
}

// setAllFeatures 设置功能粒度模块下全部功能的操作集
func (m Matrix) setAllFeatures(module string, actions ActionSet) {
	mod, ok := FindModule(module)
	if !ok {
		return
	}
	for _, f := range mod.Features {
		m[module][f.Code] = actions
	}
}
