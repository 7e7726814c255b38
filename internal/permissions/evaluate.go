package permissions

// 求值器：针对矩阵回答允许/拒绝。纯函数、无I/O，
// 服务端中间件和客户端网关共用同一套语义

// 角色代码常量
const (
	RoleSuperAdmin  = "super_admin"
	RoleUnitHead    = "unit_head"
	RoleUnitManager = "unit_manager"
	RoleSales       = "sales"
	RoleProduction  = "production"
	RoleDispatch    = "dispatch"
	RolePacking     = "packing"
	RoleAccounts    = "accounts"
)

// RoleNames 角色代码到显示名的映射
var RoleNames = map[string]string{
	RoleSuperAdmin:  "超级管理员",
	RoleUnitHead:    "单位负责人",
	RoleUnitManager: "单位经理",
	RoleSales:       "销售",
	RoleProduction:  "生产",
	RoleDispatch:    "发运",
	RolePacking:     "包装",
	RoleAccounts:    "财务",
}

// KnownRole 判断角色代码是否已定义
func KnownRole(role string) bool {
	_, ok := RoleNames[role]
	return ok
}

// IsSuperRole 超级管理员旁路判断
// 必须在任何矩阵查询之前调用：超级管理员不依赖存储矩阵，直接全通过
func IsSuperRole(role string) bool {
	return role == RoleSuperAdmin
}

// Can 查询 (模块, 功能, 操作) 是否允许
// 任何缺失的路径段都视为false，从不panic、从不把缺失当作允许
func Can(m Matrix, module, feature, action string) bool {
	features, ok := m[module]
	if !ok {
		return false
	}
	actions, ok := features[feature]
	if !ok {
		return false
	}
	return actions.Get(action)
}

// CanModule 模块粒度模块的快捷查询（隐式access功能）
func CanModule(m Matrix, module, action string) bool {
	return Can(m, module, ModuleAccessFeature, action)
}

// CanAccessModule 判断模块是否对用户可见
// 可见性完全由功能开关推导，不单独存储，避免两者不一致
func CanAccessModule(m Matrix, module string) bool {
	mod, ok := FindModule(module)
	if !ok {
		return false
	}
	features, ok := m[module]
	if !ok {
		return false
	}
	for _, f := range mod.Features {
		if actions, found := features[f.Code]; found && actions.Any() {
			return true
		}
	}
	return false
}
