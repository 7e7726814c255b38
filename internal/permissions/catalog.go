package permissions

// 权限目录：模块 → 功能 → 操作。目录是封闭的静态清单，不允许运行时扩展。

// 操作常量（每个模块/功能固定四种操作）
const (
	ActionView   = "view"
	ActionAdd    = "add"
	ActionEdit   = "edit"
	ActionDelete = "delete"
)

// ModuleAccessFeature 模块粒度模块的隐式功能键
// dashboard 这类模块不细分功能，整个模块共用一组操作开关
const ModuleAccessFeature = "access"

// 模块代码常量
const (
	ModuleDashboard   = "dashboard"
	ModuleInventory   = "inventory"
	ModuleCustomers   = "customers"
	ModuleOrders      = "orders"
	ModuleSales       = "sales"
	ModuleUnitManager = "unitManager"
	ModuleProduction  = "production"
	ModuleAccounts    = "accounts"
	ModuleDispatch    = "dispatch"
	ModulePacking     = "packing"
)

// FeatureDescriptor 功能描述
type FeatureDescriptor struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// ModuleDescriptor 模块描述
type ModuleDescriptor struct {
	Code        string              `json:"code"`
	Name        string              `json:"name"`
	ModuleLevel bool                `json:"module_level"` // true表示模块粒度（隐式access功能）
	Features    []FeatureDescriptor `json:"features"`
}

// catalog 静态权限目录
var catalog = []ModuleDescriptor{
	{
		Code: ModuleDashboard, Name: "工作台", ModuleLevel: true,
		Features: []FeatureDescriptor{{Code: ModuleAccessFeature, Name: "工作台"}},
	},
	{
		Code: ModuleInventory, Name: "库存管理", ModuleLevel: true,
		Features: []FeatureDescriptor{{Code: ModuleAccessFeature, Name: "库存管理"}},
	},
	{
		Code: ModuleCustomers, Name: "客户管理", ModuleLevel: true,
		Features: []FeatureDescriptor{{Code: ModuleAccessFeature, Name: "客户管理"}},
	},
	{
		Code: ModuleOrders, Name: "订单管理", ModuleLevel: true,
		Features: []FeatureDescriptor{{Code: ModuleAccessFeature, Name: "订单管理"}},
	},
	{
		Code: ModuleSales, Name: "销售",
		Features: []FeatureDescriptor{
			{Code: "myCustomers", Name: "我的客户"},
			{Code: "myOrders", Name: "我的订单"},
			{Code: "myDeliveries", Name: "我的发货"},
			{Code: "myInvoices", Name: "我的发票"},
		},
	},
	{
		Code: ModuleUnitManager, Name: "单位经理",
		Features: []FeatureDescriptor{
			{Code: "salesApproval", Name: "销售审批"},
			{Code: "productionApproval", Name: "生产审批"},
			{Code: "dispatchApproval", Name: "发运审批"},
		},
	},
	{
		Code: ModuleProduction, Name: "生产",
		Features: []FeatureDescriptor{
			{Code: "todaysIndents", Name: "今日请购"},
			{Code: "batchProduction", Name: "批次生产"},
			{Code: "stockLevels", Name: "库存水位"},
		},
	},
	{
		Code: ModuleAccounts, Name: "财务",
		Features: []FeatureDescriptor{
			{Code: "receivables", Name: "应收"},
			{Code: "payables", Name: "应付"},
			{Code: "ledger", Name: "台账"},
		},
	},
	{
		Code: ModuleDispatch, Name: "发运",
		Features: []FeatureDescriptor{
			{Code: "createDispatch", Name: "创建发运"},
			{Code: "pendingDispatch", Name: "待发运"},
			{Code: "dispatchHistory", Name: "发运历史"},
		},
	},
	{
		Code: ModulePacking, Name: "包装",
		Features: []FeatureDescriptor{
			{Code: "packingQueue", Name: "包装队列"},
			{Code: "packedOrders", Name: "已包装订单"},
		},
	},
}

// Catalog 返回完整权限目录（副本，调用方不可变更目录本身）
func Catalog() []ModuleDescriptor {
	result := make([]ModuleDescriptor, len(catalog))
	copy(result, catalog)
	return result
}

// FindModule 按代码查找模块描述
func FindModule(code string) (ModuleDescriptor, bool) {
	for _, m := range catalog {
		if m.Code == code {
			return m, true
		}
	}
	return ModuleDescriptor{}, false
}

// HasFeature 判断模块下是否存在指定功能
func HasFeature(moduleCode, featureCode string) bool {
	m, ok := FindModule(moduleCode)
	if !ok {
		return false
	}
	for _, f := range m.Features {
		if f.Code == featureCode {
			return true
		}
	}
	return false
}

// ValidAction 判断操作名是否合法
func ValidAction(action string) bool {
	switch action {
	case ActionView, ActionAdd, ActionEdit, ActionDelete:
		return true
	}
	return false
}

// CatalogFor 返回某角色界面可呈现的模块子集（纯函数，仅用于UI渲染）
// 未知角色只看到工作台
func CatalogFor(role string) []ModuleDescriptor {
	if IsSuperRole(role) {
		return Catalog()
	}

	codes, ok := roleModules[role]
	if !ok {
		codes = []string{ModuleDashboard}
	}

	result := make([]ModuleDescriptor, 0, len(codes))
	for _, code := range codes {
		if m, found := FindModule(code); found {
			result = append(result, m)
		}
	}
	return result
}
