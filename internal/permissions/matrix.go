package permissions

// ActionSet 单个功能的四个操作开关
// 四个开关相互独立：edit为true不意味着view为true，求值时按字面取值
type ActionSet struct {
	View   bool `json:"view"`
	Add    bool `json:"add"`
	Edit   bool `json:"edit"`
	Delete bool `json:"delete"`
}

// Matrix 权限矩阵：模块 → 功能 → 操作开关
// 每个用户持有一份，整体替换、从不局部合并
type Matrix map[string]map[string]ActionSet

// Get 按操作名取开关值
func (a ActionSet) Get(action string) bool {
	switch action {
	case ActionView:
		return a.View
	case ActionAdd:
		return a.Add
	case ActionEdit:
		return a.Edit
	case ActionDelete:
		return a.Delete
	}
	return false
}

// Any 任意一个操作为true
func (a ActionSet) Any() bool {
	return a.View || a.Add || a.Edit || a.Delete
}

// AllTrue 全开的操作集
func AllTrue() ActionSet {
	return ActionSet{View: true, Add: true, Edit: true, Delete: true}
}

// ViewOnly 只读的操作集
func ViewOnly() ActionSet {
	return ActionSet{View: true}
}

// EmptyMatrix 返回包含目录全部模块/功能键、取值全false的矩阵
// 矩阵始终保持键完整，缺键一律按false处理而不是"未知"
func EmptyMatrix() Matrix {
	m := make(Matrix, len(catalog))
	for _, mod := range catalog {
		features := make(map[string]ActionSet, len(mod.Features))
		for _, f := range mod.Features {
			features[f.Code] = ActionSet{}
		}
		m[mod.Code] = features
	}
	return m
}

// Clone 深拷贝矩阵
func (m Matrix) Clone() Matrix {
	result := make(Matrix, len(m))
	for mod, features := range m {
		fs := make(map[string]ActionSet, len(features))
		for f, actions := range features {
			fs[f] = actions
		}
		result[mod] = fs
	}
	return result
}

// Backfill 以目录为准补齐缺失的模块/功能键（补为false），
// 并丢弃目录中已不存在的键。用于目录演进后读取旧账号的矩阵
func (m Matrix) Backfill() Matrix {
	result := EmptyMatrix()
	for _, mod := range catalog {
		storedFeatures, ok := m[mod.Code]
		if !ok {
			continue
		}
		for _, f := range mod.Features {
			if actions, found := storedFeatures[f.Code]; found {
				result[mod.Code][f.Code] = actions
			}
		}
	}
	return result
}
