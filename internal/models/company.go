package models

// Company 单位（公司/生产基地）模型
// 单位约束业务数据的行范围，不参与权限矩阵的求值
type Company struct {
	BaseModel
	Name      string `json:"name" gorm:"not null;size:100"`
	Code      string `json:"code" gorm:"unique;not null;size:50;index"`
	Address   string `json:"address" gorm:"size:255"`
	GSTNumber string `json:"gst_number" gorm:"size:30"`
	Status    string `json:"status" gorm:"default:'active';size:20"`
	UserCount int    `json:"user_count" gorm:"-"` // 用户数量，不落库
}

// TableName 表名
func (c *Company) TableName() string {
	return "companies"
}

// 单位状态常量
const (
	CompanyStatusActive   = "active"
	CompanyStatusInactive = "inactive"
)
