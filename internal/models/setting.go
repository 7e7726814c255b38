package models

// Setting 单位级键值配置
type Setting struct {
	BaseModel
	CompanyID uint   `json:"company_id" gorm:"not null;index;uniqueIndex:idx_company_key"`
	Key       string `json:"key" gorm:"not null;size:100;uniqueIndex:idx_company_key"`
	Value     string `json:"value" gorm:"size:1000"`
	UpdatedBy uint   `json:"updated_by"`
}

// TableName 表名
func (s *Setting) TableName() string {
	return "settings"
}
