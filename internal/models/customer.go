package models

// Customer 客户模型
type Customer struct {
	BaseModel
	CompanyID     uint    `json:"company_id" gorm:"not null;index"`
	Name          string  `json:"name" gorm:"not null;size:100"`
	ContactPerson string  `json:"contact_person" gorm:"size:100"`
	Phone         *string `json:"phone" gorm:"size:20"`
	Email         *string `json:"email" gorm:"size:100"`
	Address       string  `json:"address" gorm:"size:255"`
	GSTNumber     string  `json:"gst_number" gorm:"size:30"`
	SalesUserID   *uint   `json:"sales_user_id" gorm:"index"` // 负责的销售
	Status        string  `json:"status" gorm:"default:'active';size:20"`

	Company   *Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	SalesUser *User    `gorm:"foreignKey:SalesUserID" json:"sales_user,omitempty"`
}

// TableName 表名
func (c *Customer) TableName() string {
	return "customers"
}

// 客户状态常量
const (
	CustomerStatusActive   = "active"
	CustomerStatusInactive = "inactive"
)
