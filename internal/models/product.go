package models

// Product 产品模型
type Product struct {
	BaseModel
	CompanyID    uint    `json:"company_id" gorm:"not null;index"`
	Name         string  `json:"name" gorm:"not null;size:100"`
	SKU          string  `json:"sku" gorm:"unique;not null;size:50;index"`
	Category     string  `json:"category" gorm:"size:50"`
	Unit         string  `json:"unit" gorm:"size:20"` // 计量单位：kg、pcs等
	Price        float64 `json:"price" gorm:"not null;default:0"`
	StockQty     float64 `json:"stock_qty" gorm:"not null;default:0"`
	ReorderLevel float64 `json:"reorder_level" gorm:"default:0"` // 低于该值提示补货
	Status       string  `json:"status" gorm:"default:'active';size:20"`

	Company *Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
}

// TableName 表名
func (p *Product) TableName() string {
	return "products"
}

// 产品状态常量
const (
	ProductStatusActive       = "active"
	ProductStatusDiscontinued = "discontinued"
)
