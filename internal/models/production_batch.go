package models

import "time"

// ProductionBatch 生产批次模型
type ProductionBatch struct {
	BaseModel
	BatchNumber string     `json:"batch_number" gorm:"unique;not null;size:50;index"`
	CompanyID   uint       `json:"company_id" gorm:"not null;index"`
	OrderID     *uint      `json:"order_id" gorm:"index"` // 关联订单，可为备货批次
	ProductID   uint       `json:"product_id" gorm:"not null;index"`
	PlannedQty  float64    `json:"planned_qty" gorm:"not null"`
	ProducedQty float64    `json:"produced_qty" gorm:"not null;default:0"`
	Status      string     `json:"status" gorm:"default:'planned';size:20;index"`
	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedBy   uint       `json:"created_by"`

	Order   *Order   `gorm:"foreignKey:OrderID" json:"order,omitempty"`
	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Company *Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
}

// TableName 表名
func (b *ProductionBatch) TableName() string {
	return "production_batches"
}

// 生产批次状态常量
const (
	BatchStatusPlanned    = "planned"
	BatchStatusInProgress = "in_progress"
	BatchStatusCompleted  = "completed"
	BatchStatusCancelled  = "cancelled"
)
