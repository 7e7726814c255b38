package models

import "time"

// Dispatch 发运单模型
type Dispatch struct {
	BaseModel
	DispatchNumber string     `json:"dispatch_number" gorm:"unique;not null;size:50;index"`
	CompanyID      uint       `json:"company_id" gorm:"not null;index"`
	OrderID        uint       `json:"order_id" gorm:"not null;index"`
	VehicleNumber  string     `json:"vehicle_number" gorm:"size:30"`
	DriverName     string     `json:"driver_name" gorm:"size:100"`
	DriverPhone    string     `json:"driver_phone" gorm:"size:20"`
	Status         string     `json:"status" gorm:"default:'pending';size:20;index"`
	DispatchedAt   *time.Time `json:"dispatched_at"`
	DeliveredAt    *time.Time `json:"delivered_at"`
	CreatedBy      uint       `json:"created_by"`
	Remark         string     `json:"remark" gorm:"size:500"`

	Order   *Order   `gorm:"foreignKey:OrderID" json:"order,omitempty"`
	Company *Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
}

// TableName 表名
func (d *Dispatch) TableName() string {
	return "dispatches"
}

// 发运状态常量
const (
	DispatchStatusPending   = "pending"
	DispatchStatusInTransit = "in_transit"
	DispatchStatusDelivered = "delivered"
)
