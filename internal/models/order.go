package models

import "time"

// Order 订单模型
type Order struct {
	BaseModel
	OrderNumber      string     `json:"order_number" gorm:"unique;not null;size:50;index"`
	CompanyID        uint       `json:"company_id" gorm:"not null;index"`
	CustomerID       uint       `json:"customer_id" gorm:"not null;index"`
	SalesUserID      uint       `json:"sales_user_id" gorm:"not null;index"` // 下单销售
	Status           string     `json:"status" gorm:"default:'pending';size:20;index"`
	IsOverdue        bool       `json:"is_overdue" gorm:"default:false"` // 看门狗每日标记
	TotalAmount      float64    `json:"total_amount" gorm:"not null;default:0"`
	ExpectedDelivery *time.Time `json:"expected_delivery"`
	ApprovedBy       *uint      `json:"approved_by"`
	ApprovedAt       *time.Time `json:"approved_at"`
	Remark           string     `json:"remark" gorm:"size:500"`

	Customer  *Customer   `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Company   *Company    `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	SalesUser *User       `gorm:"foreignKey:SalesUserID" json:"sales_user,omitempty"`
	Items     []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// OrderItem 订单行
type OrderItem struct {
	BaseModel
	OrderID   uint    `json:"order_id" gorm:"not null;index"`
	ProductID uint    `json:"product_id" gorm:"not null;index"`
	Quantity  float64 `json:"quantity" gorm:"not null"`
	UnitPrice float64 `json:"unit_price" gorm:"not null"`
	Amount    float64 `json:"amount" gorm:"not null"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// TableName 表名
func (o *Order) TableName() string {
	return "orders"
}

// TableName 表名
func (i *OrderItem) TableName() string {
	return "order_items"
}

// 订单状态常量
const (
	OrderStatusPending      = "pending"       // 待审批
	OrderStatusApproved     = "approved"      // 已审批
	OrderStatusInProduction = "in_production" // 生产中
	OrderStatusPacked       = "packed"        // 已包装
	OrderStatusDispatched   = "dispatched"    // 已发运
	OrderStatusDelivered    = "delivered"     // 已送达
	OrderStatusCancelled    = "cancelled"     // 已取消
)

// 订单状态流转表：当前状态 → 允许的下一状态
var orderTransitions = map[string][]string{
	OrderStatusPending:      {OrderStatusApproved, OrderStatusCancelled},
	OrderStatusApproved:     {OrderStatusInProduction, OrderStatusCancelled},
	OrderStatusInProduction: {OrderStatusPacked},
	OrderStatusPacked:       {OrderStatusDispatched},
	OrderStatusDispatched:   {OrderStatusDelivered},
}

// CanTransition 判断订单状态能否流转到目标状态
func (o *Order) CanTransition(target string) bool {
	for _, next := range orderTransitions[o.Status] {
		if next == target {
			return true
		}
	}
	return false
}
