package services

import (
	"fmt"
	"strings"
	"time"

	"mferp/internal/database"
	"mferp/internal/events"
	"mferp/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderService struct {
	db  *gorm.DB
	hub *events.Hub
}

func NewOrderService() *OrderService {
	return &OrderService{
		db:  database.GetDB(),
		hub: events.GetHub(),
	}
}

// OrderItemInput 下单时的订单行
type OrderItemInput struct {
	ProductID uint    `json:"product_id" binding:"required"`
	Quantity  float64 `json:"quantity" binding:"required,gt=0"`
}

// generateOrderNumber 生成订单号：ORD-<日期>-<uuid前8位>
func generateOrderNumber() string {
	suffix := strings.Split(uuid.New().String(), "-")[0]
	return fmt.Sprintf("ORD-%s-%s", time.Now().Format("20060102"), strings.ToUpper(suffix))
}

// ========== 基础CRUD方法 ==========

// Create 创建订单（事务内生成订单行并计算总额）
func (s *OrderService) Create(companyID, customerID, salesUserID uint, items []OrderItemInput, expectedDelivery *time.Time, remark string) (*models.Order, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("订单至少包含一个订单行")
	}

	var customer models.Customer
	if err := s.db.Where("id = ? AND company_id = ?", customerID, companyID).First(&customer).Error; err != nil {
		return nil, fmt.Errorf("客户不存在")
	}

	order := &models.Order{
		OrderNumber:      generateOrderNumber(),
		CompanyID:        companyID,
		CustomerID:       customerID,
		SalesUserID:      salesUserID,
		Status:           models.OrderStatusPending,
		ExpectedDelivery: expectedDelivery,
		Remark:           remark,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var total float64
		orderItems := make([]models.OrderItem, 0, len(items))

		for _, item := range items {
			var product models.Product
			if err := tx.Where("id = ? AND company_id = ?", item.ProductID, companyID).First(&product).Error; err != nil {
				return fmt.Errorf("产品不存在: %d", item.ProductID)
			}
			if item.Quantity <= 0 {
				return fmt.Errorf("数量必须大于0")
			}

			amount := product.Price * item.Quantity
			total += amount
			orderItems = append(orderItems, models.OrderItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: product.Price,
				Amount:    amount,
			})
		}

		order.TotalAmount = total
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		for i := range orderItems {
			orderItems[i].OrderID = order.ID
		}
		return tx.Create(&orderItems).Error
	})
	if err != nil {
		return nil, err
	}

	s.hub.Publish(events.TypeOrderCreated, companyID, order)
	return order, nil
}

// GetByID 根据ID获取订单
func (s *OrderService) GetByID(id, companyID uint) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Customer").Preload("Items.Product").Preload("SalesUser").
		Where("id = ? AND company_id = ?", id, companyID).First(&order).Error
	return &order, err
}

// GetWithPage 分页获取订单列表
// salesUserID非空时只返回该销售的订单（"我的订单"）
func (s *OrderService) GetWithPage(companyID uint, salesUserID *uint, status string, overdueOnly bool, page, pageSize int) ([]*models.Order, int64, error) {
	var orders []*models.Order
	var total int64

	query := s.db.Model(&models.Order{}).Where("company_id = ?", companyID)
	if salesUserID != nil {
		query = query.Where("sales_user_id = ?", *salesUserID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if overdueOnly {
		query = query.Where("is_overdue = ?", true)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Preload("Customer").Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// ========== 状态流转 ==========

// Approve 审批订单
func (s *OrderService) Approve(id, companyID, approverID uint) (*models.Order, error) {
	return s.transition(id, companyID, models.OrderStatusApproved, func(order *models.Order) {
		now := time.Now()
		order.ApprovedBy = &approverID
		order.ApprovedAt = &now
	})
}

// UpdateStatus 订单状态流转（非法流转报错）
func (s *OrderService) UpdateStatus(id, companyID uint, target string) (*models.Order, error) {
	return s.transition(id, companyID, target, nil)
}

func (s *OrderService) transition(id, companyID uint, target string, mutate func(*models.Order)) (*models.Order, error) {
	var order models.Order
	if err := s.db.Where("id = ? AND company_id = ?", id, companyID).First(&order).Error; err != nil {
		return nil, err
	}

	if !order.CanTransition(target) {
		return nil, fmt.Errorf("订单状态不允许从 %s 流转到 %s", order.Status, target)
	}

	order.Status = target
	if mutate != nil {
		mutate(&order)
	}

	if err := s.db.Save(&order).Error; err != nil {
		return nil, err
	}

	s.hub.Publish(events.TypeOrderStatus, companyID, &order)
	return &order, nil
}

// ========== 今日请购 ==========

// GetTodaysIndents 今日新建且已审批待生产的订单
func (s *OrderService) GetTodaysIndents(companyID uint, page, pageSize int) ([]*models.Order, int64, error) {
	var orders []*models.Order
	var total int64

	today := time.Now().Truncate(24 * time.Hour)
	query := s.db.Model(&models.Order{}).
		Where("company_id = ? AND status = ? AND created_at >= ?", companyID, models.OrderStatusApproved, today)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Preload("Customer").Preload("Items.Product").Order("created_at DESC").
		Offset(offset).Limit(pageSize).Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// ========== 超期标记（看门狗调用） ==========

// FlagOverdueOrders 将超过预计交付日期且未送达的订单标记为超期
func (s *OrderService) FlagOverdueOrders() (int64, error) {
	result := s.db.Model(&models.Order{}).
		Where("is_overdue = ? AND expected_delivery IS NOT NULL AND expected_delivery < ?", false, time.Now()).
		Where("status NOT IN ?", []string{models.OrderStatusDelivered, models.OrderStatusCancelled}).
		Update("is_overdue", true)
	return result.RowsAffected, result.Error
}
