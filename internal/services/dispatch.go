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

type DispatchService struct {
	db  *gorm.DB
	hub *events.Hub
}

func NewDispatchService() *DispatchService {
	return &DispatchService{
		db:  database.GetDB(),
		hub: events.GetHub(),
	}
}

// generateDispatchNumber 生成发运单号：DSP-<日期>-<uuid前8位>
func generateDispatchNumber() string {
	suffix := strings.Split(uuid.New().String(), "-")[0]
	return fmt.Sprintf("DSP-%s-%s", time.Now().Format("20060102"), strings.ToUpper(suffix))
}

// ========== 基础CRUD方法 ==========

// Create 为已包装订单创建发运单
func (s *DispatchService) Create(companyID, orderID uint, vehicleNumber, driverName, driverPhone, remark string, createdBy uint) (*models.Dispatch, error) {
	var order models.Order
	if err := s.db.Where("id = ? AND company_id = ?", orderID, companyID).First(&order).Error; err != nil {
		return nil, fmt.Errorf("订单不存在")
	}

	if order.Status != models.OrderStatusPacked {
		return nil, fmt.Errorf("只有已包装的订单才能发运")
	}

	dispatch := &models.Dispatch{
		DispatchNumber: generateDispatchNumber(),
		CompanyID:      companyID,
		OrderID:        orderID,
		VehicleNumber:  vehicleNumber,
		DriverName:     driverName,
		DriverPhone:    driverPhone,
		Status:         models.DispatchStatusPending,
		CreatedBy:      createdBy,
		Remark:         remark,
	}

	if err := s.db.Create(dispatch).Error; err != nil {
		return nil, err
	}

	s.hub.Publish(events.TypeDispatchCreated, companyID, dispatch)
	return dispatch, nil
}

// GetByID 根据ID获取发运单
func (s *DispatchService) GetByID(id, companyID uint) (*models.Dispatch, error) {
	var dispatch models.Dispatch
	err := s.db.Preload("Order.Customer").
		Where("id = ? AND company_id = ?", id, companyID).First(&dispatch).Error
	return &dispatch, err
}

// GetPendingWithPage 待发运列表
func (s *DispatchService) GetPendingWithPage(companyID uint, page, pageSize int) ([]*models.Dispatch, int64, error) {
	return s.getWithPage(companyID, []string{models.DispatchStatusPending, models.DispatchStatusInTransit}, page, pageSize)
}

// GetHistoryWithPage 发运历史列表
func (s *DispatchService) GetHistoryWithPage(companyID uint, page, pageSize int) ([]*models.Dispatch, int64, error) {
	return s.getWithPage(companyID, []string{models.DispatchStatusDelivered}, page, pageSize)
}

func (s *DispatchService) getWithPage(companyID uint, statuses []string, page, pageSize int) ([]*models.Dispatch, int64, error) {
	var dispatches []*models.Dispatch
	var total int64

	query := s.db.Model(&models.Dispatch{}).
		Where("company_id = ? AND status IN ?", companyID, statuses)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Preload("Order.Customer").Order("created_at DESC").
		Offset(offset).Limit(pageSize).Find(&dispatches).Error
	if err != nil {
		return nil, 0, err
	}

	return dispatches, total, nil
}

// ========== 状态流转 ==========

// MarkInTransit 发车
func (s *DispatchService) MarkInTransit(id, companyID uint) (*models.Dispatch, error) {
	var dispatch models.Dispatch
	if err := s.db.Where("id = ? AND company_id = ?", id, companyID).First(&dispatch).Error; err != nil {
		return nil, err
	}

	if dispatch.Status != models.DispatchStatusPending {
		return nil, fmt.Errorf("只有待发运的发运单才能发车")
	}

	now := time.Now()
	dispatch.Status = models.DispatchStatusInTransit
	dispatch.DispatchedAt = &now

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&dispatch).Error; err != nil {
			return err
		}
		return tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", dispatch.OrderID, models.OrderStatusPacked).
			Update("status", models.OrderStatusDispatched).Error
	})
	if err != nil {
		return nil, err
	}

	s.hub.Publish(events.TypeDispatchStatus, companyID, &dispatch)
	return &dispatch, nil
}

// MarkDelivered 签收送达
func (s *DispatchService) MarkDelivered(id, companyID uint) (*models.Dispatch, error) {
	var dispatch models.Dispatch
	if err := s.db.Where("id = ? AND company_id = ?", id, companyID).First(&dispatch).Error; err != nil {
		return nil, err
	}

	if dispatch.Status != models.DispatchStatusInTransit {
		return nil, fmt.Errorf("只有在途的发运单才能签收")
	}

	now := time.Now()
	dispatch.Status = models.DispatchStatusDelivered
	dispatch.DeliveredAt = &now

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&dispatch).Error; err != nil {
			return err
		}
		return tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", dispatch.OrderID, models.OrderStatusDispatched).
			Update("status", models.OrderStatusDelivered).Error
	})
	if err != nil {
		return nil, err
	}

	s.hub.Publish(events.TypeDispatchStatus, companyID, &dispatch)
	return &dispatch, nil
}
